package textnorm

import (
	"strings"
	"unicode"
)

var braceRemover = strings.NewReplacer("{", "", "}", "")

// StripBraces removes every curly brace from s.
func StripBraces(s string) string {
	return braceRemover.Replace(s)
}

// StripOuterBraces trims whitespace and any number of enclosing braces,
// so "{ {Title} }" becomes "Title".
func StripOuterBraces(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// LettersOnly lower-cases s and keeps only its letters.
func LettersOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BalanceBraces drops every closing brace with no opener and every
// opening brace that is never closed, leaving a string that is safe to
// wrap in a brace-delimited field value.
func BalanceBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	drop := make(map[int]bool)
	var open []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				drop[i] = true
			} else {
				open = open[:len(open)-1]
			}
		}
	}
	for _, i := range open {
		drop[i] = true
	}
	if len(drop) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !drop[i] {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
