// Package textnorm converts between the Unicode text returned by external
// services and the ASCII/LaTeX text stored in bibliography files.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// digraphs covers letters and punctuation that do not decompose into an
// ASCII base letter plus combining marks.
var digraphs = map[rune]string{
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O", 'ł': "l", 'Ł': "L", 'đ': "d", 'Đ': "D",
	'ð': "d", 'Ð': "D", 'þ': "th", 'Þ': "Th", 'ı': "i", 'ħ': "h", 'Ħ': "H",
	'\u2018': "'", '\u2019': "'", '\u201a': "'", '\u2032': "'",
	'\u201c': `"`, '\u201d': `"`, '\u201e': `"`, '\u00ab': "<<", '\u00bb': ">>",
	'\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2013': "-", '\u2014': "--", '\u2212': "-",
	'\u2026': "...", '\u00b7': ".", '\u2022': "*",
	'\u00a0': " ", '\u2002': " ", '\u2003': " ", '\u2009': " ", '\u202f': " ",
	'\u00b0': "deg", '\u00d7': "x", '\u00b1': "+-", '\u00b5': "u", '\u03bc': "u",
	'\u00ae': "(R)", '\u00a9': "(C)", '\u2122': "(TM)",
	'\u2264': "<=", '\u2265': ">=", '\u2248': "~",
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// ToASCII transliterates s to ASCII. Accented letters lose their marks,
// known ligatures and typographic punctuation are spelled out, and any
// remaining non-ASCII character is dropped.
func ToASCII(s string) string {
	if isASCII(s) {
		return s
	}
	stripped, _, err := transform.String(stripMarks(), s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case digraphs[r] != "":
			b.WriteString(digraphs[r])
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
