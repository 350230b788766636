package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// accentCommands maps a combining mark to the LaTeX command producing it.
var accentCommands = map[rune]string{
	'\u0300': "`",
	'\u0301': "'",
	'\u0302': "^",
	'\u0303': "~",
	'\u0304': "=",
	'\u0306': "u",
	'\u0307': ".",
	'\u0308': `"`,
	'\u030a': "r",
	'\u030b': "H",
	'\u030c': "v",
	'\u0327': "c",
	'\u0328': "k",
}

// specialGlyphs are letters LaTeX writes as a standalone macro.
var specialGlyphs = map[rune]string{
	'ø': `{\o}`, 'Ø': `{\O}`,
	'ß': `{\ss}`,
	'æ': `{\ae}`, 'Æ': `{\AE}`,
	'œ': `{\oe}`, 'Œ': `{\OE}`,
	'å': `{\aa}`, 'Å': `{\AA}`,
	'ł': `{\l}`, 'Ł': `{\L}`,
	'ı': `{\i}`,
}

var (
	// {\'e} and {\'{e}}
	wrappedSymbolAccent = regexp.MustCompile("\\{\\\\([`'^~=.\"])(?:\\{([A-Za-z])\\}|\\s*([A-Za-z]))\\}")
	// {\c c} and {\c{c}}
	wrappedLetterAccent = regexp.MustCompile(`\{\\([uvHrck])(?:\{([A-Za-z])\}|\s+([A-Za-z]))\}`)
	// \'e
	bareSymbolAccent = regexp.MustCompile("\\\\([`'^~=.\"])([A-Za-z])")
	// \c c
	bareLetterAccent = regexp.MustCompile(`\\([uvHrck])\s+([A-Za-z])`)
)

// AccentTable maps accented letters to one canonical LaTeX spelling,
// \'{e}, so names compare equal regardless of how they were typed.
// A table is immutable once built and safe for concurrent use.
type AccentTable struct {
	glyphs map[rune]string
}

// NewAccentTable builds the table for the Latin-1 Supplement and Latin
// Extended-A blocks.
func NewAccentTable() *AccentTable {
	t := &AccentTable{glyphs: make(map[rune]string)}
	for r := rune(0x00C0); r <= 0x017F; r++ {
		if g, ok := specialGlyphs[r]; ok {
			t.glyphs[r] = g
			continue
		}
		decomposed := []rune(norm.NFD.String(string(r)))
		if len(decomposed) != 2 || decomposed[0] >= utf8.RuneSelf {
			continue
		}
		cmd, ok := accentCommands[decomposed[1]]
		if !ok {
			continue
		}
		t.glyphs[r] = `\` + cmd + `{` + string(decomposed[0]) + `}`
	}
	return t
}

var defaultAccents = NewAccentTable()

// DefaultAccents returns the shared accent table.
func DefaultAccents() *AccentTable {
	return defaultAccents
}

// Glyph returns the canonical LaTeX spelling of r.
func (t *AccentTable) Glyph(r rune) (string, bool) {
	g, ok := t.glyphs[r]
	return g, ok
}

// ToLatex rewrites accented Unicode letters and variant LaTeX accent
// spellings in s into the canonical form. Characters with no LaTeX
// equivalent are left untouched.
func (t *AccentTable) ToLatex(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFC.String(s) {
		if g, ok := t.glyphs[r]; ok {
			b.WriteString(g)
			continue
		}
		b.WriteRune(r)
	}
	return Canonicalize(b.String())
}

// Canonicalize rewrites {\'e}, {\'{e}} and \'e as \'{e}, and the letter
// accents {\c c}, {\c{c}} and \c c as \c{c}.
func Canonicalize(s string) string {
	s = replaceAccent(wrappedSymbolAccent, s)
	s = replaceAccent(wrappedLetterAccent, s)
	s = bareSymbolAccent.ReplaceAllString(s, `\$1{$2}`)
	s = bareLetterAccent.ReplaceAllString(s, `\$1{$2}`)
	return s
}

func replaceAccent(re *regexp.Regexp, s string) string {
	return re.ReplaceAllStringFunc(s, func(m string) string {
		sub := re.FindStringSubmatch(m)
		letter := sub[2]
		if letter == "" {
			letter = sub[3]
		}
		return `\` + sub[1] + `{` + letter + `}`
	})
}

// Span is a half-open byte range of a string.
type Span struct {
	Start int
	End   int
}

type letterPos struct {
	letter     byte
	start, end int
}

// FindAccentVariants returns the spans of text that spell name with the same
// letters, ignoring accents and case, but differ from it byte for byte.
// Use it to find names typed without their accents or with a
// non-canonical accent spelling.
func FindAccentVariants(text, name string) []Span {
	target := LettersOnly(ToASCII(stripLatexCommands(name)))
	if target == "" {
		return nil
	}
	letters := indexLetters(text)

	var spans []Span
	for i := 0; i+len(target) <= len(letters); i++ {
		if !lettersMatch(letters[i:i+len(target)], target) {
			continue
		}
		span := Span{Start: letters[i].start, End: letters[i+len(target)-1].end}
		span.End = closeBraces(text, span)
		if text[span.Start:span.End] != name {
			spans = append(spans, span)
		}
		i += len(target) - 1
	}
	return spans
}

func lettersMatch(got []letterPos, want string) bool {
	for j := range got {
		if got[j].letter != want[j] {
			return false
		}
	}
	return true
}

// indexLetters lists the lower-cased ASCII letters of text with their
// source byte ranges. LaTeX command names are skipped unless the command
// is itself a letter such as \o or \ss.
func indexLetters(text string) []letterPos {
	var out []letterPos
	cmdStart := -1
	endCommand := func(at int) {
		name := text[cmdStart+1 : at]
		if glyphCommands[name] {
			for _, c := range []byte(strings.ToLower(name)) {
				out = append(out, letterPos{letter: c, start: cmdStart, end: at})
			}
		}
		cmdStart = -1
	}
	for i, r := range text {
		if cmdStart >= 0 {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				continue
			}
			endCommand(i)
		}
		if r == '\\' {
			cmdStart = i
			continue
		}
		size := utf8.RuneLen(r)
		for _, c := range []byte(strings.ToLower(ToASCII(string(r)))) {
			if c >= 'a' && c <= 'z' {
				out = append(out, letterPos{letter: c, start: i, end: i + size})
			}
		}
	}
	if cmdStart >= 0 {
		endCommand(len(text))
	}
	return out
}

// closeBraces extends span over closing braces left open inside it.
func closeBraces(text string, span Span) int {
	depth := strings.Count(text[span.Start:span.End], "{") - strings.Count(text[span.Start:span.End], "}")
	end := span.End
	for depth > 0 && end < len(text) && text[end] == '}' {
		end++
		depth--
	}
	return end
}

var latexCommand = regexp.MustCompile(`\\[A-Za-z]+\s*|\\.`)

// glyphCommands are the macros in specialGlyphs, which spell letters.
var glyphCommands = map[string]bool{
	"o": true, "O": true, "ss": true, "ae": true, "AE": true, "oe": true,
	"OE": true, "aa": true, "AA": true, "l": true, "L": true, "i": true,
}

// StripLatex removes LaTeX commands from s, keeping the letters of glyph
// macros: S\'{a}nchez becomes S{a}nchez and {\o} becomes {o}.
func StripLatex(s string) string {
	return stripLatexCommands(s)
}

func stripLatexCommands(s string) string {
	return latexCommand.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.TrimSpace(m)[1:]
		if glyphCommands[name] {
			return name
		}
		return ""
	})
}
