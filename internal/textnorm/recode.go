package textnorm

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// suspiciousRun matches two or more characters outside the set normally
// found in bibliography text.
var suspiciousRun = regexp.MustCompile(`[^0-9a-zA-Z\s{}()\[\]<>.,;:?!_\-+=&/\\'"$%*@#|^~` + "`" + `]{2,}`)

// legacyEncodings are tried in order when undoing double encoding.
var legacyEncodings = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// Mojibake is a run of characters that decodes to a single character
// once re-encoded, the signature of UTF-8 read as a legacy code page.
type Mojibake struct {
	Offset int    `json:"offset"`
	Text   string `json:"text"`
	Fixed  string `json:"fixed"`
}

// FindMojibake scans one line for doubly encoded characters.
func FindMojibake(line string) []Mojibake {
	var found []Mojibake
	for _, loc := range suspiciousRun.FindAllStringIndex(line, -1) {
		run := line[loc[0]:loc[1]]
		fixed, ok := Recode(run)
		if ok && utf8.RuneCountInString(fixed) == 1 {
			found = append(found, Mojibake{Offset: loc[0], Text: run, Fixed: fixed})
		}
	}
	return found
}

// Recode re-encodes s in each legacy code page and returns the first
// result that is valid UTF-8 and differs from s.
func Recode(s string) (string, bool) {
	for _, enc := range legacyEncodings {
		raw, err := enc.NewEncoder().String(s)
		if err != nil {
			continue
		}
		if raw != s && utf8.ValidString(raw) {
			return raw, true
		}
	}
	return "", false
}
