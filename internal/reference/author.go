package reference

import "strings"

// Author is a publication author.
type Author struct {
	First string `json:"first,omitempty"` // given name(s), middle names included
	Last  string `json:"last"`            // family name, suffix included
}

// FullName returns "First Last".
func (a Author) FullName() string {
	return strings.TrimSpace(a.First + " " + a.Last)
}

// nameSuffixes stay attached to the family name.
var nameSuffixes = map[string]bool{
	"jr":   true,
	"jr.":  true,
	"sr":   true,
	"sr.":  true,
	"ii":   true,
	"iii":  true,
	"iv":   true,
	"phd":  true,
	"ph.d": true,
	"md":   true,
	"m.d":  true,
}

// ParseAuthor splits a full name such as "Clara I. Sánchez" into given and
// family names. The last word is the family name, keeping a trailing
// suffix (Jr, III, PhD) with it.
//
// Multi-part surnames (van Ginneken, de Vries) are split at the last word.
func ParseAuthor(name string) Author {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return Author{}
	case 1:
		return Author{Last: parts[0]}
	}

	n := len(parts)
	if nameSuffixes[strings.ToLower(parts[n-1])] && n > 2 {
		return Author{
			First: strings.Join(parts[:n-2], " "),
			Last:  parts[n-2] + " " + parts[n-1],
		}
	}
	return Author{
		First: strings.Join(parts[:n-1], " "),
		Last:  parts[n-1],
	}
}
