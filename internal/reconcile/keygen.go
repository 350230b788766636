package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/litbib/internal/textnorm"
)

// ErrKeyCollisionExhausted is returned when a key base and all 26 letter
// suffixes are taken.
var ErrKeyCollisionExhausted = errors.New("key collision suffixes exhausted")

// anonymousBase is used when a surname has no letters.
const anonymousBase = "Anon"

// KeyBase builds the citation key stem from the first author's family name
// and the publication year: the last word of the name, transliterated,
// reduced to letters, capitalized and cut to four letters, followed by the
// two-digit year. "van der Berg", 2023 gives "Berg23".
func KeyBase(family string, year int) string {
	words := strings.Fields(family)
	last := ""
	if len(words) > 0 {
		last = words[len(words)-1]
	}
	last = strings.ToLower(textnorm.LettersOnly(textnorm.ToASCII(last)))
	if last == "" {
		last = strings.ToLower(anonymousBase)
	}
	if len(last) > 4 {
		last = last[:4]
	}
	return strings.ToUpper(last[:1]) + last[1:] + fmt.Sprintf("%02d", year%100)
}

// NextKey returns base when no record uses it, otherwise base followed by
// the first free letter.
func NextKey(base string, taken map[string]bool) (string, error) {
	if !taken[base] {
		return base, nil
	}
	for c := 'a'; c <= 'z'; c++ {
		if key := base + string(c); !taken[key] {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrKeyCollisionExhausted, base)
}
