// Package match scores how alike two publication titles are and
// normalizes the identifiers used to recognize the same work.
package match

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/matsen/litbib/internal/textnorm"
)

// TitleMatchThreshold is the title similarity at or above which two
// titles are considered the same work.
const TitleMatchThreshold = 0.8

// levenshtein is read-only after construction.
var levenshtein = metrics.NewLevenshtein()

// Similarity returns a symmetric score in [0, 1]; 1 means identical.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	s := strutil.Similarity(a, b, levenshtein)
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}

// NormalizeTitle lower-cases a title and removes its braces.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(strings.ToLower(textnorm.StripBraces(title)))
}

// TitleSimilarity compares two titles after normalization.
func TitleSimilarity(a, b string) float64 {
	return Similarity(NormalizeTitle(a), NormalizeTitle(b))
}

// IsTitleMatch reports whether two titles are similar enough to be the
// same work.
func IsTitleMatch(a, b string) bool {
	return TitleSimilarity(a, b) >= TitleMatchThreshold
}

// Scored is a candidate title position with its similarity to a query.
type Scored struct {
	Index int
	Score float64
}

// Rank scores query against every title and returns the results sorted
// by descending score. Ties keep the input order.
func Rank(query string, titles []string) []Scored {
	q := NormalizeTitle(query)
	out := make([]Scored, len(titles))
	for i, title := range titles {
		out[i] = Scored{Index: i, Score: Similarity(q, NormalizeTitle(title))}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Confidence grades how trustworthy the best title match is.
type Confidence int

const (
	// NoMatch means no titles were given.
	NoMatch Confidence = iota
	// BestGuess means the best score is below the threshold.
	BestGuess
	// Ambiguous means more than one title reaches the threshold.
	Ambiguous
	// Confident means exactly one title reaches the threshold.
	Confident
)

func (c Confidence) String() string {
	switch c {
	case BestGuess:
		return "best_guess"
	case Ambiguous:
		return "ambiguous"
	case Confident:
		return "confident"
	default:
		return "no_match"
	}
}

// Best returns the highest scoring title and how much to trust it.
// The returned Scored is meaningful unless the confidence is NoMatch.
func Best(query string, titles []string) (Scored, Confidence) {
	ranked := Rank(query, titles)
	if len(ranked) == 0 {
		return Scored{Index: -1}, NoMatch
	}
	above := 0
	for _, s := range ranked {
		if s.Score < TitleMatchThreshold {
			break
		}
		above++
	}
	switch above {
	case 0:
		return ranked[0], BestGuess
	case 1:
		return ranked[0], Confident
	default:
		return ranked[0], Ambiguous
	}
}
