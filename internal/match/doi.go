package match

import "strings"

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"dx.doi.org/",
	"doi:",
}

// NormalizeDOI reduces a DOI to its bare lower-case form, so
// "https://doi.org/10.1/ABC", "doi:10.1/abc" and "{10.1/abc}" all
// compare equal. An empty input stays empty.
func NormalizeDOI(doi string) string {
	doi = strings.ToLower(strings.TrimSpace(doi))
	doi = strings.TrimSpace(strings.NewReplacer("{", "", "}", "").Replace(doi))
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(doi, prefix) {
			doi = strings.TrimSpace(doi[len(prefix):])
			break
		}
	}
	return doi
}

// SameDOI reports whether two DOIs name the same work. Empty DOIs never
// match.
func SameDOI(a, b string) bool {
	a, b = NormalizeDOI(a), NormalizeDOI(b)
	return a != "" && a == b
}
