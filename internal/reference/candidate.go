// Package reference defines the external publication records that are
// reconciled against the bibliography.
package reference

import (
	"strconv"
	"strings"
)

// PaperURLPrefix is the Semantic Scholar landing page prefix for a paper id.
const PaperURLPrefix = "https://www.semanticscholar.org/paper/"

// Candidate is a publication reported by an external source for one staff
// member. It lives for a single run.
type Candidate struct {
	// ExternalID is the Semantic Scholar paper id.
	ExternalID    string   `json:"external_id"`
	Title         string   `json:"title"`
	Authors       []Author `json:"authors,omitempty"`
	DOI           string   `json:"doi,omitempty"`
	Year          int      `json:"year,omitempty"`
	Venue         string   `json:"venue,omitempty"`
	CitationCount int      `json:"citation_count,omitempty"`
	PMID          string   `json:"pmid,omitempty"`
	// Staff is the roster member the candidate was found for.
	Staff string `json:"staff,omitempty"`
}

// URL returns the candidate's landing page.
func (c Candidate) URL() string {
	if c.ExternalID == "" {
		return ""
	}
	return PaperURLPrefix + c.ExternalID
}

// AuthorNames returns the authors as "First Last" strings.
func (c Candidate) AuthorNames() []string {
	names := make([]string, 0, len(c.Authors))
	for _, a := range c.Authors {
		names = append(names, a.FullName())
	}
	return names
}

// Label is a short human-readable description used in reports.
func (c Candidate) Label() string {
	var b strings.Builder
	if len(c.Authors) > 0 {
		b.WriteString(c.Authors[0].Last)
		if len(c.Authors) > 1 {
			b.WriteString(" et al.")
		}
		b.WriteString(" ")
	}
	if c.Year > 0 {
		b.WriteString("(")
		b.WriteString(strconv.Itoa(c.Year))
		b.WriteString(") ")
	}
	b.WriteString(c.Title)
	return strings.TrimSpace(b.String())
}
