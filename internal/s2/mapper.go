package s2

import (
	"strings"

	"github.com/matsen/litbib/internal/reference"
)

// ToCandidate converts an API paper into a reconciliation candidate found
// for the given staff member.
func ToCandidate(p Paper, staff string) reference.Candidate {
	c := reference.Candidate{
		ExternalID:    p.PaperID,
		Title:         strings.TrimSpace(p.Title),
		DOI:           strings.TrimSpace(p.ExternalIDs.DOI),
		Year:          p.Year,
		Venue:         p.Venue,
		CitationCount: p.CitationCount,
		PMID:          p.ExternalIDs.PubMed,
		Staff:         staff,
	}
	if c.Venue == "" && p.Journal != nil {
		c.Venue = p.Journal.Name
	}
	for _, a := range p.Authors {
		c.Authors = append(c.Authors, reference.ParseAuthor(a.Name))
	}
	return c
}

// Candidates converts a page of papers, skipping entries without an id.
func Candidates(papers []Paper, staff string) []reference.Candidate {
	out := make([]reference.Candidate, 0, len(papers))
	for _, p := range papers {
		if p.PaperID == "" {
			continue
		}
		out = append(out, ToCandidate(p, staff))
	}
	return out
}
