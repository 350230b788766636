package s2

import (
	"regexp"
	"strings"
)

// identifierPrefixes are the external id forms the Graph API accepts in
// place of a paper id.
var identifierPrefixes = []string{
	"DOI:",
	"ARXIV:",
	"PMID:",
	"PMCID:",
	"CorpusId:",
	"URL:",
}

// paperIDPattern matches a raw 40-character Semantic Scholar paper id.
var paperIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)

// PaperIdentifier is a parsed paper reference.
type PaperIdentifier struct {
	// Type is "S2", one of the prefixes without its colon, or "KEY" for
	// anything else, taken to be a bibliography key.
	Type  string
	Value string
}

// ParsePaperID classifies id. Prefixes are matched case-insensitively:
//
//	DOI:10.1038/nature12373
//	PMID:19872477
//	CorpusId:215416146
//	649def34f8be52c8b66281af98ae884c09aef38b
//	Smit23a
func ParsePaperID(id string) PaperIdentifier {
	id = strings.TrimSpace(id)

	for _, prefix := range identifierPrefixes {
		if strings.HasPrefix(strings.ToUpper(id), strings.ToUpper(prefix)) {
			return PaperIdentifier{
				Type:  strings.TrimSuffix(prefix, ":"),
				Value: strings.TrimSpace(id[len(prefix):]),
			}
		}
	}
	if paperIDPattern.MatchString(id) {
		return PaperIdentifier{Type: "S2", Value: id}
	}
	return PaperIdentifier{Type: "KEY", Value: id}
}

// IsExternalID reports whether the id can be sent to the API as is.
func (p PaperIdentifier) IsExternalID() bool {
	return p.Type != "KEY"
}

// String returns the form accepted by the API path.
func (p PaperIdentifier) String() string {
	switch p.Type {
	case "S2", "KEY":
		return p.Value
	}
	for _, prefix := range identifierPrefixes {
		if strings.EqualFold(strings.TrimSuffix(prefix, ":"), p.Type) {
			return prefix + p.Value
		}
	}
	return p.Type + ":" + p.Value
}
