package s2

// Paper is a paper returned by the Graph API.
type Paper struct {
	PaperID          string      `json:"paperId"`
	ExternalIDs      ExternalIDs `json:"externalIds"`
	Title            string      `json:"title"`
	Authors          []Author    `json:"authors,omitempty"`
	Year             int         `json:"year,omitempty"`
	Venue            string      `json:"venue,omitempty"`
	Journal          *Journal    `json:"journal,omitempty"`
	CitationCount    int         `json:"citationCount,omitempty"`
	PublicationTypes []string    `json:"publicationTypes,omitempty"`
}

// ExternalIDs are the identifiers the API links to a paper. CorpusId is
// numeric in responses; the other ids are strings.
type ExternalIDs struct {
	DOI           string `json:"DOI,omitempty"`
	ArXiv         string `json:"ArXiv,omitempty"`
	PubMed        string `json:"PubMed,omitempty"`
	PubMedCentral string `json:"PubMedCentral,omitempty"`
	CorpusID      int    `json:"CorpusId,omitempty"`
}

// Author is a paper author as returned by the API.
type Author struct {
	AuthorID string `json:"authorId,omitempty"`
	Name     string `json:"name"`
}

// Journal is the venue block of a paper.
type Journal struct {
	Name   string `json:"name,omitempty"`
	Volume string `json:"volume,omitempty"`
	Pages  string `json:"pages,omitempty"`
}

// papersPage is one page of an author's papers.
type papersPage struct {
	Offset int     `json:"offset"`
	Next   *int    `json:"next,omitempty"`
	Data   []Paper `json:"data"`
}
