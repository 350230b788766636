package reconcile

import "github.com/matsen/litbib/internal/reference"

// Failure is a candidate that could not be processed.
type Failure struct {
	Candidate reference.Candidate `json:"candidate"`
	Err       error               `json:"-"`
	Message   string              `json:"error"`
}

// Summary reports what a run did.
type Summary struct {
	Counts   map[Outcome]int `json:"counts"`
	Results  []Result        `json:"results"`
	Failures []Failure       `json:"failures,omitempty"`
	// Added and Updated hold the keys of records created or changed.
	Added   []string `json:"added,omitempty"`
	Updated []string `json:"updated,omitempty"`
	// Review holds the results left for a human, skipped ones excluded.
	Review []Result `json:"-"`
}

func newSummary() *Summary {
	return &Summary{Counts: make(map[Outcome]int)}
}

func (s *Summary) record(res Result) {
	s.Counts[res.Outcome]++
	s.Results = append(s.Results, res)
	switch res.Outcome {
	case OutcomeAppendNew:
		s.Added = append(s.Added, res.TargetKey)
	case OutcomeUpdateExisting:
		s.Updated = append(s.Updated, res.TargetKey)
	case OutcomeNeedsReview:
		if !res.Skipped {
			s.Review = append(s.Review, res)
		}
	}
}

func (s *Summary) fail(c reference.Candidate, err error) {
	s.Failures = append(s.Failures, Failure{Candidate: c, Err: err, Message: err.Error()})
}

// Changed reports whether any record was added or modified.
func (s *Summary) Changed() bool {
	return len(s.Added) > 0 || len(s.Updated) > 0
}
