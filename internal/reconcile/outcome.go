// Package reconcile decides how externally discovered publications relate
// to the bibliography and applies those decisions to its records.
package reconcile

import (
	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/reference"
)

// Outcome is the state a candidate ends in after classification.
type Outcome string

const (
	// OutcomeNew is the state of a candidate that has not been classified.
	OutcomeNew Outcome = "new"
	// OutcomeDuplicate means a record already references the candidate.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeUpdateExisting means the candidate is attached to an existing
	// record found by DOI.
	OutcomeUpdateExisting Outcome = "update_existing"
	// OutcomeAppendNew means a new record is synthesized for the candidate.
	OutcomeAppendNew Outcome = "append_new"
	// OutcomeNeedsReview means a human has to decide.
	OutcomeNeedsReview Outcome = "needs_review"
	// OutcomeBlacklisted means the candidate is on the exclusion list.
	OutcomeBlacklisted Outcome = "blacklisted"
)

// Outcomes lists every terminal outcome in report order.
var Outcomes = []Outcome{
	OutcomeDuplicate,
	OutcomeUpdateExisting,
	OutcomeAppendNew,
	OutcomeNeedsReview,
	OutcomeBlacklisted,
}

func (o Outcome) String() string { return string(o) }

// Reasons attached to a Result.
const (
	ReasonExcluded         = "on exclusion list"
	ReasonKnownID          = "external id already referenced"
	ReasonSameDOI          = "same DOI as existing record"
	ReasonTitleMatch       = "similar title in bibliography"
	ReasonMissingDOI       = "missing identifier"
	ReasonNoMatch          = "no matching record"
	ReasonCannotSynthesize = "cannot synthesize record"
	ReasonDeferred         = "deferred to manual review"
	ReasonSkipped          = "skipped by reviewer"
	ReasonLinked           = "linked by reviewer"
	ReasonAdded            = "added by reviewer"
)

// Match is an existing record that resembles a candidate.
type Match struct {
	Key   string  `json:"key"`
	Title string  `json:"title"`
	DOI   string  `json:"doi,omitempty"`
	Score float64 `json:"score"`
}

// Result is the classification of one candidate and, after Run or
// Resolve, what was done with it.
type Result struct {
	Candidate reference.Candidate `json:"candidate"`
	Outcome   Outcome             `json:"outcome"`
	// Target is the record the candidate was merged into or added as.
	Target    *bibfile.Record `json:"-"`
	TargetKey string          `json:"target,omitempty"`
	// Matches lists the records at or above the title threshold, best
	// first.
	Matches []Match `json:"matches,omitempty"`
	// BestGuess is the most similar record even below the threshold.
	BestGuess *Match `json:"best_guess,omitempty"`
	Reason    string `json:"reason,omitempty"`
	// Skipped marks a NeedsReview result a reviewer chose to leave alone.
	Skipped bool `json:"skipped,omitempty"`
}

func (res *Result) setTarget(rec *bibfile.Record) {
	res.Target = rec
	res.TargetKey = ""
	if rec != nil {
		res.TargetKey = rec.Key
	}
}
