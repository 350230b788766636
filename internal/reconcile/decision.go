package reconcile

import "github.com/matsen/litbib/internal/reference"

// DecisionAction is what a reviewer chose for an ambiguous candidate.
type DecisionAction string

const (
	// ActionDefer leaves the candidate for manual review.
	ActionDefer DecisionAction = "defer"
	// ActionLink attaches the candidate to the record named by Key.
	ActionLink DecisionAction = "link"
	// ActionAddNew synthesizes a new record.
	ActionAddNew DecisionAction = "add"
	// ActionExclude adds the candidate to the exclusion list.
	ActionExclude DecisionAction = "exclude"
	// ActionSkip ignores the candidate for this run.
	ActionSkip DecisionAction = "skip"
)

// Decision is a reviewer's answer for one candidate.
type Decision struct {
	Action DecisionAction `json:"action"`
	Key    string         `json:"key,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Link returns a decision attaching the candidate to key.
func Link(key string) Decision { return Decision{Action: ActionLink, Key: key} }

// AddNew returns a decision adding the candidate as a new record.
func AddNew() Decision { return Decision{Action: ActionAddNew} }

// Exclude returns a decision excluding the candidate for reason.
func Exclude(reason string) Decision { return Decision{Action: ActionExclude, Reason: reason} }

// Skip returns a decision that leaves the candidate alone.
func Skip() Decision { return Decision{Action: ActionSkip} }

// Decider is consulted for candidates that need review.
type Decider interface {
	Decide(c reference.Candidate, matches []Match) Decision
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(c reference.Candidate, matches []Match) Decision

// Decide calls f.
func (f DeciderFunc) Decide(c reference.Candidate, matches []Match) Decision {
	return f(c, matches)
}

// DeferAll sends every ambiguous candidate to the review queue.
var DeferAll Decider = DeciderFunc(func(reference.Candidate, []Match) Decision {
	return Decision{Action: ActionDefer}
})
