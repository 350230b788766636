package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/doi"
	"github.com/matsen/litbib/internal/exclusion"
	"github.com/matsen/litbib/internal/match"
	"github.com/matsen/litbib/internal/reference"
	"github.com/matsen/litbib/internal/textnorm"
)

// ErrUnknownKey is returned when a link decision names a key that is not in
// the bibliography.
var ErrUnknownKey = errors.New("unknown key")

// ExclusionList is the set of publications never to add.
type ExclusionList interface {
	Contains(idOrDOI string) bool
	Append(entries ...exclusion.Entry) error
}

// MetadataResolver turns a DOI into bibliographic metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, id string) doi.Result
}

// Reconciler classifies candidates against a bibliography and applies the
// outcomes to its records. It is not safe for concurrent use.
type Reconciler struct {
	records    []*bibfile.Record
	index      *bibfile.Index
	exclusions ExclusionList
	resolver   MetadataResolver
	optnote    string
	accents    *textnorm.AccentTable
	now        func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithResolver sets the resolver used to build new records.
func WithResolver(m MetadataResolver) Option {
	return func(r *Reconciler) {
		r.resolver = m
	}
}

// WithOptnote sets the optnote labels given to new records.
func WithOptnote(optnote string) Option {
	return func(r *Reconciler) {
		r.optnote = optnote
	}
}

// WithAccents sets the accent table used for author names.
func WithAccents(t *textnorm.AccentTable) Option {
	return func(r *Reconciler) {
		r.accents = t
	}
}

// WithClock sets the time source for exclusion timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// New creates a reconciler over records. A nil exclusion list excludes
// nothing.
func New(records []*bibfile.Record, exclusions ExclusionList, opts ...Option) *Reconciler {
	if exclusions == nil {
		exclusions = exclusion.NewMemory()
	}
	r := &Reconciler{
		records:    records,
		index:      bibfile.NewIndex(records),
		exclusions: exclusions,
		accents:    textnorm.DefaultAccents(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Records returns the bibliography including records added so far.
func (r *Reconciler) Records() []*bibfile.Record {
	return r.records
}

// Classify decides the outcome for c without changing anything.
func (r *Reconciler) Classify(c reference.Candidate) Result {
	res := Result{Candidate: c, Outcome: OutcomeNew}
	res.Matches, res.BestGuess = r.titleMatches(c.Title)

	if r.excluded(c) {
		res.Outcome, res.Reason = OutcomeBlacklisted, ReasonExcluded
		return res
	}
	if rec, ok := r.index.ByExternalID(c.ExternalID); ok {
		res.Outcome, res.Reason = OutcomeDuplicate, ReasonKnownID
		res.setTarget(rec)
		return res
	}
	if rec, ok := r.index.ByDOI(c.DOI); ok {
		res.setTarget(rec)
		if references(rec, c.ExternalID) {
			res.Outcome, res.Reason = OutcomeDuplicate, ReasonKnownID
		} else {
			res.Outcome, res.Reason = OutcomeUpdateExisting, ReasonSameDOI
		}
		return res
	}
	switch {
	case len(res.Matches) > 0:
		res.Outcome, res.Reason = OutcomeNeedsReview, ReasonTitleMatch
	case match.NormalizeDOI(c.DOI) == "":
		res.Outcome, res.Reason = OutcomeNeedsReview, ReasonMissingDOI
	default:
		res.Outcome, res.Reason = OutcomeAppendNew, ReasonNoMatch
	}
	return res
}

func (r *Reconciler) excluded(c reference.Candidate) bool {
	return r.exclusions.Contains(c.ExternalID) || r.exclusions.Contains(c.DOI)
}

func references(rec *bibfile.Record, id string) bool {
	if id == "" {
		return false
	}
	for _, existing := range rec.ExternalIDs() {
		if existing == id {
			return true
		}
	}
	return false
}

// titleMatches scores title against every entry. It returns the entries at
// or above the threshold, best first, and the single best entry.
func (r *Reconciler) titleMatches(title string) ([]Match, *Match) {
	if title == "" {
		return nil, nil
	}
	var all []Match
	for _, rec := range r.index.Records() {
		if !rec.IsEntry() {
			continue
		}
		recTitle := textnorm.StripLatex(rec.Text(bibfile.FieldTitle))
		if recTitle == "" {
			continue
		}
		all = append(all, Match{
			Key:   rec.Key,
			Title: recTitle,
			DOI:   rec.Text(bibfile.FieldDOI),
			Score: match.TitleSimilarity(title, recTitle),
		})
	}
	if len(all) == 0 {
		return nil, nil
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	best := all[0]
	var matches []Match
	for _, m := range all {
		if m.Score < match.TitleMatchThreshold {
			break
		}
		matches = append(matches, m)
	}
	return matches, &best
}

// Run classifies and applies every candidate in order. Candidates that need
// review are passed to d. Later candidates see the changes made for
// earlier ones. Errors are recorded per candidate and never stop the run.
func (r *Reconciler) Run(ctx context.Context, candidates []reference.Candidate, d Decider) *Summary {
	if d == nil {
		d = DeferAll
	}
	sum := newSummary()
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			sum.fail(c, err)
			continue
		}
		res := r.Classify(c)
		var err error
		if res.Outcome == OutcomeNeedsReview {
			res, err = r.decide(ctx, res, d.Decide(c, res.Matches))
		} else {
			res, err = r.apply(ctx, res)
		}
		if err != nil {
			sum.fail(c, err)
			continue
		}
		sum.record(res)
	}
	return sum
}

// Resolve applies a reviewer's decision for c. The candidate is classified
// again first, so a decision that was already applied in an earlier run
// resolves to Duplicate or Blacklisted and changes nothing.
func (r *Reconciler) Resolve(ctx context.Context, c reference.Candidate, dec Decision) (Result, error) {
	res := r.Classify(c)
	switch res.Outcome {
	case OutcomeDuplicate, OutcomeBlacklisted:
		return res, nil
	case OutcomeUpdateExisting:
		if dec.Action == ActionAddNew {
			return r.apply(ctx, res)
		}
	}
	return r.decide(ctx, res, dec)
}

// decide applies dec to a classified candidate.
func (r *Reconciler) decide(ctx context.Context, res Result, dec Decision) (Result, error) {
	switch dec.Action {
	case ActionLink:
		rec, ok := r.index.ByKey(dec.Key)
		if !ok {
			return res, fmt.Errorf("%w: %q", ErrUnknownKey, dec.Key)
		}
		res.Outcome, res.Reason = OutcomeUpdateExisting, ReasonLinked
		res.setTarget(rec)
		return r.apply(ctx, res)
	case ActionAddNew:
		res.Outcome, res.Reason = OutcomeAppendNew, ReasonAdded
		res.setTarget(nil)
		return r.apply(ctx, res)
	case ActionExclude:
		if err := r.exclude(res.Candidate, dec.Reason); err != nil {
			return res, err
		}
		res.Outcome, res.Reason = OutcomeBlacklisted, ReasonExcluded
		if dec.Reason != "" {
			res.Reason = dec.Reason
		}
		return res, nil
	case ActionSkip:
		res.Outcome, res.Reason, res.Skipped = OutcomeNeedsReview, ReasonSkipped, true
		return res, nil
	case ActionDefer, "":
		if res.Outcome != OutcomeNeedsReview {
			res.Outcome, res.Reason = OutcomeNeedsReview, ReasonDeferred
		}
		return res, nil
	}
	return res, fmt.Errorf("unknown decision action %q", dec.Action)
}

// apply carries out the outcome chosen by Classify or decide.
func (r *Reconciler) apply(ctx context.Context, res Result) (Result, error) {
	switch res.Outcome {
	case OutcomeUpdateExisting:
		r.link(res.Target, res.Candidate)
	case OutcomeAppendNew:
		rec, err := r.synthesize(ctx, res.Candidate)
		if errors.Is(err, errCannotSynthesize) {
			res.Outcome = OutcomeNeedsReview
			res.Reason = ReasonCannotSynthesize + ": " + err.Error()
			return res, nil
		}
		if err != nil {
			return res, err
		}
		r.records = append(r.records, rec)
		r.index.Add(rec)
		res.setTarget(rec)
	}
	return res, nil
}

// link attaches c to rec: its id joins all_ss_ids and a missing DOI or
// PubMed id is filled in.
func (r *Reconciler) link(rec *bibfile.Record, c reference.Candidate) {
	if c.ExternalID != "" {
		rec.AddExternalID(c.ExternalID)
	}
	if !rec.Has(bibfile.FieldDOI) && c.DOI != "" {
		rec.Set(bibfile.FieldDOI, bibfile.Braced(c.DOI))
	}
	if !rec.Has(bibfile.FieldPMID) && c.PMID != "" {
		rec.Set(bibfile.FieldPMID, bibfile.Braced(c.PMID))
	}
	r.index.Add(rec)
}

func (r *Reconciler) exclude(c reference.Candidate, reason string) error {
	err := r.exclusions.Append(exclusion.Entry{
		ExternalID: c.ExternalID,
		DOI:        c.DOI,
		Title:      c.Title,
		Staff:      c.Staff,
		Year:       c.Year,
		Reason:     reason,
		AddedAt:    r.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("excluding %s: %w", c.ExternalID, err)
	}
	return nil
}
