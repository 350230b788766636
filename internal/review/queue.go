// Package review stores candidates that need a human decision. A queue is
// a JSONL file: a header line followed by one item per candidate. The
// reviewer fills in each item's action and the apply command carries the
// decisions out.
package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/matsen/litbib/internal/reconcile"
	"github.com/matsen/litbib/internal/reference"
	"github.com/matsen/litbib/internal/storage"
)

// ErrNoQueue is returned by Latest when the directory holds no queue.
var ErrNoQueue = errors.New("no review queue found")

const (
	filePrefix  = "manual_check_"
	fileExt     = ".jsonl"
	dateLayout  = "20060102"
	filePattern = filePrefix + "[0-9][0-9][0-9][0-9][0-9][0-9][0-9][0-9]" + fileExt
)

// Header is the first line of a queue file.
type Header struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	// BibDigest is the digest of the bibliography the queue was built
	// from.
	BibDigest string   `json:"bib_digest"`
	Actions   []Action `json:"actions"`
}

// NewHeader starts a queue for a new run.
func NewHeader(bibDigest string, now time.Time) Header {
	return Header{
		RunID:       uuid.NewString(),
		GeneratedAt: now.UTC(),
		BibDigest:   bibDigest,
		Actions:     Actions,
	}
}

// Item is one candidate awaiting a decision.
type Item struct {
	Candidate reference.Candidate `json:"candidate"`
	Outcome   reconcile.Outcome   `json:"outcome"`
	Reason    string              `json:"reason,omitempty"`
	Matches   []reconcile.Match   `json:"matches,omitempty"`
	BestGuess *reconcile.Match    `json:"best_guess,omitempty"`
	// Action is filled in by the reviewer.
	Action string `json:"action"`
	// LinkKey overrides the best guess for a link action.
	LinkKey       string `json:"link_key,omitempty"`
	ExcludeReason string `json:"exclude_reason,omitempty"`
}

// FromResult builds a queue item from a result that needs review.
func FromResult(res reconcile.Result) Item {
	return Item{
		Candidate: res.Candidate,
		Outcome:   res.Outcome,
		Reason:    res.Reason,
		Matches:   res.Matches,
		BestGuess: res.BestGuess,
	}
}

// Queue is a header and its items.
type Queue struct {
	Header Header
	Items  []Item
}

// FileName returns the queue file name for a run on day t.
func FileName(t time.Time) string {
	return filePrefix + t.Format(dateLayout) + fileExt
}

// Write replaces the queue file at path atomically.
func Write(path string, q *Queue) error {
	lines := make([]json.RawMessage, 0, len(q.Items)+1)
	header, err := json.Marshal(q.Header)
	if err != nil {
		return fmt.Errorf("encoding review header: %w", err)
	}
	lines = append(lines, header)
	for i, item := range q.Items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding review item %d: %w", i, err)
		}
		lines = append(lines, data)
	}
	return storage.WriteJSONL(path, lines)
}

// Read loads the queue file at path.
func Read(path string) (*Queue, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading review queue: %w", err)
	}
	lines, err := storage.ReadJSONL[json.RawMessage](path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("review queue %s has no header", path)
	}
	q := &Queue{}
	if err := json.Unmarshal(lines[0], &q.Header); err != nil {
		return nil, fmt.Errorf("parsing review header: %w", err)
	}
	for i, line := range lines[1:] {
		var item Item
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parsing review item %d: %w", i+1, err)
		}
		q.Items = append(q.Items, item)
	}
	return q, nil
}

// Latest returns the path of the newest queue in dir, judged by the date
// in its name.
func Latest(dir string) (string, error) {
	names, err := doublestar.Glob(os.DirFS(dir), filePattern)
	if err != nil {
		return "", fmt.Errorf("listing review queues: %w", err)
	}
	if len(names) == 0 {
		if _, statErr := os.Stat(dir); errors.Is(statErr, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoQueue, dir)
		}
		return "", fmt.Errorf("%w in %s", ErrNoQueue, dir)
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}
