// Package exclusion keeps the list of external publications a reviewer
// decided never to add to the bibliography.
package exclusion

import (
	"fmt"
	"strings"
	"time"

	"github.com/matsen/litbib/internal/match"
	"github.com/matsen/litbib/internal/storage"
)

// Entry is one excluded publication. Either identifier may be empty.
type Entry struct {
	ExternalID string    `json:"external_id,omitempty"`
	DOI        string    `json:"doi,omitempty"`
	Title      string    `json:"title,omitempty"`
	Staff      string    `json:"staff,omitempty"`
	Year       int       `json:"year,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	AddedAt    time.Time `json:"added_at"`
}

// List is an exclusion list backed by a JSONL file. Additions are appended
// to the file immediately, so a crash mid-run loses nothing.
type List struct {
	path    string
	entries []Entry
	ids     map[string]bool
	dois    map[string]bool
}

// Load reads the list at path. A missing file is an empty list.
func Load(path string) (*List, error) {
	entries, err := storage.ReadJSONL[Entry](path)
	if err != nil {
		return nil, fmt.Errorf("loading exclusion list: %w", err)
	}
	l := &List{path: path, ids: make(map[string]bool), dois: make(map[string]bool)}
	for _, e := range entries {
		l.index(e)
	}
	return l, nil
}

// NewMemory returns a list that is never persisted.
func NewMemory(entries ...Entry) *List {
	l := &List{ids: make(map[string]bool), dois: make(map[string]bool)}
	for _, e := range entries {
		l.index(e)
	}
	return l
}

func (l *List) index(e Entry) {
	l.entries = append(l.entries, e)
	if id := strings.TrimSpace(e.ExternalID); id != "" {
		l.ids[id] = true
	}
	if doi := match.NormalizeDOI(e.DOI); doi != "" {
		l.dois[doi] = true
	}
}

// Contains reports whether idOrDOI is an excluded external id or DOI.
func (l *List) Contains(idOrDOI string) bool {
	idOrDOI = strings.TrimSpace(idOrDOI)
	if idOrDOI == "" {
		return false
	}
	if l.ids[idOrDOI] {
		return true
	}
	doi := match.NormalizeDOI(idOrDOI)
	return doi != "" && l.dois[doi]
}

// Append adds entries to the list and its file. Entries without a
// timestamp get the current time.
func (l *List) Append(entries ...Entry) error {
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].AddedAt.IsZero() {
			entries[i].AddedAt = now
		}
	}
	if l.path != "" {
		if err := storage.AppendJSONL(l.path, entries...); err != nil {
			return fmt.Errorf("appending to exclusion list: %w", err)
		}
	}
	for _, e := range entries {
		l.index(e)
	}
	return nil
}

// Entries returns the entries in file order.
func (l *List) Entries() []Entry {
	return l.entries
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}
