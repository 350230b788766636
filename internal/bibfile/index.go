package bibfile

import "github.com/matsen/litbib/internal/match"

// Index looks up entry records by key, normalized DOI and external id.
// The first record wins when several share a DOI or an id.
type Index struct {
	keys  map[string]*Record
	dois  map[string]*Record
	ids   map[string]*Record
	order []*Record
}

// NewIndex indexes the entry records among records.
func NewIndex(records []*Record) *Index {
	idx := &Index{
		keys: make(map[string]*Record),
		dois: make(map[string]*Record),
		ids:  make(map[string]*Record),
	}
	for _, r := range records {
		if r.IsEntry() || r.Kind == KindUnknown {
			idx.Add(r)
		}
	}
	return idx
}

// Add indexes r, or re-indexes it after its fields changed.
func (idx *Index) Add(r *Record) {
	if _, ok := idx.keys[r.Key]; !ok {
		idx.order = append(idx.order, r)
		idx.keys[r.Key] = r
	}
	if doi := match.NormalizeDOI(r.Get(FieldDOI)); doi != "" {
		if _, ok := idx.dois[doi]; !ok {
			idx.dois[doi] = r
		}
	}
	for _, id := range r.ExternalIDs() {
		if _, ok := idx.ids[id]; !ok {
			idx.ids[id] = r
		}
	}
}

// HasKey reports whether a record with key exists.
func (idx *Index) HasKey(key string) bool {
	_, ok := idx.keys[key]
	return ok
}

// ByKey returns the record with key.
func (idx *Index) ByKey(key string) (*Record, bool) {
	r, ok := idx.keys[key]
	return r, ok
}

// ByDOI returns the record whose DOI normalizes to the same value.
func (idx *Index) ByDOI(doi string) (*Record, bool) {
	doi = match.NormalizeDOI(doi)
	if doi == "" {
		return nil, false
	}
	r, ok := idx.dois[doi]
	return r, ok
}

// ByExternalID returns the record referencing id in all_ss_ids.
func (idx *Index) ByExternalID(id string) (*Record, bool) {
	if id == "" {
		return nil, false
	}
	r, ok := idx.ids[id]
	return r, ok
}

// Keys returns the set of indexed keys.
func (idx *Index) Keys() map[string]bool {
	out := make(map[string]bool, len(idx.keys))
	for k := range idx.keys {
		out[k] = true
	}
	return out
}

// Records returns the indexed records in the order they were added.
func (idx *Index) Records() []*Record {
	return idx.order
}
