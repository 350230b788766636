package bibfile

import (
	"sort"
	"strings"
)

// ParseIDList reads an all_ss_ids value. Both "{id}" and the bracketed
// list "{['id1', 'id2']}" are accepted; braces, brackets, quotes, commas
// and whitespace all separate ids.
func ParseIDList(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		switch r {
		case '{', '}', '[', ']', '\'', '"', ',', ' ', '\t', '\n':
			return true
		}
		return false
	})
	seen := make(map[string]bool, len(fields))
	var ids []string
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			ids = append(ids, f)
		}
	}
	return ids
}

// FormatIDList writes ids as "{id}" for one id and as a sorted bracketed
// list for several. No ids gives "".
func FormatIDList(ids []string) string {
	switch len(ids) {
	case 0:
		return ""
	case 1:
		return "{" + ids[0] + "}"
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, id := range sorted {
		quoted[i] = "'" + id + "'"
	}
	return "{[" + strings.Join(quoted, ", ") + "]}"
}

// ExternalIDs returns the external ids referenced by r's all_ss_ids.
func (r *Record) ExternalIDs() []string {
	return ParseIDList(r.Get(FieldExternalIDs))
}

// AddExternalID records id in all_ss_ids. It reports false when id was
// already present.
func (r *Record) AddExternalID(id string) bool {
	ids := r.ExternalIDs()
	for _, existing := range ids {
		if existing == id {
			return false
		}
	}
	r.Set(FieldExternalIDs, FormatIDList(append(ids, id)))
	return true
}
