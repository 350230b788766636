// Package bibfile reads and writes BibTeX-style bibliography files.
//
// Parse and Serialize are built so that Serialize(Parse(s)) is a fixed
// point: serializing the parsed form of already serialized output gives
// back the same bytes. Records keep field insertion order, so a file can
// be normalized without shuffling its entries.
package bibfile

// Kind distinguishes the three block types found in a bibliography file.
type Kind int

const (
	KindEntry Kind = iota
	KindString
	KindComment
	// KindUnknown is a block with no type text, as in "@{key, ...}".
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindComment:
		return "comment"
	case KindUnknown:
		return "unknown"
	default:
		return "entry"
	}
}

// Record is one block of a bibliography file: a publication entry, a
// string macro or a comment.
type Record struct {
	// Type is the lower-cased word after '@', e.g. "article".
	Type string
	Key  string
	Kind Kind
	// Value holds the macro value of a string record, braces included,
	// or the text of a comment. Entries leave it empty.
	Value string
	// Fields is nil for string and comment records.
	Fields *Fields
	// Line is the 1-based source line of the '@', 0 when built in code.
	Line int
}

// NewEntry creates an entry record with no fields.
func NewEntry(typ, key string) *Record {
	return &Record{Type: typ, Key: key, Kind: KindEntry, Fields: NewFields()}
}

// NewString creates a string macro record.
func NewString(key, value string) *Record {
	return &Record{Type: "string", Key: key, Kind: KindString, Value: value}
}

// IsEntry reports whether r is a publication entry.
func (r *Record) IsEntry() bool {
	return r.Kind == KindEntry
}

// Get returns the raw value of a field, braces included, or "" when the
// field is absent.
func (r *Record) Get(name string) string {
	if r.Fields == nil {
		return ""
	}
	v, _ := r.Fields.Get(name)
	return v
}

// Has reports whether the field is present.
func (r *Record) Has(name string) bool {
	if r.Fields == nil {
		return false
	}
	_, ok := r.Fields.Get(name)
	return ok
}

// Set stores a field value, creating the field map of an entry if needed.
func (r *Record) Set(name, value string) {
	if r.Fields == nil {
		r.Fields = NewFields()
	}
	r.Fields.Set(name, value)
}

// Text returns a field with its enclosing braces or quotes removed.
func (r *Record) Text(name string) string {
	return stripValue(r.Get(name))
}

func stripValue(v string) string {
	for len(v) >= 2 && ((v[0] == '{' && v[len(v)-1] == '}') || (v[0] == '"' && v[len(v)-1] == '"')) {
		v = v[1 : len(v)-1]
	}
	return v
}
