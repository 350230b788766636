package bibfile

// Field names used by the tooling.
const (
	FieldAuthor        = "author"
	FieldTitle         = "title"
	FieldJournal       = "journal"
	FieldYear          = "year"
	FieldVolume        = "volume"
	FieldIssue         = "issue"
	FieldMonth         = "month"
	FieldPages         = "pages"
	FieldDOI           = "doi"
	FieldAbstract      = "abstract"
	FieldFile          = "file"
	FieldOptnote       = "optnote"
	FieldPMID          = "pmid"
	FieldGSID          = "gsid"
	FieldGSCites       = "gscites"
	FieldBooktitle     = "booktitle"
	FieldURL           = "url"
	FieldExternalID    = "ss_id"
	FieldExternalIDs   = "all_ss_ids"
	FieldAutomatic     = "automatic"
	FieldCitationCount = "citation-count"
)

// DefaultFields is the allow-list written by the serializer unless a
// different schema is supplied.
var DefaultFields = []string{
	FieldAuthor, FieldTitle, FieldJournal, FieldYear, FieldVolume,
	FieldIssue, FieldMonth, FieldPages, FieldDOI, FieldAbstract,
	FieldFile, FieldOptnote, FieldPMID, FieldGSID, FieldGSCites,
	FieldBooktitle, "school", "number", FieldURL, "promotor",
	"copromotor", "publisher", "series", "algorithm", "code",
	"taverne_url", FieldExternalID, FieldExternalIDs, FieldAutomatic,
	FieldCitationCount,
}

// Schema is the set of field names that survive serialization. It is
// immutable after construction.
type Schema struct {
	names   []string
	allowed map[string]bool
}

// NewSchema builds a schema from field names. Names are case-sensitive.
func NewSchema(names ...string) *Schema {
	s := &Schema{allowed: make(map[string]bool, len(names))}
	for _, n := range names {
		if !s.allowed[n] {
			s.allowed[n] = true
			s.names = append(s.names, n)
		}
	}
	return s
}

var defaultSchema = NewSchema(DefaultFields...)

// DefaultSchema returns the shared schema built from DefaultFields.
func DefaultSchema() *Schema {
	return defaultSchema
}

// Allows reports whether a field is written.
func (s *Schema) Allows(name string) bool {
	return s.allowed[name]
}

// Names returns the allowed names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// SchemaViolation is a field that the schema discards on write.
type SchemaViolation struct {
	Key   string `json:"key"`
	Field string `json:"field"`
	Line  int    `json:"line,omitempty"`
}

// DroppedFields lists the fields of records that s does not allow.
func DroppedFields(records []*Record, s *Schema) []SchemaViolation {
	var out []SchemaViolation
	for _, r := range records {
		if r.Fields == nil {
			continue
		}
		r.Fields.Each(func(name, _ string) {
			if !s.Allows(name) {
				out = append(out, SchemaViolation{Key: r.Key, Field: name, Line: r.Line})
			}
		})
	}
	return out
}
