package bibfile

import (
	"sort"
	"strings"

	"github.com/matsen/litbib/internal/textnorm"
)

type serializer struct {
	schema        *Schema
	transliterate func(string) string
}

// SerializeOption configures Serialize.
type SerializeOption func(*serializer)

// WithSchema sets the field allow-list. The default is DefaultSchema.
func WithSchema(s *Schema) SerializeOption {
	return func(z *serializer) {
		z.schema = s
	}
}

// WithTransliterator sets the function applied to every field value.
// The default is textnorm.ToASCII.
func WithTransliterator(fn func(string) string) SerializeOption {
	return func(z *serializer) {
		z.transliterate = fn
	}
}

// Serialize writes records in canonical order: string macros first, then
// every other record, each group sorted by key. Only allowed fields are
// written, in insertion order. Comment records are not written.
func Serialize(records []*Record, opts ...SerializeOption) string {
	z := &serializer{schema: DefaultSchema(), transliterate: textnorm.ToASCII}
	for _, opt := range opts {
		opt(z)
	}

	var macros, entries []*Record
	for _, r := range records {
		switch r.Kind {
		case KindComment:
		case KindString:
			macros = append(macros, r)
		default:
			entries = append(entries, r)
		}
	}
	byKey := func(rs []*Record) {
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Key < rs[j].Key
		})
	}
	byKey(macros)
	byKey(entries)

	var b strings.Builder
	for _, r := range macros {
		b.WriteString("@string{")
		b.WriteString(r.Key)
		b.WriteString(" = ")
		b.WriteString(r.Value)
		b.WriteString("}\n")
	}
	for _, r := range entries {
		b.WriteString("\n")
		z.writeEntry(&b, r)
	}
	return b.String()
}

func (z *serializer) writeEntry(b *strings.Builder, r *Record) {
	b.WriteString("@")
	b.WriteString(r.Type)
	b.WriteString("{")
	b.WriteString(r.Key)
	b.WriteString(",\n")
	if r.Fields != nil {
		r.Fields.Each(func(name, value string) {
			if !z.schema.Allows(name) {
				return
			}
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString(" = ")
			b.WriteString(guardBare(z.transliterate(value)))
			b.WriteString(",\n")
		})
	}
	b.WriteString("}\n")
}

// guardBare braces a value that is not already brace-delimited but holds
// a comma, which would otherwise end the value early on the next read.
func guardBare(v string) string {
	if strings.HasPrefix(v, "{") || !strings.Contains(v, ",") {
		return v
	}
	return "{" + v + "}"
}
