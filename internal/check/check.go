// Package check lints a parsed bibliography and its raw text.
package check

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/match"
	"github.com/matsen/litbib/internal/pdf"
	"github.com/matsen/litbib/internal/textnorm"
)

// Finding types.
const (
	TypeInvalidKey           = "invalid_key"
	TypeKeyTooLong           = "key_too_long"
	TypeKeyYearMismatch      = "key_year_mismatch"
	TypeMissingYear          = "missing_year"
	TypeUnreadableYear       = "unreadable_year"
	TypeDuplicateKey         = "duplicate_key"
	TypeMissingTitle         = "missing_title"
	TypeTrailingPointTitle   = "trailing_point_title"
	TypeMissingDOI           = "missing_doi"
	TypeInvalidMonth         = "invalid_month"
	TypeDroppedField         = "dropped_field"
	TypeAccentVariant        = "accent_variant"
	TypeMissingPDF           = "missing_pdf"
	TypeUnreadablePDF        = "unreadable_pdf"
	TypePDFDOIMismatch       = "pdf_doi_mismatch"
	TypeDuplicateAcrossFiles = "duplicate_across_files"
	TypeEncoding             = "encoding"
	TypeTrailingWhitespace   = "trailing_whitespace"
)

// MaxKeyLength is the longest valid key, e.g. "Abcd23a".
const MaxKeyLength = 7

var (
	keyPattern  = regexp.MustCompile(`^[A-Z][a-zA-Z]{1,3}[0-9]{2}[a-z]?$`)
	keyYear     = regexp.MustCompile(`[0-9]{2}`)
	yearPattern = regexp.MustCompile(`^[0-9]{4}$`)
)

// Finding is one problem found in the bibliography.
type Finding struct {
	Type     string   `json:"type"`
	Key      string   `json:"key,omitempty"`
	Keys     []string `json:"keys,omitempty"`
	Line     int      `json:"line,omitempty"`
	Field    string   `json:"field,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Found    string   `json:"found,omitempty"`
	File     string   `json:"file,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

func (f Finding) String() string {
	var b strings.Builder
	if f.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", f.Line)
	}
	b.WriteString(f.Type)
	if f.Key != "" {
		b.WriteString(" " + f.Key)
	}
	if len(f.Keys) > 0 {
		b.WriteString(" " + strings.Join(f.Keys, ", "))
	}
	if f.Field != "" {
		b.WriteString(" [" + f.Field + "]")
	}
	if f.Found != "" {
		fmt.Fprintf(&b, " found %q", f.Found)
	}
	if f.Expected != "" {
		fmt.Fprintf(&b, " expected %q", f.Expected)
	}
	if f.File != "" {
		b.WriteString(" in " + f.File)
	}
	if f.Reason != "" {
		b.WriteString(": " + f.Reason)
	}
	return b.String()
}

// PDFSource finds the PDF of an entry and the DOI printed in it.
// *pdf.Store implements it.
type PDFSource interface {
	Find(key string) (string, error)
	DOI(key string) (string, error)
}

var _ PDFSource = (*pdf.Store)(nil)

// Options selects the optional checks.
type Options struct {
	// Schema defaults to bibfile.DefaultSchema.
	Schema *bibfile.Schema
	// AccentedNames are names in canonical LaTeX spelling, e.g.
	// S\'{a}nchez, looked for in author fields.
	AccentedNames []string
	// PDFs enables the PDF checks when set.
	PDFs PDFSource
	// Others maps other bibliography files to their records.
	Others map[string][]*bibfile.Record
}

// Run applies every record-level check and returns the findings in the
// order the checks ran.
func Run(records []*bibfile.Record, opts Options) []Finding {
	if opts.Schema == nil {
		opts.Schema = bibfile.DefaultSchema()
	}
	entries := entriesOf(records)

	var out []Finding
	out = append(out, checkKeys(entries)...)
	out = append(out, checkDuplicateKeys(entries)...)
	out = append(out, checkTitles(entries)...)
	out = append(out, checkDOIs(entries)...)
	out = append(out, checkMonths(entries)...)
	for _, v := range bibfile.DroppedFields(entries, opts.Schema) {
		out = append(out, Finding{Type: TypeDroppedField, Key: v.Key, Line: v.Line, Field: v.Field})
	}
	out = append(out, checkAccents(entries, opts.AccentedNames)...)
	if opts.PDFs != nil {
		out = append(out, checkPDFs(entries, opts.PDFs)...)
	}
	out = append(out, checkAcrossFiles(entries, opts.Others)...)
	return out
}

func entriesOf(records []*bibfile.Record) []*bibfile.Record {
	var entries []*bibfile.Record
	for _, r := range records {
		if r.IsEntry() {
			entries = append(entries, r)
		}
	}
	return entries
}

func checkKeys(entries []*bibfile.Record) []Finding {
	var out []Finding
	for _, r := range entries {
		f := Finding{Key: r.Key, Line: r.Line}
		switch {
		case len(r.Key) > MaxKeyLength:
			f.Type = TypeKeyTooLong
		case !keyPattern.MatchString(r.Key):
			f.Type = TypeInvalidKey
		case !r.Has(bibfile.FieldYear):
			f.Type = TypeMissingYear
		default:
			year := textnorm.StripOuterBraces(r.Get(bibfile.FieldYear))
			if !yearPattern.MatchString(year) {
				f.Type, f.Field, f.Found = TypeUnreadableYear, bibfile.FieldYear, year
				break
			}
			if ky := keyYear.FindString(r.Key); ky != year[2:] {
				f.Type, f.Field, f.Found, f.Expected = TypeKeyYearMismatch, bibfile.FieldYear, ky, year[2:]
				break
			}
			continue
		}
		out = append(out, f)
	}
	return out
}

// checkDuplicateKeys reports keys that differ only in case, once per group.
func checkDuplicateKeys(entries []*bibfile.Record) []Finding {
	groups := make(map[string][]*bibfile.Record)
	var order []string
	for _, r := range entries {
		k := strings.ToLower(r.Key)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	var out []Finding
	for _, k := range order {
		g := groups[k]
		if len(g) < 2 {
			continue
		}
		keys := make([]string, len(g))
		for i, r := range g {
			keys[i] = r.Key
		}
		out = append(out, Finding{Type: TypeDuplicateKey, Keys: keys, Line: g[1].Line})
	}
	return out
}

func checkTitles(entries []*bibfile.Record) []Finding {
	var out []Finding
	for _, r := range entries {
		if !r.Has(bibfile.FieldTitle) {
			out = append(out, Finding{Type: TypeMissingTitle, Key: r.Key, Line: r.Line})
			continue
		}
		title := textnorm.StripOuterBraces(r.Get(bibfile.FieldTitle))
		if strings.HasSuffix(title, ".") {
			out = append(out, Finding{Type: TypeTrailingPointTitle, Key: r.Key, Line: r.Line, Field: bibfile.FieldTitle, Found: title})
		}
	}
	return out
}

func checkDOIs(entries []*bibfile.Record) []Finding {
	var out []Finding
	for _, r := range entries {
		if r.Type != "article" && r.Type != "inproceedings" {
			continue
		}
		if r.Has(bibfile.FieldDOI) {
			continue
		}
		venue := r.Text(bibfile.FieldJournal)
		if r.Type == "inproceedings" {
			venue = r.Text(bibfile.FieldBooktitle)
		}
		reason := fmt.Sprintf("%s in %q from %s has no doi", r.Type, venue, r.Text(bibfile.FieldYear))
		out = append(out, Finding{Type: TypeMissingDOI, Key: r.Key, Line: r.Line, Reason: reason})
	}
	return out
}

func checkMonths(entries []*bibfile.Record) []Finding {
	var out []Finding
	for _, r := range entries {
		if !r.Has(bibfile.FieldMonth) {
			continue
		}
		month := r.Get(bibfile.FieldMonth)
		if _, ok := bibfile.NormalizeMonth(month); !ok {
			out = append(out, Finding{Type: TypeInvalidMonth, Key: r.Key, Line: r.Line, Field: bibfile.FieldMonth, Found: month})
		}
	}
	return out
}

func checkAccents(entries []*bibfile.Record, names []string) []Finding {
	if len(names) == 0 {
		return nil
	}
	var out []Finding
	for _, r := range entries {
		authors := r.Get(bibfile.FieldAuthor)
		if authors == "" {
			continue
		}
		for _, name := range names {
			for _, span := range textnorm.FindAccentVariants(authors, name) {
				out = append(out, Finding{
					Type:     TypeAccentVariant,
					Key:      r.Key,
					Line:     r.Line,
					Field:    bibfile.FieldAuthor,
					Found:    authors[span.Start:span.End],
					Expected: name,
				})
			}
		}
	}
	return out
}

// needsPDF reports whether an entry is a journal or conference paper that
// should have a PDF. arXiv preprints are exempt.
func needsPDF(r *bibfile.Record) bool {
	switch r.Type {
	case "article":
		journal := r.Text(bibfile.FieldJournal)
		return journal != "" && !strings.Contains(journal, "arXiv")
	case "inproceedings":
		return true
	}
	return false
}

func checkPDFs(entries []*bibfile.Record, pdfs PDFSource) []Finding {
	var out []Finding
	for _, r := range entries {
		if !needsPDF(r) {
			continue
		}
		if _, err := pdfs.Find(r.Key); err != nil {
			out = append(out, Finding{Type: TypeMissingPDF, Key: r.Key, Line: r.Line, Reason: err.Error()})
			continue
		}
		want := r.Text(bibfile.FieldDOI)
		if want == "" {
			continue
		}
		got, err := pdfs.DOI(r.Key)
		if err != nil {
			out = append(out, Finding{Type: TypeUnreadablePDF, Key: r.Key, Line: r.Line, Reason: err.Error()})
			continue
		}
		if got != "" && !match.SameDOI(got, want) {
			out = append(out, Finding{Type: TypePDFDOIMismatch, Key: r.Key, Line: r.Line, Field: bibfile.FieldDOI, Found: got, Expected: want})
		}
	}
	return out
}

func checkAcrossFiles(entries []*bibfile.Record, others map[string][]*bibfile.Record) []Finding {
	if len(others) == 0 {
		return nil
	}
	files := sortedFiles(others)
	keys := make(map[string]map[string]bool, len(files))
	for _, file := range files {
		keys[file] = make(map[string]bool)
		for _, o := range others[file] {
			if o.IsEntry() {
				keys[file][o.Key] = true
			}
		}
	}
	var out []Finding
	for _, r := range entries {
		for _, file := range files {
			if keys[file][r.Key] {
				out = append(out, Finding{Type: TypeDuplicateAcrossFiles, Key: r.Key, Line: r.Line, File: file})
			}
		}
	}
	return out
}
