package bibfile

import (
	"errors"
	"strings"
	"testing"
)

const sample = `% header comment that precedes every block
@string{Radiology = {Radiology}}

@article{Smit23,
  author = {Smith, John and Doe, Jane},
  title = {Deep learning for {CT}},
% a commented-out line
  journal = Radiology,
  year = {2023},
  unknown = {dropped on write},
}

@comment{jabref-meta: databaseType:bibtex;}

@inproceedings{Abel20a,
  title = {Nested {braces {deep}} here},
  year = {2020},
}
`

func TestParse_Sample(t *testing.T) {
	records, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Parse() returned %d records, want 3", len(records))
	}

	macro := records[0]
	if macro.Kind != KindString || macro.Key != "Radiology" || macro.Value != "{Radiology}" {
		t.Errorf("string macro = %+v", macro)
	}
	if macro.Fields != nil {
		t.Error("string macro should have no fields")
	}

	entry := records[1]
	if entry.Type != "article" || entry.Key != "Smit23" {
		t.Errorf("entry = %s/%s, want article/Smit23", entry.Type, entry.Key)
	}
	if entry.Line != 4 {
		t.Errorf("entry.Line = %d, want 4", entry.Line)
	}
	wantFields := []string{"author", "title", "journal", "year", "unknown"}
	if got := entry.Fields.Names(); strings.Join(got, ",") != strings.Join(wantFields, ",") {
		t.Errorf("field order = %v, want %v", got, wantFields)
	}
	if got := entry.Get("title"); got != "{Deep learning for {CT}}" {
		t.Errorf("title = %q", got)
	}
	if got := entry.Get("journal"); got != "Radiology" {
		t.Errorf("journal = %q, want %q", got, "Radiology")
	}

	if got := records[2].Get("title"); got != "{Nested {braces {deep}} here}" {
		t.Errorf("nested title = %q", got)
	}
}

func TestParse_BraceBalancing(t *testing.T) {
	records, err := Parse("@misc{K,\n  f = {a{b}c}, d = {x},\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r := records[0]
	if got := r.Get("f"); got != "{a{b}c}" {
		t.Errorf("f = %q, want %q", got, "{a{b}c}")
	}
	if got := r.Get("d"); got != "{x}" {
		t.Errorf("d = %q, want %q", got, "{x}")
	}
}

func TestParse_CommaInsideBraces(t *testing.T) {
	records, err := Parse("@article{K, author = {Doe, Jane and Roe, Rick}, year = 2020}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := records[0].Get("author"); got != "{Doe, Jane and Roe, Rick}" {
		t.Errorf("author = %q", got)
	}
	if got := records[0].Get("year"); got != "2020" {
		t.Errorf("year = %q, want %q", got, "2020")
	}
}

func TestParse_SpaceBeforeComma(t *testing.T) {
	records, err := Parse("@article{K,\n  title = {T} ,\n  year = {2020} ,\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if names := records[0].Fields.Names(); len(names) != 2 || names[1] != "year" {
		t.Errorf("field names = %v, want [title year]", names)
	}
}

func TestParse_DuplicateFieldLastWins(t *testing.T) {
	records, err := Parse("@article{K,\n  title = {First},\n  year = {2020},\n  title = {Second},\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r := records[0]
	if got := r.Get("title"); got != "{Second}" {
		t.Errorf("title = %q, want %q", got, "{Second}")
	}
	if names := r.Fields.Names(); names[0] != "title" || len(names) != 2 {
		t.Errorf("field names = %v, want title first", names)
	}
}

func TestParse_TypeLowerCased(t *testing.T) {
	records, err := Parse("@ARTICLE{K,\n  year = {2020},\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if records[0].Type != "article" {
		t.Errorf("Type = %q, want article", records[0].Type)
	}
}

func TestParse_EmptyKeyDiscarded(t *testing.T) {
	records, err := Parse("@article{ ,\n  year = {2020},\n}\n@article{K,\n  year = {2021},\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 1 || records[0].Key != "K" {
		t.Errorf("Parse() = %v, want only K", records)
	}
}

func TestParse_UnknownKind(t *testing.T) {
	records, err := Parse("@{K,\n  year = {2020},\n}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if records[0].Kind != KindUnknown {
		t.Errorf("Kind = %v, want %v", records[0].Kind, KindUnknown)
	}
}

func TestParse_CRLF(t *testing.T) {
	records, err := Parse("@article{K,\r\n  year = {2020},\r\n}\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := records[0].Get("year"); got != "{2020}" {
		t.Errorf("year = %q", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"missing open brace", "@article K, year = 2020}", 1},
		{"missing comma after key", "@article{K}", 1},
		{"missing closing brace", "@article{K,\n  year = {2020},\n", 1},
		{"unbalanced field", "\n@article{K,\n  title = {a{b{c},\n}", 2},
		{"string without equals", "@string{foo}", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("ParseError.Line = %d, want %d", pe.Line, tt.line)
			}
			if !strings.HasPrefix(pe.FirstLine, "@") {
				t.Errorf("ParseError.FirstLine = %q, want the block's first line", pe.FirstLine)
			}
		})
	}
}

func TestParse_StringMacroUnbraced(t *testing.T) {
	records, err := Parse(`@string{NEJM = "N Engl J Med"}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := records[0].Value; got != `"N Engl J Med"` {
		t.Errorf("Value = %q", got)
	}
}
