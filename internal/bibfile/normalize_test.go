package bibfile

import (
	"reflect"
	"testing"
)

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"1", "{1}", true},
		{"{01}", "{1}", true},
		{"January", "{1}", true},
		{"jan", "{1}", true},
		{"{Janu}", "{1}", true},
		{"sept", "{9}", true},
		{"Sep", "{9}", true},
		{"{12}", "{12}", true},
		{"may", "{5}", true},
		{"{13}", "", false},
		{"spring", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeMonth(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeMonth(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeOptnote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{RADIOLOGY, DIAG}", "{DIAG, RADIOLOGY}"},
		{"{DIAG,RADIOLOGY}", "{DIAG, RADIOLOGY}"},
		{"{DIAG}", "{DIAG}"},
		{"{}", "{}"},
	}
	for _, tt := range tests {
		if got := NormalizeOptnote(tt.in); got != tt.want {
			t.Errorf("NormalizeOptnote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIDList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"{abc}", []string{"abc"}},
		{"{['b', 'a']}", []string{"b", "a"}},
		{"{[\"b\",\"a\"]}", []string{"b", "a"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := ParseIDList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseIDList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := FormatIDList([]string{"b", "a"}); got != "{['a', 'b']}" {
		t.Errorf("FormatIDList() = %q", got)
	}
	if got := FormatIDList([]string{"a"}); got != "{a}" {
		t.Errorf("FormatIDList() = %q", got)
	}
}

func TestRecord_AddExternalID(t *testing.T) {
	r := NewEntry("article", "K")
	if !r.AddExternalID("x") {
		t.Error("AddExternalID(x) on empty record should add")
	}
	if r.AddExternalID("x") {
		t.Error("AddExternalID(x) twice should report no change")
	}
	r.AddExternalID("a")
	if got := r.Get(FieldExternalIDs); got != "{['a', 'x']}" {
		t.Errorf("all_ss_ids = %q", got)
	}
}

func TestDroppedFields(t *testing.T) {
	records := mustParse(t, "@article{K,\n  title = {T},\n  keywords = {k},\n}\n@string{s = {v}}")
	got := DroppedFields(records, DefaultSchema())
	if len(got) != 1 || got[0].Key != "K" || got[0].Field != "keywords" {
		t.Errorf("DroppedFields() = %+v", got)
	}
}

func TestIndex(t *testing.T) {
	records := mustParse(t, `@article{A20,
  doi = {10.1/ABC},
  all_ss_ids = {['s1', 's2']},
}

@article{B21,
  doi = {https://doi.org/10.2/xyz},
}
`)
	idx := NewIndex(records)

	if r, ok := idx.ByDOI("10.1/abc"); !ok || r.Key != "A20" {
		t.Errorf("ByDOI(10.1/abc) = %v, %v", r, ok)
	}
	if r, ok := idx.ByDOI("doi:10.2/XYZ"); !ok || r.Key != "B21" {
		t.Errorf("ByDOI(doi:10.2/XYZ) = %v, %v", r, ok)
	}
	if r, ok := idx.ByExternalID("s2"); !ok || r.Key != "A20" {
		t.Errorf("ByExternalID(s2) = %v, %v", r, ok)
	}
	if _, ok := idx.ByDOI(""); ok {
		t.Error("ByDOI(\"\") should not match")
	}

	records[1].AddExternalID("s3")
	idx.Add(records[1])
	if r, ok := idx.ByExternalID("s3"); !ok || r.Key != "B21" {
		t.Errorf("ByExternalID(s3) after re-index = %v, %v", r, ok)
	}
}
