package main

import (
	"testing"

	"github.com/matsen/litbib/internal/bibfile"
)

func TestNormalizeRecords(t *testing.T) {
	records, err := bibfile.Parse(`@string{jan = {January}}

@article{Sanc20,
  author = {S{\'a}nchez, Clara I.},
  month = {mar},
  optnote = {RADIOLOGY, DIAG, },
}
@article{Jans21,
  month = {Janvier},
}
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	normalizeRecords(records, false, false, false)
	idx := bibfile.NewIndex(records)
	sanc, _ := idx.ByKey("Sanc20")
	if got := sanc.Get(bibfile.FieldMonth); got != "{mar}" {
		t.Errorf("month changed without --months: %q", got)
	}

	normalizeRecords(records, true, true, true)
	if got := sanc.Get(bibfile.FieldMonth); got != "{3}" {
		t.Errorf("month = %q, want {3}", got)
	}
	if got := sanc.Get(bibfile.FieldOptnote); got != "{DIAG, RADIOLOGY}" {
		t.Errorf("optnote = %q, want {DIAG, RADIOLOGY}", got)
	}
	if got := sanc.Get(bibfile.FieldAuthor); got != `{S\'{a}nchez, Clara I.}` {
		t.Errorf("author = %q, want canonical accent", got)
	}

	jans, _ := idx.ByKey("Jans21")
	if got := jans.Get(bibfile.FieldMonth); got != "{Janvier}" {
		t.Errorf("unreadable month rewritten to %q", got)
	}
}
