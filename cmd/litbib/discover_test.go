package main

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/matsen/litbib/internal/config"
	"github.com/matsen/litbib/internal/s2"
)

type fakeAuthors map[string][]s2.Paper

func (f fakeAuthors) AuthorPapers(ctx context.Context, authorID string) ([]s2.Paper, error) {
	papers, ok := f[authorID]
	if !ok {
		return nil, s2.ErrNotFound
	}
	return papers, nil
}

func TestCollectCandidates(t *testing.T) {
	src := fakeAuthors{
		"1": {
			{PaperID: "p1", Title: "In range", Year: 2018},
			{PaperID: "p2", Title: "Before joining", Year: 2014},
			{PaperID: "p3", Title: "No year"},
			{PaperID: "", Title: "No id", Year: 2018},
		},
		"2": {
			{PaperID: "p1", Title: "In range", Year: 2018},
			{PaperID: "p4", Title: "Second profile", Year: 2020},
		},
		"3": {
			{PaperID: "p1", Title: "In range", Year: 2018},
			{PaperID: "p5", Title: "After leaving", Year: 2021},
			{PaperID: "p6", Title: "Too old overall", Year: 2012},
			{PaperID: "p7", Title: "Co-authored", Year: 2017},
		},
	}
	staff := []config.StaffMember{
		{Name: "Jane Smith", AuthorIDs: []string{"1", "2", "missing"}, StartYear: 2015},
		{Name: "Hans Muller", AuthorIDs: []string{"3"}, StartYear: 2010, EndYear: 2019},
	}

	cands, fails := collectCandidates(context.Background(), src, staff, 2013)

	var ids, owners []string
	for _, c := range cands {
		ids = append(ids, c.ExternalID)
		owners = append(owners, c.Staff)
	}
	if want := []string{"p1", "p4", "p7"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("candidate ids = %v, want %v", ids, want)
	}
	if want := []string{"Jane Smith", "Jane Smith", "Hans Muller"}; !reflect.DeepEqual(owners, want) {
		t.Errorf("candidate staff = %v, want %v", owners, want)
	}
	if len(fails) != 1 || fails[0].AuthorID != "missing" || fails[0].Staff != "Jane Smith" {
		t.Errorf("failures = %+v, want one for author missing", fails)
	}
}

func TestCollectCandidates_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	staff := []config.StaffMember{{Name: "Jane Smith", AuthorIDs: []string{"1", "2"}}}
	cands, fails := collectCandidates(ctx, fakeAuthors{}, staff, 0)
	if len(cands) != 0 {
		t.Errorf("candidates = %v, want none", cands)
	}
	if len(fails) != 2 || fails[0].Error != context.Canceled.Error() {
		t.Errorf("failures = %+v, want two cancellations", fails)
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Fatal("context not cancelled")
	}
}
