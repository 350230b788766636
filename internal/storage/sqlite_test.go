package storage

import (
	"path/filepath"
	"testing"

	"github.com/matsen/litbib/internal/bibfile"
)

const testBib = `@string{Radiology = {Radiology}}

@article{Sanc21,
  author = {S\'{a}nchez, Clara I. and Jacobs, Colin},
  title = {Deep {Learning} for Lung Nodules},
  journal = {Radiology},
  year = {2021},
  doi = {10.1/ABC},
  optnote = {DIAG, RADIOLOGY},
  abstract = {We study pulmonary nodules in CT.},
}

@inproceedings{Jaco19,
  author = {Jacobs, Colin},
  title = {Emphysema quantification},
  booktitle = {Medical Imaging},
  year = {2019},
}

@phdthesis{Ginn01,
  author = {van Ginneken, Bram},
  title = {Computer-aided diagnosis in chest radiography},
  year = {2001},
}
`

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	records, err := bibfile.Parse(testBib)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	db, err := OpenDB(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromRecords(records)
	if err != nil {
		t.Fatalf("RebuildFromRecords() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildFromRecords() = %d, want 3", n)
	}
	return db
}

func TestGetByKey(t *testing.T) {
	db := setupTestDB(t)

	e, err := db.GetByKey("Sanc21")
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if e == nil {
		t.Fatal("GetByKey() returned nil")
	}
	if e.Title != "Deep Learning for Lung Nodules" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.Year != 2021 || e.DOI != "10.1/abc" || e.Journal != "Radiology" {
		t.Errorf("entry = %+v", e)
	}

	missing, err := db.GetByKey("Nope99")
	if err != nil || missing != nil {
		t.Errorf("GetByKey(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)

	results, err := db.Search("nodules", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Key != "Sanc21" {
		t.Errorf("Search(nodules) = %+v", results)
	}

	results, err = db.Search("pulmonary", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search(pulmonary) should match the abstract, got %+v", results)
	}
}

func TestSearchWithFilters(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name    string
		filters SearchFilters
		want    []string
	}{
		{"author prefix", SearchFilters{Author: "Jaco"}, []string{"Jaco19", "Sanc21"}},
		{"accented author", SearchFilters{Author: "Sanchez"}, []string{"Sanc21"}},
		{"year range", SearchFilters{YearFrom: 2000, YearTo: 2019}, []string{"Ginn01", "Jaco19"}},
		{"booktitle as journal", SearchFilters{Journal: "medical"}, []string{"Jaco19"}},
		{"optnote", SearchFilters{Optnote: "DIAG"}, []string{"Sanc21"}},
		{"doi", SearchFilters{DOI: "https://doi.org/10.1/abc"}, []string{"Sanc21"}},
		{"title", SearchFilters{Title: "emphysema"}, []string{"Jaco19"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := db.SearchWithFilters(tt.filters, 0)
			if err != nil {
				t.Fatalf("SearchWithFilters() error = %v", err)
			}
			var got []string
			for _, r := range results {
				got = append(got, r.Key)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SearchWithFilters() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SearchWithFilters() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCountBy(t *testing.T) {
	db := setupTestDB(t)

	byType, err := db.CountBy("type")
	if err != nil {
		t.Fatalf("CountBy(type) error = %v", err)
	}
	if byType["article"] != 1 || byType["phdthesis"] != 1 {
		t.Errorf("CountBy(type) = %v", byType)
	}
	if _, err := db.CountBy("title; DROP TABLE entries"); err == nil {
		t.Error("CountBy() should reject unknown columns")
	}
	if n, _ := db.Count(); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestRebuild_Replaces(t *testing.T) {
	db := setupTestDB(t)
	records, _ := bibfile.Parse("@article{Only20,\n  title = {Only},\n}")
	if _, err := db.RebuildFromRecords(records); err != nil {
		t.Fatalf("RebuildFromRecords() error = %v", err)
	}
	if n, _ := db.Count(); n != 1 {
		t.Errorf("Count() after rebuild = %d, want 1", n)
	}
	if results, _ := db.Search("nodules", 10); len(results) != 0 {
		t.Errorf("Search() after rebuild = %+v, want none", results)
	}
}
