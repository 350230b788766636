package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindDOIInText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "Published online. doi: 10.1016/j.media.2023.102345 Received", "10.1016/j.media.2023.102345"},
		{"url", "https://doi.org/10.1038/s41586-020-2649-2.", "10.1038/s41586-020-2649-2"},
		{"trailing paren", "(see 10.1109/TMI.2020.1234567)", "10.1109/TMI.2020.1234567"},
		{"none", "No identifier on this page", ""},
		{"too short", "10.1234/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findDOI(tt.text); got != tt.want {
				t.Errorf("findDOI() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStore_Find(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Smit23.pdf"), []byte("%PDF-1.4"), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(dir)

	got, err := s.Find("Smit23")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if want := filepath.Join(dir, "Smit23.pdf"); got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}

	if _, err := s.Find("Jans21"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := NewStore("").Find("Smit23"); err == nil {
		t.Error("Find() with no root should fail")
	}
}

func TestFindDOI_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FindDOI(path, DefaultMaxPages); err == nil {
		t.Error("FindDOI() error = nil for a non-PDF file")
	}
}
