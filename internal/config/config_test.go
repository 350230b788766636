package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/litbib/internal/bibfile"
)

func writeProject(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(ProjectPath(dir), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", ProjectFile, err)
	}
}

func TestIsProject(t *testing.T) {
	tmpDir := t.TempDir()

	if IsProject(tmpDir) {
		t.Error("IsProject() = true for empty directory")
	}

	writeProject(t, tmpDir, "bib_file: diag.bib\n")
	if !IsProject(tmpDir) {
		t.Error("IsProject() = false with litbib.yml present")
	}
}

func TestIsProject_DirNotFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(ProjectPath(tmpDir), 0755); err != nil {
		t.Fatal(err)
	}
	if IsProject(tmpDir) {
		t.Error("IsProject() = true when litbib.yml is a directory")
	}
}

func TestFindProject(t *testing.T) {
	t.Setenv(EnvRoot, "")

	// Create nested structure: /tmp/xxx/proj/litbib.yml
	tmpDir := t.TempDir()
	projDir := filepath.Join(tmpDir, "proj")
	nestedDir := filepath.Join(projDir, "papers", "2023")
	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	writeProject(t, projDir, "bib_file: diag.bib\n")

	found, err := FindProject(nestedDir)
	if err != nil {
		t.Fatalf("FindProject() error = %v", err)
	}
	if found != projDir {
		t.Errorf("FindProject() = %q, want %q", found, projDir)
	}

	found, err = FindProject(projDir)
	if err != nil {
		t.Fatalf("FindProject() error = %v", err)
	}
	if found != projDir {
		t.Errorf("FindProject() = %q, want %q", found, projDir)
	}
}

func TestFindProject_NotFound(t *testing.T) {
	t.Setenv(EnvRoot, "")

	_, err := FindProject(t.TempDir())
	if !errors.Is(err, ErrNotProject) {
		t.Errorf("FindProject() error = %v, want ErrNotProject", err)
	}
}

func TestFindProject_EnvOverride(t *testing.T) {
	projDir := t.TempDir()
	writeProject(t, projDir, "bib_file: diag.bib\n")
	t.Setenv(EnvRoot, projDir)

	found, err := FindProject(t.TempDir())
	if err != nil {
		t.Fatalf("FindProject() error = %v", err)
	}
	if found != projDir {
		t.Errorf("FindProject() = %q, want %q", found, projDir)
	}

	t.Setenv(EnvRoot, t.TempDir())
	if _, err := FindProject(projDir); !errors.Is(err, ErrNotProject) {
		t.Errorf("FindProject() with bad %s error = %v, want ErrNotProject", EnvRoot, err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	writeProject(t, tmpDir, `bib_file: diag.bib
line_ending: crlf
optnote: DIAG, RADIOLOGY
min_year: 2015
staff:
  - name: Jane Smith
    author_ids: ["123", "456"]
    start_year: 2016
  - name: Hans Muller
    author_ids: ["789"]
    start_year: 2010
    end_year: 2019
accented_names:
  - Müller
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BibFile != "diag.bib" {
		t.Errorf("BibFile = %q, want diag.bib", cfg.BibFile)
	}
	if cfg.Ending() != bibfile.CRLF {
		t.Errorf("Ending() = %q, want crlf", cfg.Ending())
	}
	if cfg.ExclusionFile != Default().ExclusionFile {
		t.Errorf("ExclusionFile = %q, want default %q", cfg.ExclusionFile, Default().ExclusionFile)
	}
	if len(cfg.Staff) != 2 || len(cfg.Staff[0].AuthorIDs) != 2 {
		t.Fatalf("Staff = %+v", cfg.Staff)
	}
	if cfg.MinYear != 2015 {
		t.Errorf("MinYear = %d, want 2015", cfg.MinYear)
	}
	if len(cfg.AccentedNames) != 1 || cfg.AccentedNames[0] != "Müller" {
		t.Errorf("AccentedNames = %v", cfg.AccentedNames)
	}
}

func TestLoad_NotFound(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load() should return error when litbib.yml is missing")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "bib_file: [unclosed\n", "parsing config"},
		{"bad line ending", "bib_file: a.bib\nline_ending: cr\n", "line ending"},
		{"empty bib file", "bib_file: \"\"\n", "bib_file is required"},
		{"staff without name", "bib_file: a.bib\nstaff:\n  - author_ids: [\"1\"]\n", "name is required"},
		{"staff years reversed", "bib_file: a.bib\nstaff:\n  - name: X\n    start_year: 2020\n    end_year: 2010\n", "after end_year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeProject(t, tmpDir, tt.content)
			_, err := Load(tmpDir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.BibFile = "diag.bib"
	cfg.PDFRoot = "/path/to/pdfs"
	cfg.Staff = []StaffMember{{Name: "Jane", AuthorIDs: []string{"1"}}}
	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.PDFRoot != cfg.PDFRoot {
		t.Errorf("PDFRoot = %q, want %q", loaded.PDFRoot, cfg.PDFRoot)
	}
	if loaded.BibFile != cfg.BibFile {
		t.Errorf("BibFile = %q, want %q", loaded.BibFile, cfg.BibFile)
	}
	if len(loaded.Staff) != 1 || loaded.Staff[0].Name != "Jane" {
		t.Errorf("Staff = %+v", loaded.Staff)
	}
}

func TestPathFunctions(t *testing.T) {
	root := "/project"
	cfg := Default()
	cfg.BibFile = "diag.bib"
	cfg.PDFRoot = "/srv/pdfs"

	tests := []struct {
		name string
		fn   func(string) string
		want string
	}{
		{"BibPath", cfg.BibPath, "/project/diag.bib"},
		{"ExclusionPath", cfg.ExclusionPath, "/project/exclusions.jsonl"},
		{"ReviewPath", cfg.ReviewPath, "/project/review"},
		{"IndexPath", cfg.IndexPath, "/project/.litbib/index.db"},
		{"PDFPath", cfg.PDFPath, "/srv/pdfs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(root); got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	cfg.PDFRoot = ""
	if got := cfg.PDFPath(root); got != "" {
		t.Errorf("PDFPath() = %q, want empty when unset", got)
	}
}

func TestStaffMember_Active(t *testing.T) {
	s := StaffMember{Name: "X", StartYear: 2015, EndYear: 2019}
	tests := []struct {
		year int
		want bool
	}{
		{2014, false},
		{2015, true},
		{2019, true},
		{2020, false},
	}
	for _, tt := range tests {
		if got := s.Active(tt.year); got != tt.want {
			t.Errorf("Active(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}

	current := StaffMember{Name: "Y", StartYear: 2020}
	if !current.Active(2030) {
		t.Error("Active(2030) = false for a current member")
	}
}

func TestValidatePDFRoot(t *testing.T) {
	tmpDir := t.TempDir()

	if err := ValidatePDFRoot(""); err != nil {
		t.Errorf("ValidatePDFRoot(\"\") error = %v", err)
	}
	if err := ValidatePDFRoot(tmpDir); err != nil {
		t.Errorf("ValidatePDFRoot(dir) error = %v", err)
	}
	if err := ValidatePDFRoot(filepath.Join(tmpDir, "nonexistent")); err == nil {
		t.Error("ValidatePDFRoot() should fail for nonexistent path")
	}

	filePath := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(filePath, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidatePDFRoot(filePath); err == nil {
		t.Error("ValidatePDFRoot() should fail for a file")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got := ExpandPath("~/pdfs"); got != filepath.Join(home, "pdfs") {
		t.Errorf("ExpandPath(~/pdfs) = %q", got)
	}
	if got := ExpandPath("/abs"); got != "/abs" {
		t.Errorf("ExpandPath(/abs) = %q", got)
	}
}
