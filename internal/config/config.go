// Package config handles project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matsen/litbib/internal/bibfile"
)

// StaffMember is a person whose publications belong in the bibliography.
type StaffMember struct {
	Name string `yaml:"name"`
	// AuthorIDs are Semantic Scholar author ids; people often have several.
	AuthorIDs []string `yaml:"author_ids"`
	StartYear int      `yaml:"start_year,omitempty"`
	EndYear   int      `yaml:"end_year,omitempty"` // 0 while still a member
}

// Active reports whether the member belonged to the group in year.
func (s StaffMember) Active(year int) bool {
	if s.StartYear > 0 && year < s.StartYear {
		return false
	}
	return s.EndYear == 0 || year <= s.EndYear
}

// Config represents project configuration stored in litbib.yml.
type Config struct {
	BibFile       string `yaml:"bib_file"`
	ExclusionFile string `yaml:"exclusion_file"`
	ReviewDir     string `yaml:"review_dir"`
	PDFRoot       string `yaml:"pdf_root,omitempty"` // Folder holding <key>.pdf files
	IndexFile     string `yaml:"index_file"`
	LineEnding    string `yaml:"line_ending"` // lf or crlf
	// Optnote labels are given to every record added by discover.
	Optnote string        `yaml:"optnote,omitempty"`
	MinYear int           `yaml:"min_year,omitempty"`
	Staff   []StaffMember `yaml:"staff,omitempty"`
	// AccentedNames are checked for spellings without their accents.
	AccentedNames []string `yaml:"accented_names,omitempty"`
	// OtherBibs are doublestar globs, relative to the project root, of
	// bibliographies whose keys must not collide with ours.
	OtherBibs []string `yaml:"other_bibs,omitempty"`
}

const (
	ProjectFile = "litbib.yml"
	// EnvRoot names the environment variable that overrides project
	// discovery.
	EnvRoot = "LITBIB_ROOT"
)

// ErrNotProject is returned when no litbib.yml is found.
var ErrNotProject = errors.New("not in a litbib project (no " + ProjectFile + " found)")

// Default returns the configuration used for keys missing from litbib.yml.
func Default() *Config {
	return &Config{
		BibFile:       "references.bib",
		ExclusionFile: "exclusions.jsonl",
		ReviewDir:     "review",
		IndexFile:     filepath.Join(".litbib", "index.db"),
		LineEnding:    string(bibfile.LF),
	}
}

// ProjectPath returns the path to litbib.yml from a root path.
func ProjectPath(root string) string {
	return filepath.Join(root, ProjectFile)
}

// IsProject checks if the given path contains a litbib.yml file.
func IsProject(root string) bool {
	info, err := os.Stat(ProjectPath(root))
	return err == nil && !info.IsDir()
}

// FindProject returns the project root: $LITBIB_ROOT when set, otherwise
// the nearest directory at or above start holding litbib.yml.
func FindProject(start string) (string, error) {
	if env := os.Getenv(EnvRoot); env != "" {
		root := ExpandPath(env)
		if !IsProject(root) {
			return "", fmt.Errorf("%s=%s: %w", EnvRoot, env, ErrNotProject)
		}
		return filepath.Abs(root)
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsProject(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotProject
		}
		abs = parent
	}
}

// Load reads configuration from the project at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ProjectPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the project at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ProjectPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if c.BibFile == "" {
		return errors.New("bib_file is required")
	}
	if _, err := bibfile.ParseLineEnding(c.LineEnding); err != nil {
		return err
	}
	if c.MinYear < 0 {
		return fmt.Errorf("min_year must not be negative: %d", c.MinYear)
	}
	for i, s := range c.Staff {
		if s.Name == "" {
			return fmt.Errorf("staff[%d]: name is required", i)
		}
		if s.EndYear > 0 && s.StartYear > s.EndYear {
			return fmt.Errorf("staff %s: start_year %d after end_year %d", s.Name, s.StartYear, s.EndYear)
		}
	}
	return nil
}

// Ending returns the configured line ending.
func (c *Config) Ending() bibfile.LineEnding {
	e, err := bibfile.ParseLineEnding(c.LineEnding)
	if err != nil {
		return bibfile.LF
	}
	return e
}

// resolve makes path absolute against root, expanding ~ first.
func resolve(root, path string) string {
	if path == "" {
		return ""
	}
	path = ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// BibPath returns the bibliography file of the project at root.
func (c *Config) BibPath(root string) string { return resolve(root, c.BibFile) }

// ExclusionPath returns the exclusion list file.
func (c *Config) ExclusionPath(root string) string { return resolve(root, c.ExclusionFile) }

// ReviewPath returns the review queue directory.
func (c *Config) ReviewPath(root string) string { return resolve(root, c.ReviewDir) }

// IndexPath returns the SQLite query index file.
func (c *Config) IndexPath(root string) string { return resolve(root, c.IndexFile) }

// PDFPath returns the PDF folder, or "" when none is configured.
func (c *Config) PDFPath(root string) string { return resolve(root, c.PDFRoot) }

// ValidatePDFRoot checks that the PDF root path exists and is a directory.
func ValidatePDFRoot(path string) error {
	if path == "" {
		return nil // Empty is allowed (not yet configured)
	}

	expandedPath := ExpandPath(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expandedPath)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
