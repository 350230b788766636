package check

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matsen/litbib/internal/bibfile"
)

// LoadOthers reads the bibliographies under root matching any of the
// doublestar patterns, skipping the file at self. Keys are relative paths.
func LoadOthers(root string, patterns []string, self string) (map[string][]*bibfile.Record, error) {
	selfAbs, err := filepath.Abs(self)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", self, err)
	}
	fsys := os.DirFS(root)
	others := make(map[string][]*bibfile.Record)
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, rel := range matches {
			path := filepath.Join(root, filepath.FromSlash(rel))
			if abs, _ := filepath.Abs(path); abs == selfAbs {
				continue
			}
			if _, seen := others[rel]; seen {
				continue
			}
			records, err := bibfile.ReadFile(path)
			if err != nil {
				return nil, err
			}
			others[rel] = records
		}
	}
	return others, nil
}

func sortedFiles(others map[string][]*bibfile.Record) []string {
	files := make([]string, 0, len(others))
	for f := range others {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
