package pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when an entry has no PDF in the store.
var ErrNotFound = errors.New("PDF not found")

// Store is a folder holding one <key>.pdf file per entry.
type Store struct {
	root string
}

// NewStore creates a store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path returns where the PDF for key is expected.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, key+".pdf")
}

// Find returns the path of the PDF for key.
func (s *Store) Find(key string) (string, error) {
	if s.root == "" {
		return "", fmt.Errorf("pdf_root not configured")
	}
	path := s.Path(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("checking PDF: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return path, nil
}

// DOI reads the DOI printed in the PDF for key.
func (s *Store) DOI(key string) (string, error) {
	path, err := s.Find(key)
	if err != nil {
		return "", err
	}
	return FindDOI(path, DefaultMaxPages)
}
