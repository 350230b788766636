package bibfile

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/crypto/blake2b"
)

// LineEnding selects the newline sequence used by WriteFile.
type LineEnding string

const (
	LF   LineEnding = "lf"
	CRLF LineEnding = "crlf"
)

// ParseLineEnding accepts "lf", "crlf" or "" (meaning LF).
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	}
	return "", fmt.Errorf("unknown line ending %q (want lf or crlf)", s)
}

// ReadFile reads and parses a bibliography file.
func ReadFile(path string) ([]*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}
	records, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// WriteFile serializes records and replaces path atomically, so readers
// never observe a partially written file. Existing permissions are kept.
func WriteFile(path string, records []*Record, ending LineEnding, opts ...SerializeOption) error {
	content := Serialize(records, opts...)
	if ending == CRLF {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("writing bibliography: %w", err)
	}
	// atomic.WriteFile creates new files with the temp file's mode.
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	return nil
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestFile returns the digest of a file's content.
func DigestFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Digest(data), nil
}
