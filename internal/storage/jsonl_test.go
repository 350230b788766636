package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testItem struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

func TestReadJSONL_NonExistentFile(t *testing.T) {
	items, err := ReadJSONL[testItem]("/nonexistent/path/items.jsonl")
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v (should return nil for nonexistent file)", err)
	}
	if len(items) != 0 {
		t.Errorf("ReadJSONL() returned %v, want empty", items)
	}
}

func TestReadJSONL_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	content := "{\"id\":\"a\"}\n\n   \n{\"id\":\"b\",\"title\":\"B\"}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	items, err := ReadJSONL[testItem](path)
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if len(items) != 2 || items[1].Title != "B" {
		t.Errorf("ReadJSONL() = %+v", items)
	}
}

func TestReadJSONL_InvalidLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	if err := os.WriteFile(path, []byte("{\"id\":\"a\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadJSONL[testItem](path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadJSONL() error = %v, want one naming line 2", err)
	}
}

func TestAppendJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")

	if err := AppendJSONL(path, testItem{ID: "a"}); err != nil {
		t.Fatalf("AppendJSONL() error = %v", err)
	}
	if err := AppendJSONL(path, testItem{ID: "b"}, testItem{ID: "c"}); err != nil {
		t.Fatalf("AppendJSONL() error = %v", err)
	}
	if err := AppendJSONL[testItem](path); err != nil {
		t.Fatalf("AppendJSONL() with no items error = %v", err)
	}

	items, err := ReadJSONL[testItem](path)
	if err != nil {
		t.Fatalf("ReadJSONL() error = %v", err)
	}
	if len(items) != 3 || items[2].ID != "c" {
		t.Errorf("ReadJSONL() = %+v", items)
	}
}

func TestWriteJSONL_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.jsonl")
	if err := AppendJSONL(path, testItem{ID: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSONL(path, []testItem{{ID: "new"}}); err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}
	items, _ := ReadJSONL[testItem](path)
	if len(items) != 1 || items[0].ID != "new" {
		t.Errorf("ReadJSONL() after WriteJSONL = %+v", items)
	}
}
