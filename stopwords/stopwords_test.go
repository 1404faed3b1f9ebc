package stopwords

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DedupsTrimsAndLowercases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stop.txt")
	content := "The\n  will  \nTHE\n\nby\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stop, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stop.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", stop.Len())
	}
	if !stop.Contains("the") || !stop.Contains("by") {
		t.Errorf("expected \"the\" and \"by\" in stopword set")
	}
	if stop.Contains("will") == false {
		t.Errorf("expected \"will\" in stopword set")
	}
}

func TestLoad_MissingFileYieldsEmptySetNoError(t *testing.T) {
	dir := t.TempDir()
	stop, err := Load(filepath.Join(dir, "does-not-exist.txt"))
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if stop.Len() != 0 {
		t.Errorf("Len() = %d, want 0", stop.Len())
	}
}

func TestLoad_EmptyFileYieldsEmptySet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stop, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stop.Len() != 0 {
		t.Errorf("Len() = %d, want 0", stop.Len())
	}
}
