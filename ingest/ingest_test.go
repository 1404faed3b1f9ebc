package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/textlab/prairie/normalize"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "corpus.zip")

	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("os.Create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zw.Create(%q): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("writing %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zw.Close: %v", err)
	}
	return zipPath
}

func TestExtractAndNormalize_WritesNormalizedCopies(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"a.txt":          "Market Strategies will be Described",
		"nested/b.txt":   "Predicted Sales",
		"ignore-me.data": "should not be extracted",
	})
	outDir := filepath.Join(t.TempDir(), "normalized")
	stop := normalize.NewStopwords([]string{"will", "be"})

	count, err := ExtractAndNormalize(zipPath, outDir, stop)
	if err != nil {
		t.Fatalf("ExtractAndNormalize: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile a.txt: %v", err)
	}
	want := "market strategi describ\n"
	if string(data) != want {
		t.Errorf("a.txt = %q, want %q", string(data), want)
	}

	nested, err := os.ReadFile(filepath.Join(outDir, "nested", "b.txt"))
	if err != nil {
		t.Fatalf("ReadFile nested/b.txt: %v", err)
	}
	if string(nested) != "predict sale\n" {
		t.Errorf("nested/b.txt = %q, want %q", string(nested), "predict sale\n")
	}

	if _, err := os.Stat(filepath.Join(outDir, "ignore-me.data")); !os.IsNotExist(err) {
		t.Errorf("expected ignore-me.data not to be extracted")
	}
}

func TestExtractAndNormalize_EmptyArchiveYieldsZeroCount(t *testing.T) {
	zipPath := writeZip(t, map[string]string{"readme.md": "not a txt file"})
	outDir := filepath.Join(t.TempDir(), "normalized")

	count, err := ExtractAndNormalize(zipPath, outDir, normalize.NewStopwords(nil))
	if err != nil {
		t.Fatalf("ExtractAndNormalize: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestExtractAndNormalize_MissingArchiveIsError(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "normalized")
	if _, err := ExtractAndNormalize(filepath.Join(t.TempDir(), "missing.zip"), outDir, normalize.NewStopwords(nil)); err == nil {
		t.Fatal("expected error for missing archive")
	}
}
