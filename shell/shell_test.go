package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/textlab/prairie/docindex"
	"github.com/textlab/prairie/normalize"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
}

func TestRun_AnswersQueriesUntilQuit(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "market strategi")
	writeDoc(t, dir, "b.txt", "unrelated content")
	idx, docs, _, err := docindex.BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	in := strings.NewReader("market\n:quit\n")
	var out strings.Builder
	if err := Run(in, &out, idx, docs, normalize.NewStopwords(nil)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "a.txt") {
		t.Errorf("expected results to mention a.txt, got %q", out.String())
	}
}

func TestRun_BlankLinesIgnored(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "alpha")
	idx, docs, _, err := docindex.BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	in := strings.NewReader("\n\n:quit\n")
	var out strings.Builder
	if err := Run(in, &out, idx, docs, normalize.NewStopwords(nil)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "no results") {
		t.Errorf("blank lines should not be ranked as empty queries, got %q", out.String())
	}
}

func TestRun_EOFEndsCleanly(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "alpha")
	idx, docs, _, err := docindex.BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	in := strings.NewReader("alpha\n")
	var out strings.Builder
	if err := Run(in, &out, idx, docs, normalize.NewStopwords(nil)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRun_NoMatchingTermsPrintsNoResults(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "alpha")
	idx, docs, _, err := docindex.BuildIndex(dir)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	in := strings.NewReader("nowhere\n:quit\n")
	var out strings.Builder
	if err := Run(in, &out, idx, docs, normalize.NewStopwords(nil)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "no results") {
		t.Errorf("expected \"no results\", got %q", out.String())
	}
}
