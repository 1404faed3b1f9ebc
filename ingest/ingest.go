// Package ingest extracts a zip archive of raw .txt documents and writes
// a normalized copy of each one, ready for docindex.BuildIndex to walk.
package ingest

import (
	"archive/zip"
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/textlab/prairie/normalize"
)

// ExtractAndNormalize opens the zip archive at zipPath, and for every
// entry whose name ends in ".txt" writes a normalized copy under
// normalizedDir at the same relative path, running each line through
// normalize.Normalize with stop. Directory entries and non-.txt files
// are skipped. It returns the number of documents written.
//
// normalizedDir and the intermediate directories mirroring the
// archive's layout are created as needed when a .txt entry is written;
// an archive with no .txt entries leaves normalizedDir uncreated.
func ExtractAndNormalize(zipPath, normalizedDir string, stop normalize.Stopwords) (int, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return 0, fmt.Errorf("ingest: opening %s: %w", zipPath, err)
	}
	defer r.Close()

	count := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, ".txt") {
			continue
		}
		if err := extractOne(f, normalizedDir, stop); err != nil {
			return count, fmt.Errorf("ingest: extracting %s: %w", f.Name, err)
		}
		count++
	}

	log.Info().Str("archive", zipPath).Int("documents", count).Msg("ingest: extraction complete")
	if count == 0 {
		log.Warn().Str("archive", zipPath).Msg("ingest: archive contained no .txt entries")
	}
	return count, nil
}

func extractOne(f *zip.File, normalizedDir string, stop normalize.Stopwords) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	destPath := filepath.Join(normalizedDir, filepath.FromSlash(f.Name))
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		terms := normalize.Normalize(scanner.Text(), stop)
		if len(terms) == 0 {
			continue
		}
		if _, err := w.WriteString(strings.Join(terms, " ")); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return w.Flush()
}
