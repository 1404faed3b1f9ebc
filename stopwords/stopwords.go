// Package stopwords loads the process-wide stopword set used identically
// at index time and at query time.
package stopwords

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/textlab/prairie/normalize"
)

// Load reads one stopword per line from path, trims surrounding
// whitespace, lowercases, and dedups into a normalize.Stopwords set.
// Blank lines are skipped. A missing file is not an error: it logs a
// warning and returns an empty set instead of failing the run.
func Load(path string) (normalize.Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("stopwords file not found, continuing with an empty stopword set")
			return normalize.NewStopwords(nil), nil
		}
		return normalize.Stopwords{}, fmt.Errorf("stopwords: opening %s: %w", path, err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return normalize.Stopwords{}, fmt.Errorf("stopwords: reading %s: %w", path, err)
	}

	return normalize.NewStopwords(words), nil
}
