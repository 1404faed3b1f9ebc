// Package present renders ranked scores into the top-10 results shown by
// the CLI's search subcommand and the interactive shell.
package present

import (
	"fmt"
	"sort"
	"strings"

	"github.com/textlab/prairie/docindex"
)

// Result is one ranked document ready for display.
type Result struct {
	DocID uint32
	Path  string
	Score float64
}

// Top10 sorts scores descending, breaking ties by ascending doc_id for a
// deterministic order, and returns at most the first 10 resolved against
// docs. Callers own what "relevant" means upstream — Top10 never filters
// by score, including zero or negative scores.
func Top10(scores map[uint32]float64, docs *docindex.DocumentTable) []Result {
	ids := make([]uint32, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]], scores[ids[j]]
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})

	n := len(ids)
	if n > 10 {
		n = 10
	}
	results := make([]Result, n)
	for i := 0; i < n; i++ {
		id := ids[i]
		results[i] = Result{DocID: id, Path: docs.Path(id), Score: scores[id]}
	}
	return results
}

// FormatTable renders results as an aligned plain-text table: rank, doc
// id, score, and path.
func FormatTable(results []Result) string {
	if len(results) == 0 {
		return "(no results)\n"
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%2d. [doc %4d] %.6f  %s\n", i+1, r.DocID, r.Score, r.Path)
	}
	return b.String()
}
