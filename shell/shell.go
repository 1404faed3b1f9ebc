// Package shell implements the interactive query REPL: one query per
// line, ranked against an already-loaded index, until the user quits.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/textlab/prairie/docindex"
	"github.com/textlab/prairie/normalize"
	"github.com/textlab/prairie/present"
	"github.com/textlab/prairie/rank"
)

const quitCommand = ":quit"

// Run reads queries from r, one per line, and writes the top-10 ranked
// results for each to w using the same normalization pipeline applied at
// index time. A blank line is ignored. The line ":quit" ends the loop.
// Run returns nil on a clean ":quit" or EOF, or a scanning error
// otherwise.
func Run(r io.Reader, w io.Writer, idx *docindex.Index, docs *docindex.DocumentTable, stop normalize.Stopwords) error {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == quitCommand {
			break
		}

		terms := normalize.Normalize(line, stop)
		scores := rank.Rank(terms, idx, docs)
		results := present.Top10(scores, docs)
		fmt.Fprint(w, present.FormatTable(results))
	}
	return scanner.Err()
}
