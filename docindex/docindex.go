// Package docindex builds the positional inverted index: the document
// table (doc id assignment) and the in-memory index of postings, both
// constructed by walking a directory of pre-normalized text files.
package docindex

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Posting is the record of one term's occurrences in one document.
type Posting struct {
	DocID     uint32
	TermFreq  uint32
	Positions []uint32 // strictly increasing, 1-based
}

// PostingList is the ordered sequence of Postings for one term, sorted
// ascending by DocID with each DocID appearing at most once.
type PostingList []Posting

// Index is the in-memory positional inverted index: a map from term to
// its posting list. It is built once by BuildIndex or shard.Load and is
// immutable for the remainder of its lifetime — safe to share across
// concurrently ranking callers without synchronization.
type Index struct {
	postings map[string]PostingList
}

// NewIndex returns an empty index, used by shard.Load while it
// reconstructs postings from disk.
func NewIndex() *Index {
	return &Index{postings: make(map[string]PostingList)}
}

// Terms returns every term present in the index, in no particular order.
func (idx *Index) Terms() []string {
	terms := make([]string, 0, len(idx.postings))
	for t := range idx.postings {
		terms = append(terms, t)
	}
	return terms
}

// PostingsFor returns the posting list for term, or nil if the term is
// not indexed.
func (idx *Index) PostingsFor(term string) PostingList {
	return idx.postings[term]
}

// Len reports the number of distinct terms in the index.
func (idx *Index) Len() int {
	return len(idx.postings)
}

// Set installs the posting list for term, overwriting any existing
// entry. Used by shard.Load to repopulate an index from disk; a term
// duplicated across shard files is a corruption condition that is not
// flagged, the later one simply wins.
func (idx *Index) Set(term string, postings PostingList) {
	idx.postings[term] = postings
}

// add appends position to term's posting for docID, creating the term's
// posting list or the document's posting as needed. Callers must supply
// docID values in non-decreasing order across calls for a fixed term
// (BuildIndex does, by walking documents in ascending doc id order).
func (idx *Index) add(term string, docID uint32, position uint32) {
	list := idx.postings[term]
	if n := len(list); n > 0 && list[n-1].DocID == docID {
		list[n-1].TermFreq++
		list[n-1].Positions = append(list[n-1].Positions, position)
		idx.postings[term] = list
		return
	}
	idx.postings[term] = append(list, Posting{
		DocID:     docID,
		TermFreq:  1,
		Positions: []uint32{position},
	})
}

// DocumentTable maps doc_id to the display path assigned at build time.
type DocumentTable struct {
	paths []string // index 0 unused; paths[id] is the path for doc_id == id
}

// Len returns the number of documents in the table.
func (dt *DocumentTable) Len() int {
	return len(dt.paths) - 1
}

// Path resolves a doc_id to its display path, or "" if out of range.
func (dt *DocumentTable) Path(docID uint32) string {
	if int(docID) <= 0 || int(docID) >= len(dt.paths) {
		return ""
	}
	return dt.paths[docID]
}

// IDs returns every doc_id in the table in ascending order.
func (dt *DocumentTable) IDs() []uint32 {
	ids := make([]uint32, 0, dt.Len())
	for i := 1; i < len(dt.paths); i++ {
		ids = append(ids, uint32(i))
	}
	return ids
}

// ErrNotADirectory is returned when the corpus folder does not exist or
// is not a directory.
var ErrNotADirectory = errors.New("docindex: not a directory")

// ErrEmptyCorpus is returned when no .txt files are found under folder.
var ErrEmptyCorpus = errors.New("docindex: no .txt files found")

// BuildDocumentTable walks folder recursively, collects regular files
// with the ".txt" suffix, sorts them by full path (lexicographic byte
// order), and assigns doc_id starting at 1 in that order. Indexing and
// ranking must agree on this ordering, so both go through this one
// function.
func BuildDocumentTable(folder string) (*DocumentTable, error) {
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, folder)
	}

	var paths []string
	err = filepath.WalkDir(folder, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("docindex: walking %s: %w", folder, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, folder)
	}
	sort.Strings(paths)

	dt := &DocumentTable{paths: make([]string, len(paths)+1)}
	for i, p := range paths {
		dt.paths[i+1] = p
	}
	return dt, nil
}

// Stats summarizes a just-built index, for host-side reporting (e.g. the
// CLI's "index" subcommand).
type Stats struct {
	DocCount     int
	TermCount    int
	PostingCount int
}

// BuildIndex walks folder exactly as BuildDocumentTable does, then reads
// each assigned document line by line, splitting on runs of characters
// outside [a-z0-9] after lowercasing (the input is assumed to already
// have passed through normalize.Normalize, so no stemming or stopword
// filtering happens here), and appends a posting for each emitted term
// at the next position. The per-document position counter advances only
// for emitted, non-empty tokens — a run of delimiter characters never
// consumes a position.
func BuildIndex(folder string) (*Index, *DocumentTable, Stats, error) {
	dt, err := BuildDocumentTable(folder)
	if err != nil {
		return nil, nil, Stats{}, err
	}

	idx := NewIndex()
	for _, docID := range dt.IDs() {
		if err := indexFile(idx, dt.Path(docID), docID); err != nil {
			return nil, nil, Stats{}, fmt.Errorf("docindex: indexing %s: %w", dt.Path(docID), err)
		}
	}

	postingCount := 0
	for _, list := range idx.postings {
		postingCount += len(list)
	}
	stats := Stats{DocCount: dt.Len(), TermCount: idx.Len(), PostingCount: postingCount}
	return idx, dt, stats, nil
}

// indexFile reads path line by line and folds its tokens into idx under
// docID, advancing a per-document position counter.
func indexFile(idx *Index, path string, docID uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var position uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		for _, term := range splitLowercaseTokens(scanner.Text()) {
			position++
			idx.add(term, docID, position)
		}
	}
	return scanner.Err()
}

// splitLowercaseTokens lowercases line and splits it on runs of
// characters outside [a-z0-9], matching normalize.Tokenize's character
// class but operating after lowercasing since the indexer trusts its
// input is already normalized.
func splitLowercaseTokens(line string) []string {
	line = strings.ToLower(line)
	var tokens []string
	start := -1
	for i, r := range line {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, line[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, line[start:])
	}
	return tokens
}
