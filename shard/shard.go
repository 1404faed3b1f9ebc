// Package shard serializes a docindex.Index to N hash-partitioned shard
// files and reloads shards back into an equivalent in-memory index.
package shard

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/textlab/prairie/docindex"
	"github.com/textlab/prairie/fileio"
)

// ErrParse is returned when a shard line has a space separator but its
// posting list is malformed. This is always fatal — a shard that gets
// this far but parses incorrectly indicates corruption, not absence.
var ErrParse = errors.New("shard: malformed posting line")

const shardFilePrefix = "shard-"

func shardFileName(i int) string {
	return fmt.Sprintf("%s%d.txt", shardFilePrefix, i)
}

// shardFor assigns term to a shard by FNV-1a hash mod n. The reader
// never recomputes this assignment — it reads whatever files named
// "shard-..." are present — so any deterministic hash works; FNV-1a is the one this
// implementation uses.
func shardFor(term string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(term))
	return int(h.Sum32() % uint32(n))
}

// Write partitions idx's postings across n shard files under dir,
// creating dir if it does not exist. Terms are visited in lexicographic
// order so that two builds over the same corpus produce byte-identical
// shards.
func Write(dir string, idx *docindex.Index, n int, fp fileio.Provider) error {
	if n <= 0 {
		return fmt.Errorf("shard: num_shards must be positive, got %d", n)
	}
	existed, err := fp.DirectoryExists(dir)
	if err != nil {
		return fmt.Errorf("shard: checking %s: %w", dir, err)
	}
	if err := fp.CreateDirectory(dir); err != nil {
		return fmt.Errorf("shard: creating %s: %w", dir, err)
	}
	if existed {
		log.Info().Str("dir", dir).Msg("shard: rebuilding existing index directory")
	}

	terms := idx.Terms()
	sort.Strings(terms)

	buffers := make([]strings.Builder, n)
	for _, term := range terms {
		line := formatLine(term, idx.PostingsFor(term))
		b := &buffers[shardFor(term, n)]
		b.WriteString(line)
		b.WriteByte('\n')
	}

	for i := 0; i < n; i++ {
		name := shardFileName(i)
		if stale, err := fp.FileExists(dir, name); err == nil && stale {
			log.Debug().Str("file", name).Msg("shard: overwriting existing shard file")
		}
		if err := fp.WriteFile(dir, name, []byte(buffers[i].String())); err != nil {
			return fmt.Errorf("shard: writing %s: %w", name, err)
		}
	}
	return nil
}

// formatLine renders one shard grammar line for term and its posting
// list: "<term> <doc_id>:<term_freq>:<pos>,<pos>...;<doc_id>:...".
func formatLine(term string, postings docindex.PostingList) string {
	var b strings.Builder
	b.WriteString(term)
	b.WriteByte(' ')
	for i, p := range postings {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.FormatUint(uint64(p.DocID), 10))
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(p.TermFreq), 10))
		b.WriteByte(':')
		for j, pos := range p.Positions {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatUint(uint64(pos), 10))
		}
	}
	return b.String()
}

// Load opens every file under dir whose name starts with "shard-" (the
// ".txt" suffix is not checked) and rebuilds an equivalent in-memory index. Lines without a space separator are
// skipped (not fatal); a line with a space but a malformed posting list
// is a fatal parse error, and no partially loaded index is returned.
//
// numShards is the configured shard count; the reader never recomputes
// shardFor from it (it simply reads whichever "shard-" files are
// present), but a discovered count that differs from it usually means
// the index directory is stale or was built with a different config,
// so the mismatch is logged as a warning rather than failing the load.
// Pass 0 to skip this check.
func Load(dir string, numShards int, fp fileio.Provider) (*docindex.Index, error) {
	entries, err := fp.ReadDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("shard: reading %s: %w", dir, err)
	}

	idx := docindex.NewIndex()
	discovered := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(filepath.Base(e.Name()), shardFilePrefix) {
			continue
		}
		discovered++
		data, err := fp.ReadFile(dir, e.Name())
		if err != nil {
			return nil, fmt.Errorf("shard: reading %s: %w", e.Name(), err)
		}
		if err := loadShardFile(idx, e.Name(), data); err != nil {
			return nil, err
		}
	}

	if numShards > 0 && discovered != numShards {
		log.Warn().
			Str("dir", dir).
			Int("configured_num_shards", numShards).
			Int("discovered_shard_count", discovered).
			Msg("shard: discovered shard count differs from configured num_shards")
	}
	return idx, nil
}

func loadShardFile(idx *docindex.Index, fileName string, data []byte) error {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			continue // malformed line without a separator: skip, not fatal
		}
		term, rest := line[:sp], line[sp+1:]
		postings, err := parsePostings(rest)
		if err != nil {
			return fmt.Errorf("shard: %s: term %q: %w", fileName, term, err)
		}
		idx.Set(term, postings)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("shard: scanning %s: %w", fileName, err)
	}
	return nil
}

// parsePostings parses "<doc_id>:<term_freq>:<pos>,<pos>...;..." into a
// PostingList. Any structural defect is a fatal ErrParse.
func parsePostings(s string) (docindex.PostingList, error) {
	var list docindex.PostingList
	for _, field := range strings.Split(s, ";") {
		parts := strings.Split(field, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: posting %q has %d fields, want 3", ErrParse, field, len(parts))
		}
		docID, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: doc id %q: %v", ErrParse, parts[0], err)
		}
		termFreq, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: term_freq %q: %v", ErrParse, parts[1], err)
		}
		posStrs := strings.Split(parts[2], ",")
		if len(posStrs) == 1 && posStrs[0] == "" {
			return nil, fmt.Errorf("%w: empty position list for doc %d", ErrParse, docID)
		}
		positions := make([]uint32, 0, len(posStrs))
		for _, ps := range posStrs {
			pos, err := strconv.ParseUint(ps, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: position %q: %v", ErrParse, ps, err)
			}
			positions = append(positions, uint32(pos))
		}
		list = append(list, docindex.Posting{
			DocID:     uint32(docID),
			TermFreq:  uint32(termFreq),
			Positions: positions,
		})
	}
	return list, nil
}
