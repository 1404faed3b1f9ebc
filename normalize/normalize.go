// Package normalize turns raw text into the sequence of index terms
// used identically at index time and at query time: tokenize, lowercase,
// drop short tokens, drop stopwords, then Porter-stem.
package normalize

import (
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"
)

// Stopwords is a read-only, deduplicated set of lowercased stopwords.
// Build it once with NewStopwords and never mutate it afterward — it is
// shared across concurrent Normalize calls without synchronization.
type Stopwords struct {
	words map[string]struct{}
}

// NewStopwords builds a Stopwords set from already-lowercased words.
func NewStopwords(words []string) Stopwords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return Stopwords{words: set}
}

// Contains reports whether w (assumed lowercase) is a stopword.
func (s Stopwords) Contains(w string) bool {
	_, ok := s.words[w]
	return ok
}

// Len reports the number of distinct stopwords.
func (s Stopwords) Len() int {
	return len(s.words)
}

const minTermLength = 2

// Normalize applies the full pipeline to one line of raw text, returning
// the sequence of terms that survive tokenization, lowercasing, the
// minimum-length filter, stopword removal, and Porter stemming, in that
// order. It never fails: an empty result is a valid outcome.
func Normalize(raw string, stop Stopwords) []string {
	var terms []string
	for _, tok := range Tokenize(raw) {
		tok = strings.ToLower(tok)
		if len(tok) < minTermLength {
			continue
		}
		if stop.Contains(tok) {
			continue
		}
		terms = append(terms, porterstemmer.StemString(tok))
	}
	return terms
}

// Tokenize splits raw on any run of characters outside ASCII [a-zA-Z0-9],
// dropping empty tokens. It performs no case folding or filtering of its
// own — Normalize layers those on top so that the indexer's own
// tokenizer (which assumes pre-normalized input, see docindex) can reuse
// exactly this splitting rule without re-running the rest of the
// pipeline.
func Tokenize(raw string) []string {
	var tokens []string
	start := -1
	for i, r := range raw {
		if isAlnum(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, raw[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, raw[start:])
	}
	return tokens
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
