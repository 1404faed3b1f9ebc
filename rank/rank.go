// Package rank scores documents against a query using log-weighted
// tf-idf cosine similarity augmented by a positional proximity bonus.
package rank

import (
	"math"

	"github.com/textlab/prairie/docindex"
)

// Rank scores every document that shares at least one term with
// queryTerms (already normalized, in query order) against idx and docs,
// returning doc_id -> score. An empty queryTerms, or a query with no
// terms present in idx, yields an empty map.
func Rank(queryTerms []string, idx *docindex.Index, docs *docindex.DocumentTable) map[uint32]float64 {
	scores := make(map[uint32]float64)
	if len(queryTerms) == 0 {
		return scores
	}

	df, postingsByTerm := documentFrequencies(queryTerms, idx)
	if len(df) == 0 {
		return scores
	}
	idf := make(map[string]float64, len(df))
	n := float64(docs.Len())
	for term, d := range df {
		idf[term] = math.Log10(n / float64(d))
	}

	qf := queryTermFrequencies(queryTerms)
	qWeights := queryWeights(qf, idf)
	qNorm := euclideanNorm(qWeights)

	docWeights := documentWeights(postingsByTerm, idf)
	for docID, dw := range docWeights {
		scores[docID] = cosine(dw, qWeights, qNorm)
	}

	addProximity(scores, queryTerms, postingsByTerm)
	return scores
}

// documentFrequencies returns df(t) = len(postings(t)) for every
// distinct term in queryTerms present in idx, along with each term's
// posting list for reuse by the cosine and proximity passes. Terms
// absent from idx are dropped silently.
func documentFrequencies(queryTerms []string, idx *docindex.Index) (map[string]int, map[string]docindex.PostingList) {
	df := make(map[string]int)
	postings := make(map[string]docindex.PostingList)
	seen := make(map[string]bool)
	for _, t := range queryTerms {
		if seen[t] {
			continue
		}
		seen[t] = true
		list := idx.PostingsFor(t)
		if len(list) == 0 {
			continue
		}
		df[t] = len(list)
		postings[t] = list
	}
	return df, postings
}

// queryTermFrequencies returns qf(t), the raw count of t in queryTerms.
func queryTermFrequencies(queryTerms []string) map[string]int {
	qf := make(map[string]int, len(queryTerms))
	for _, t := range queryTerms {
		qf[t]++
	}
	return qf
}

// logWeight computes (1 + log10(f)) * idfOfTerm for a raw frequency f.
func logWeight(f int, idfOfTerm float64) float64 {
	return (1 + math.Log10(float64(f))) * idfOfTerm
}

// queryWeights computes w(t,q) for every term present in the index,
// including terms whose idf is zero; terms absent from the index never
// reach here since idf only has entries for indexed terms.
func queryWeights(qf map[string]int, idf map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(idf))
	for term, termIdf := range idf {
		f, ok := qf[term]
		if !ok {
			continue
		}
		weights[term] = logWeight(f, termIdf)
	}
	return weights
}

// documentWeights builds, for every document containing at least one
// query term, the sparse vector of w(t,d) over query terms only — the
// document vector is normalized over that truncated support, not its
// full term set.
func documentWeights(postingsByTerm map[string]docindex.PostingList, idf map[string]float64) map[uint32]map[string]float64 {
	docs := make(map[uint32]map[string]float64)
	for term, list := range postingsByTerm {
		termIdf := idf[term]
		for _, p := range list {
			weights, ok := docs[p.DocID]
			if !ok {
				weights = make(map[string]float64)
				docs[p.DocID] = weights
			}
			weights[term] = logWeight(int(p.TermFreq), termIdf)
		}
	}
	return docs
}

func euclideanNorm(weights map[string]float64) float64 {
	var sumSq float64
	for _, w := range weights {
		sumSq += w * w
	}
	return math.Sqrt(sumSq)
}

// cosine computes dot(docWeights, queryWeights) / (||docWeights|| *
// ||queryWeights||) over the query-term support only. Both vectors are
// sparse maps keyed by query term; docWeights never carries an entry
// for a term outside the query's support, by construction.
func cosine(docWeights, queryWeights map[string]float64, qNorm float64) float64 {
	dNorm := euclideanNorm(docWeights)
	if dNorm == 0 || qNorm == 0 {
		return 0
	}
	var dot float64
	for term, dw := range docWeights {
		dot += dw * queryWeights[term]
	}
	return dot / (dNorm * qNorm)
}

// addProximity adds the positional proximity bonus to scores in place,
// for every document scored by the cosine pass plus any document that
// only shares adjacent-pair terms — the proximity term is purely
// additive on top of the cosine score.
func addProximity(scores map[uint32]float64, queryTerms []string, postingsByTerm map[string]docindex.PostingList) {
	if len(queryTerms) < 2 {
		return
	}
	pairs := len(queryTerms) - 1
	raw := make(map[uint32]float64)

	for i := 0; i+1 < len(queryTerms); i++ {
		left, right := postingsByTerm[queryTerms[i]], postingsByTerm[queryTerms[i+1]]
		if left == nil || right == nil {
			continue
		}
		for docID, dist := range shortestDistancesByDoc(left, right) {
			if dist > 0 {
				raw[docID] += 1 / float64(dist)
			}
		}
	}

	for docID, r := range raw {
		scores[docID] += r / float64(pairs)
	}
}

// shortestDistancesByDoc computes the shortest distance between left's
// and right's positions for every document present in both posting
// lists. Both lists are sorted ascending by doc_id by construction, so
// a single merge pass suffices to find the shared documents.
func shortestDistancesByDoc(left, right docindex.PostingList) map[uint32]int {
	dists := make(map[uint32]int)
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case left[i].DocID < right[j].DocID:
			i++
		case left[i].DocID > right[j].DocID:
			j++
		default:
			dists[left[i].DocID] = shortestDistance(left[i].Positions, right[j].Positions)
			i++
			j++
		}
	}
	return dists
}

// shortestDistance returns the minimum |a-b| over a in positionsA and b
// in positionsB, via a two-pointer sweep over the two sorted lists, or
// -1 if either list is empty.
func shortestDistance(positionsA, positionsB []uint32) int {
	if len(positionsA) == 0 || len(positionsB) == 0 {
		return -1
	}
	i, j := 0, 0
	best := absDiff(positionsA[0], positionsB[0])
	for i < len(positionsA) && j < len(positionsB) {
		d := absDiff(positionsA[i], positionsB[j])
		if d < best {
			best = d
		}
		if positionsA[i] < positionsB[j] {
			i++
		} else {
			j++
		}
	}
	return best
}

func absDiff(a, b uint32) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
