// Package search scores free-text queries against a built index and ranks
// related chunks. All operations are pure reads over an immutable Index
// snapshot and are safe for concurrent callers without locking.
package search

import (
	"math"
	"sort"

	"github.com/notelens/notelens/internal/index"
)

// DefaultMaxResults caps query results when no limit is configured.
const DefaultMaxResults = 10

// Result pairs a chunk with its relevance score.
type Result struct {
	Chunk *index.Chunk
	Score float64
}

// Query ranks chunks by cosine similarity against the query, highest first,
// capped at limit. The query is tokenized with the same tokenizer used at
// index-build time; terms absent from the corpus contribute with a default
// IDF of 1 so a query of entirely unknown terms is not silently
// empty-scored.
//
// An empty or all-stop-word query returns an empty result list.
func Query(ix *index.Index, query string, limit int) []Result {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if ix.Empty() {
		return []Result{}
	}

	counts := index.TermCounts(query)
	if len(counts) == 0 {
		return []Result{}
	}

	qvec := make(map[string]float64, len(counts))
	var qnormSq float64
	for term, tf := range counts {
		w := tf * ix.TermIDF(term)
		qvec[term] = w
		qnormSq += w * w
	}
	qnorm := math.Sqrt(qnormSq)
	if qnorm < 1 {
		qnorm = 1
	}

	results := make([]Result, 0, len(ix.Chunks))
	for _, c := range ix.Chunks {
		dot := sparseDot(qvec, c.Vector)
		if dot <= 0 {
			continue
		}
		score := dot / (qnorm * c.Norm)
		if score > 0 {
			results = append(results, Result{Chunk: c, Score: score})
		}
	}

	// Stable sort keeps ties in original chunk order, so identical inputs
	// rank identically.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// sparseDot computes the dot product of two sparse vectors, iterating the
// smaller one since only overlapping terms contribute.
func sparseDot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	return dot
}
