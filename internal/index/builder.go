package index

import (
	"log/slog"
	"math"

	"github.com/notelens/notelens/internal/chunk"
)

// Build computes the TF-IDF index over the full chunk set in two passes.
//
// Pass 1 tokenizes every chunk, accumulating per-chunk raw term counts and
// the document frequency of each term (number of distinct chunks containing
// it). Pass 2 assigns idf = log(1 + N/df), weights each chunk term as
// tf * idf, and precomputes the chunk norms.
//
// log(1 + N/df) is strictly positive, monotonically decreasing in df, and
// defined for every df >= 1, so no smoothing constant or zero-division
// guard is needed. An empty chunk set yields a valid, empty index.
func Build(src []*chunk.Chunk) *Index {
	ix := NewEmpty()
	if len(src) == 0 {
		return ix
	}

	// Pass 1: term counts per chunk, document frequency across chunks.
	counts := make([]map[string]float64, len(src))
	df := make(map[string]int)
	for i, c := range src {
		counts[i] = TermCounts(c.Text)
		for term := range counts[i] {
			df[term]++
		}
	}

	n := float64(len(src))
	for term, d := range df {
		ix.IDF[term] = math.Log(1 + n/float64(d))
	}

	// Pass 2: weight vectors and norms.
	ix.Chunks = make([]*Chunk, 0, len(src))
	for i, c := range src {
		ic := &Chunk{
			ID:      c.ID,
			Href:    c.Href,
			RelPath: c.RelPath,
			Title:   c.Title,
			Date:    c.Date,
			Tags:    append([]string(nil), c.Tags...),
			Snippet: c.Snippet,
			Vector:  make(map[string]float64, len(counts[i])),
		}
		for term, tf := range counts[i] {
			if w := tf * ix.IDF[term]; w > 0 {
				ic.Vector[term] = w
			}
		}
		ic.RecomputeNorm()
		ix.Chunks = append(ix.Chunks, ic)
	}

	ix.rebuildLookup()

	slog.Info("index_built",
		slog.Int("chunks", len(ix.Chunks)),
		slog.Int("terms", len(ix.IDF)))
	return ix
}
