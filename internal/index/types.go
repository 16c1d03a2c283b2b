// Package index builds and persists the TF-IDF index over a chunked
// Markdown corpus. This is the persistence layer for all indexed data.
package index

import "math"

// DefaultIDF is the weight assumed for query terms that never appeared in
// the corpus. A positive default lets a query made entirely of unknown
// terms still produce a well-formed (empty) scoring pass instead of
// dividing by zero.
const DefaultIDF = 1.0

// Chunk is the atomic retrievable unit derived from one document.
// Vector is sparse: only terms with strictly positive weight are present.
type Chunk struct {
	// ID is a stable identifier derived from the document path and the
	// chunk's offset within it.
	ID string

	// Href is the display link for the chunk, anchored to its section.
	Href string

	// RelPath is the source document path relative to the corpus root.
	RelPath string

	// Title, Date and Tags are provenance copied from the owning document.
	// Tags are lowercased, trimmed and deduplicated.
	Title string
	Date  string
	Tags  []string

	// Snippet is the leading text of the chunk, for display.
	Snippet string

	// Vector maps term to non-negative TF-IDF weight.
	Vector map[string]float64

	// Norm is the Euclidean length of Vector, floored at 1 when the
	// vector is empty so downstream cosine division is always defined.
	Norm float64
}

// RecomputeNorm recalculates Norm from Vector. It must be called whenever
// the vector changes; a stale norm silently corrupts every cosine score.
func (c *Chunk) RecomputeNorm() {
	var sum float64
	for _, w := range c.Vector {
		sum += w * w
	}
	if sum == 0 {
		c.Norm = 1
		return
	}
	c.Norm = math.Sqrt(sum)
}

// HasTag reports whether the chunk carries the given (normalized) tag.
func (c *Chunk) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Index is the pair of global term statistics and the ordered chunk
// sequence. It is immutable once built: a rebuild produces a brand-new
// Index value that atomically replaces the old reference, so concurrent
// readers never need locking.
type Index struct {
	// IDF maps every term appearing in any chunk vector to its
	// inverse-document-frequency weight.
	IDF map[string]float64

	// Chunks is the deterministic, ordered chunk sequence.
	Chunks []*Chunk

	byID map[string]*Chunk
}

// NewEmpty returns a valid, empty index. All query and relatedness
// operations on it return empty results.
func NewEmpty() *Index {
	return &Index{
		IDF:    make(map[string]float64),
		Chunks: []*Chunk{},
		byID:   make(map[string]*Chunk),
	}
}

// Empty reports whether the index contains no chunks.
func (ix *Index) Empty() bool {
	return ix == nil || len(ix.Chunks) == 0
}

// ByID returns the chunk with the given ID, or nil if absent.
func (ix *Index) ByID(id string) *Chunk {
	if ix == nil {
		return nil
	}
	return ix.byID[id]
}

// TermIDF returns the IDF weight for term, falling back to DefaultIDF for
// terms the corpus has never seen.
func (ix *Index) TermIDF(term string) float64 {
	if ix == nil {
		return DefaultIDF
	}
	if w, ok := ix.IDF[term]; ok {
		return w
	}
	return DefaultIDF
}

// rebuildLookup refreshes the ID lookup map from Chunks.
func (ix *Index) rebuildLookup() {
	ix.byID = make(map[string]*Chunk, len(ix.Chunks))
	for _, c := range ix.Chunks {
		ix.byID[c.ID] = c
	}
}
