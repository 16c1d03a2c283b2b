package search

import (
	"sort"

	"github.com/notelens/notelens/internal/index"
)

// Relatedness defaults.
const (
	// DefaultTagWeight is the multiplier applied to the tag-overlap
	// signal when blending it with cosine similarity.
	DefaultTagWeight = 0.3

	// DefaultRelatedK is the number of related chunks returned.
	DefaultRelatedK = 5
)

// RelatedOptions configures the relatedness ranker.
type RelatedOptions struct {
	// TagWeight is the non-negative multiplier for the Jaccard tag
	// overlap. Negative values are clamped to 0.
	TagWeight float64

	// K is the maximum number of related chunks returned. Negative
	// values are clamped to 0.
	K int
}

// DefaultRelatedOptions returns the default relatedness configuration.
func DefaultRelatedOptions() RelatedOptions {
	return RelatedOptions{TagWeight: DefaultTagWeight, K: DefaultRelatedK}
}

// clamp pulls out-of-range values back to their nearest valid bound so a
// bad configuration degrades the ranking instead of rejecting the request.
func (o RelatedOptions) clamp() RelatedOptions {
	if o.TagWeight < 0 {
		o.TagWeight = 0
	}
	if o.K < 0 {
		o.K = 0
	}
	return o
}

// Related ranks chunks related to the target chunk by a blend of cosine
// similarity and tag overlap:
//
//	blended = cosine(target, candidate) + tagWeight * jaccard(tags, tags)
//
// The target is excluded from its own results. Two chunks with disjoint
// text but shared tags still relate through the Jaccard term. An unknown
// chunk ID yields an empty result list.
func Related(ix *index.Index, chunkID string, opts RelatedOptions) []Result {
	opts = opts.clamp()

	target := ix.ByID(chunkID)
	if target == nil || opts.K == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(ix.Chunks))
	for _, c := range ix.Chunks {
		if c.ID == target.ID {
			continue
		}
		score := cosine(target, c) + opts.TagWeight*jaccard(target.Tags, c.Tags)
		if score > 0 {
			results = append(results, Result{Chunk: c, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > opts.K {
		results = results[:opts.K]
	}
	return results
}

// cosine computes cosine similarity between two chunk weight vectors.
// Chunk norms are floored at 1 when built, so the division is always
// defined.
func cosine(a, b *index.Chunk) float64 {
	dot := sparseDot(a.Vector, b.Vector)
	if dot == 0 {
		return 0
	}
	return dot / (a.Norm * b.Norm)
}

// jaccard computes the set-overlap ratio of two tag sets: intersection
// size over union size, 0 when both sets are empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}

	var intersection int
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			intersection++
		}
	}

	union := len(set) + len(seen) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
