package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelens/notelens/internal/chunk"
	"github.com/notelens/notelens/internal/index"
)

func TestRelated_BlendsCosineAndTags(t *testing.T) {
	// Given: c1 and c2 share text terms and one of their tags
	ix := driverIndex()

	results := Related(ix, "c1", DefaultRelatedOptions())

	// Then: c2 relates through both signals, c3 through neither
	require.Len(t, results, 1)
	assert.Equal(t, "c2", results[0].Chunk.ID)
	// cosine 0.3040 plus 0.3 * jaccard(1/3)
	assert.InDelta(t, 0.4040, results[0].Score, 1e-4)
}

func TestRelated_ExcludesTarget(t *testing.T) {
	ix := driverIndex()

	results := Related(ix, "c1", DefaultRelatedOptions())

	for _, r := range results {
		assert.NotEqual(t, "c1", r.Chunk.ID)
	}
}

func TestRelated_TagOverlapAloneRelates(t *testing.T) {
	// Given: two chunks with no shared vocabulary at all but a common tag
	ix := index.Build([]*chunk.Chunk{
		testChunk("a", "alpha bravo", "golang"),
		testChunk("b", "charlie delta", "golang"),
	})

	results := Related(ix, "a", DefaultRelatedOptions())

	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Chunk.ID)
	assert.InDelta(t, DefaultTagWeight, results[0].Score, 1e-12)
}

func TestRelated_ZeroTagWeightIgnoresTags(t *testing.T) {
	ix := index.Build([]*chunk.Chunk{
		testChunk("a", "alpha bravo", "golang"),
		testChunk("b", "charlie delta", "golang"),
	})

	results := Related(ix, "a", RelatedOptions{TagWeight: 0, K: 5})

	assert.Empty(t, results)
}

func TestRelated_ClampsNegativeOptions(t *testing.T) {
	ix := driverIndex()

	// Negative tag weight behaves as 0, not as a penalty.
	results := Related(ix, "c1", RelatedOptions{TagWeight: -1, K: 5})
	require.Len(t, results, 1)
	assert.InDelta(t, 0.3040, results[0].Score, 1e-4)

	// Negative K behaves as 0.
	assert.Empty(t, Related(ix, "c1", RelatedOptions{TagWeight: 0.3, K: -3}))
}

func TestRelated_UnknownChunkID(t *testing.T) {
	ix := driverIndex()

	assert.Empty(t, Related(ix, "missing", DefaultRelatedOptions()))
}

func TestRelated_KCapsResults(t *testing.T) {
	ix := index.Build([]*chunk.Chunk{
		testChunk("a", "shared words here", "t"),
		testChunk("b", "shared words here", "t"),
		testChunk("c", "shared words here", "t"),
		testChunk("d", "shared words here", "t"),
	})

	results := Related(ix, "a", RelatedOptions{TagWeight: 0.3, K: 2})

	assert.Len(t, results, 2)
}
