package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notelens/notelens/internal/index"
)

func TestEngine_StartsEmpty(t *testing.T) {
	e := NewEngine()

	assert.True(t, e.Index().Empty())
	assert.Empty(t, e.Search("nvidia driver", 0))
}

func TestEngine_SetIndexServesNewSnapshot(t *testing.T) {
	e := NewEngine()

	e.SetIndex(driverIndex())

	results := e.Search("nvidia driver", 0)
	require.Len(t, results, 2)
	assert.Equal(t, "c1", results[0].Chunk.ID)
}

func TestEngine_SetIndexPurgesCache(t *testing.T) {
	// Given: a cached result computed against the first snapshot
	e := NewEngine()
	e.SetIndex(driverIndex())
	require.Len(t, e.Search("nvidia driver", 0), 2)

	// When: the snapshot is replaced with an empty index
	e.SetIndex(index.NewEmpty())

	// Then: the stale cached results are gone
	assert.Empty(t, e.Search("nvidia driver", 0))
}

func TestEngine_SetIndexNilDegradesToEmpty(t *testing.T) {
	e := NewEngine()
	e.SetIndex(driverIndex())

	e.SetIndex(nil)

	assert.True(t, e.Index().Empty())
}

func TestEngine_LoadFromMissingFile(t *testing.T) {
	e := NewEngine()

	e.LoadFrom(filepath.Join(t.TempDir(), "nope.json"))

	assert.True(t, e.Index().Empty())
}

func TestEngine_RoundTripThroughDisk(t *testing.T) {
	ix := driverIndex()
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, index.Save(ix, path))

	e := NewEngine()
	e.LoadFrom(path)

	results := e.Search("nvidia driver", 0)
	require.Len(t, results, 2)
}

func TestEngine_CachedQueriesAreStable(t *testing.T) {
	e := NewEngine()
	e.SetIndex(driverIndex())

	first := e.Search("nvidia driver", 0)
	second := e.Search("nvidia driver", 0)

	assert.Equal(t, first, second)
}

func TestEngine_LimitIsPartOfCacheKey(t *testing.T) {
	e := NewEngine()
	e.SetIndex(driverIndex())

	assert.Len(t, e.Search("nvidia driver", 2), 2)
	assert.Len(t, e.Search("nvidia driver", 1), 1)
}

func TestEngine_Options(t *testing.T) {
	e := NewEngine(
		WithMaxResults(1),
		WithRelatedOptions(RelatedOptions{TagWeight: 0, K: 5}),
		WithCacheSize(4),
	)
	e.SetIndex(driverIndex())

	// The configured cap applies when the caller passes no limit.
	assert.Len(t, e.Search("nvidia driver", 0), 1)

	// Tag weight 0 means c2 relates through cosine only.
	results := e.Related("c1")
	require.Len(t, results, 1)
	assert.InDelta(t, 0.3040, results[0].Score, 1e-4)
}

func TestEngine_RelatedUnknownID(t *testing.T) {
	e := NewEngine()
	e.SetIndex(driverIndex())

	assert.Empty(t, e.Related("missing"))
}
