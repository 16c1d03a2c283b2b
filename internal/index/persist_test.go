package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	// Given: a built index persisted to disk
	ix := Build(driverCorpus())
	path := filepath.Join(t.TempDir(), "data", "index.json")
	require.NoError(t, Save(ix, path))

	// When: it is loaded back
	loaded, err := Load(path)
	require.NoError(t, err)

	// Then: the snapshot survives intact
	assert.Equal(t, ix.IDF, loaded.IDF)
	require.Len(t, loaded.Chunks, len(ix.Chunks))
	for i, want := range ix.Chunks {
		got := loaded.Chunks[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Href, got.Href)
		assert.Equal(t, want.RelPath, got.RelPath)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Tags, got.Tags)
		assert.Equal(t, want.Snippet, got.Snippet)
		assert.Equal(t, want.Vector, got.Vector)
		assert.InDelta(t, want.Norm, got.Norm, 1e-12)
	}
	assert.NotNil(t, loaded.ByID("c1"))
}

func TestSave_Deterministic(t *testing.T) {
	// Serializing the same index twice must produce identical bytes so
	// rebuilds of an unchanged corpus do not churn the file.
	ix := Build(driverCorpus())
	dir := t.TempDir()

	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	require.NoError(t, Save(ix, pathA))
	require.NoError(t, Save(ix, pathB))

	a, err := os.ReadFile(pathA)
	require.NoError(t, err)
	b, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSave_VectorWireFormat(t *testing.T) {
	ix := Build(driverCorpus())
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, Save(ix, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw struct {
		IDF    map[string]float64 `json:"idf"`
		Chunks []struct {
			ID     string  `json:"id"`
			Vector [][]any `json:"vector"`
		} `json:"chunks"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.NotEmpty(t, raw.Chunks)

	for _, c := range raw.Chunks {
		prev := ""
		for _, pair := range c.Vector {
			// Each entry is exactly ["term", weight], sorted by term.
			require.Len(t, pair, 2)
			term, ok := pair[0].(string)
			require.True(t, ok)
			_, ok = pair[1].(float64)
			require.True(t, ok)
			assert.Greater(t, term, prev, "chunk %s", c.ID)
			prev = term
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadOrEmpty_MissingFile(t *testing.T) {
	ix := LoadOrEmpty(filepath.Join(t.TempDir(), "nope.json"))

	require.NotNil(t, ix)
	assert.True(t, ix.Empty())
}

func TestLoadOrEmpty_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	ix := LoadOrEmpty(path)

	require.NotNil(t, ix)
	assert.True(t, ix.Empty())
}

func TestLoad_SanitizesRecords(t *testing.T) {
	// Given: a file with an empty-ID record, a non-positive weight and a
	// stale norm
	raw := `{
		"idf": {"nvidia": 0.9},
		"chunks": [
			{"id": "", "vector": [], "norm": 1},
			{"id": "c1", "title": "one", "vector": [["nvidia", 0.9], ["junk", -2]], "norm": 99}
		]
	}`
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	ix, err := Load(path)
	require.NoError(t, err)

	// Then: the empty-ID record is skipped, the bad weight dropped and the
	// norm recomputed from the surviving vector
	require.Len(t, ix.Chunks, 1)
	c := ix.Chunks[0]
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, map[string]float64{"nvidia": 0.9}, c.Vector)
	assert.InDelta(t, 0.9, c.Norm, 1e-12)
	assert.NotNil(t, c.Tags)
}
