package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio"
)

// DefaultFileName is the persisted index file name.
const DefaultFileName = "index.json"

// indexFile is the wire format of the persisted index.
type indexFile struct {
	IDF    map[string]float64 `json:"idf"`
	Chunks []chunkRecord      `json:"chunks"`
}

// chunkRecord mirrors Chunk with the sparse vector flattened to ordered
// [term, weight] pairs.
type chunkRecord struct {
	ID      string       `json:"id"`
	Href    string       `json:"href"`
	RelPath string       `json:"relPath"`
	Title   string       `json:"title"`
	Date    string       `json:"date"`
	Tags    []string     `json:"tags"`
	Snippet string       `json:"snippet"`
	Vector  []termWeight `json:"vector"`
	Norm    float64      `json:"norm"`
}

// termWeight serializes as a two-element JSON array: ["term", weight].
type termWeight struct {
	Term   string
	Weight float64
}

func (tw termWeight) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{tw.Term, tw.Weight})
}

func (tw *termWeight) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("vector entry has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &tw.Term); err != nil {
		return fmt.Errorf("vector term: %w", err)
	}
	if err := json.Unmarshal(raw[1], &tw.Weight); err != nil {
		return fmt.Errorf("vector weight: %w", err)
	}
	return nil
}

// Save writes the index to path atomically. Readers either see the previous
// complete snapshot or the new one, never a partially-written file. A failed
// write leaves the previous snapshot in place.
func Save(ix *Index, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	data, err := json.Marshal(toFile(ix))
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	slog.Info("index_persisted",
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}

// Load reads and validates a persisted index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}

	return fromFile(&file), nil
}

// LoadOrEmpty reads the persisted index, degrading to a valid empty index
// when the file is missing or malformed. Search must never crash in front
// of an end user because the index is unavailable.
func LoadOrEmpty(path string) *Index {
	ix, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("index_missing", slog.String("path", path))
		} else {
			slog.Warn("index_unreadable",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return NewEmpty()
	}
	return ix
}

func toFile(ix *Index) *indexFile {
	file := &indexFile{
		IDF:    ix.IDF,
		Chunks: make([]chunkRecord, 0, len(ix.Chunks)),
	}
	if file.IDF == nil {
		file.IDF = map[string]float64{}
	}

	for _, c := range ix.Chunks {
		rec := chunkRecord{
			ID:      c.ID,
			Href:    c.Href,
			RelPath: c.RelPath,
			Title:   c.Title,
			Date:    c.Date,
			Tags:    c.Tags,
			Snippet: c.Snippet,
			Vector:  make([]termWeight, 0, len(c.Vector)),
			Norm:    c.Norm,
		}
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		for term, w := range c.Vector {
			rec.Vector = append(rec.Vector, termWeight{Term: term, Weight: w})
		}
		// Sorted pairs keep rebuilds of an unchanged corpus byte-identical.
		sort.Slice(rec.Vector, func(i, j int) bool { return rec.Vector[i].Term < rec.Vector[j].Term })
		file.Chunks = append(file.Chunks, rec)
	}
	return file
}

// fromFile converts the wire format back, validating loosely-typed optional
// fields at the parse boundary: absent maps and slices become empty values,
// non-positive weights are dropped, and norms are recomputed rather than
// trusted.
func fromFile(file *indexFile) *Index {
	ix := NewEmpty()
	if file.IDF != nil {
		ix.IDF = file.IDF
	}

	for _, rec := range file.Chunks {
		if rec.ID == "" {
			continue
		}
		c := &Chunk{
			ID:      rec.ID,
			Href:    rec.Href,
			RelPath: rec.RelPath,
			Title:   rec.Title,
			Date:    rec.Date,
			Tags:    rec.Tags,
			Snippet: rec.Snippet,
			Vector:  make(map[string]float64, len(rec.Vector)),
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		for _, tw := range rec.Vector {
			if tw.Term != "" && tw.Weight > 0 {
				c.Vector[tw.Term] = tw.Weight
			}
		}
		c.RecomputeNorm()
		ix.Chunks = append(ix.Chunks, c)
	}

	ix.rebuildLookup()
	return ix
}
