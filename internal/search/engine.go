package search

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/notelens/notelens/internal/index"
)

// DefaultQueryCacheSize is the default number of query result lists kept
// in the engine's LRU cache.
const DefaultQueryCacheSize = 128

// Engine serves queries over a process-wide shared Index snapshot.
//
// The index reference is swapped atomically: readers always see a
// complete, self-consistent snapshot, and a rebuild replaces it wholesale.
// Scoring never mutates the index, so Search and Related may be called
// concurrently by any number of callers.
type Engine struct {
	current    atomic.Pointer[index.Index]
	cache      *lru.Cache[string, []Result]
	maxResults int
	related    RelatedOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxResults sets the default result cap used when a search request
// carries no explicit limit.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithRelatedOptions sets the default relatedness configuration.
func WithRelatedOptions(opts RelatedOptions) Option {
	return func(e *Engine) {
		e.related = opts.clamp()
	}
}

// WithCacheSize sets the query result cache capacity.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			cache, _ := lru.New[string, []Result](n)
			e.cache = cache
		}
	}
}

// NewEngine creates an engine holding an empty index until SetIndex or
// LoadFrom installs a real one.
func NewEngine(opts ...Option) *Engine {
	cache, _ := lru.New[string, []Result](DefaultQueryCacheSize)
	e := &Engine{
		cache:      cache,
		maxResults: DefaultMaxResults,
		related:    DefaultRelatedOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.current.Store(index.NewEmpty())
	return e
}

// SetIndex atomically installs a new index snapshot and drops cached
// results computed against the previous one.
func (e *Engine) SetIndex(ix *index.Index) {
	if ix == nil {
		ix = index.NewEmpty()
	}
	e.current.Store(ix)
	e.cache.Purge()
	slog.Info("index_snapshot_replaced", slog.Int("chunks", len(ix.Chunks)))
}

// LoadFrom installs the persisted index at path, degrading to an empty
// index when the file is missing or malformed.
func (e *Engine) LoadFrom(path string) {
	e.SetIndex(index.LoadOrEmpty(path))
}

// Index returns the current snapshot. The returned value is immutable and
// safe to share.
func (e *Engine) Index() *index.Index {
	return e.current.Load()
}

// Search scores a free-text query against the current snapshot. A limit
// of zero or less falls back to the engine's configured cap. Results for
// repeated queries are served from the LRU cache; cached slices are
// read-only by convention.
func (e *Engine) Search(query string, limit int) []Result {
	if limit <= 0 {
		limit = e.maxResults
	}

	key := strconv.Itoa(limit) + "\x00" + query
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	results := Query(e.Index(), query, limit)
	e.cache.Add(key, results)
	return results
}

// Related ranks chunks related to the given chunk ID using the engine's
// configured relatedness options.
func (e *Engine) Related(chunkID string) []Result {
	return Related(e.Index(), chunkID, e.related)
}
