// Package config loads, saves, and normalizes notelens configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the per-corpus configuration file.
const FileName = ".notelens.yaml"

// DataDirName is the directory holding the persisted index.
const DataDirName = ".notelens"

// Defaults for every tunable. Out-of-range values are clamped back to
// these rather than rejected, so a bad config degrades the search
// experience instead of breaking it.
const (
	DefaultMaxResults    = 10
	DefaultMaxTagChips   = 6
	DefaultSnippetLength = 160
	DefaultTagWeight     = 0.3
	DefaultRelatedK      = 5
	DefaultWatchDebounce = "500ms"
)

// Config is the complete notelens configuration.
type Config struct {
	Version int           `yaml:"version"`
	Paths   PathsConfig   `yaml:"paths"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Related RelatedConfig `yaml:"related"`
	Watch   WatchConfig   `yaml:"watch"`
}

// PathsConfig configures which corpus paths to exclude.
type PathsConfig struct {
	Exclude []string `yaml:"exclude"`
}

// IndexConfig configures index persistence.
type IndexConfig struct {
	// Path is the persisted index file, relative to the corpus root.
	Path string `yaml:"path"`
}

// SearchConfig configures query scoring and result presentation.
type SearchConfig struct {
	// MaxResults caps query results.
	MaxResults int `yaml:"max_results"`

	// MaxTagChips caps tags shown per result. Presentation only; scoring
	// ignores it.
	MaxTagChips int `yaml:"max_tag_chips"`

	// SnippetLength is the maximum snippet length in characters,
	// applied at index-build time.
	SnippetLength int `yaml:"snippet_length"`
}

// RelatedConfig configures the relatedness ranker.
type RelatedConfig struct {
	// TagWeight is the non-negative multiplier for tag overlap.
	TagWeight float64 `yaml:"tag_weight"`

	// K is the number of related chunks returned.
	K int `yaml:"k"`
}

// WatchConfig configures the corpus watcher.
type WatchConfig struct {
	// Debounce is the window for coalescing file events before a
	// rebuild, as a Go duration string.
	Debounce string `yaml:"debounce"`
}

// defaultExcludePatterns are always excluded from corpus scans.
var defaultExcludePatterns = []string{
	"node_modules",
	"vendor",
	"dist",
	"build",
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Exclude: append([]string(nil), defaultExcludePatterns...),
		},
		Index: IndexConfig{
			Path: filepath.Join(DataDirName, "index.json"),
		},
		Search: SearchConfig{
			MaxResults:    DefaultMaxResults,
			MaxTagChips:   DefaultMaxTagChips,
			SnippetLength: DefaultSnippetLength,
		},
		Related: RelatedConfig{
			TagWeight: DefaultTagWeight,
			K:         DefaultRelatedK,
		},
		Watch: WatchConfig{
			Debounce: DefaultWatchDebounce,
		},
	}
}

// Load reads the configuration from root. A missing file yields defaults;
// unrecognized keys are ignored and missing keys fall back to defaults.
// Environment overrides are applied last.
func Load(root string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.Normalize()
	return cfg, nil
}

// Save writes the configuration to root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// IndexPath resolves the persisted index path against the corpus root.
func (c *Config) IndexPath(root string) string {
	if filepath.IsAbs(c.Index.Path) {
		return c.Index.Path
	}
	return filepath.Join(root, c.Index.Path)
}

// Normalize clamps out-of-range values to their nearest valid bound.
// Clamping is logged so a silently adjusted config is still visible.
func (c *Config) Normalize() {
	if c.Index.Path == "" {
		c.Index.Path = filepath.Join(DataDirName, "index.json")
	}
	if c.Search.MaxResults <= 0 {
		c.clampLog("search.max_results", c.Search.MaxResults, DefaultMaxResults)
		c.Search.MaxResults = DefaultMaxResults
	}
	if c.Search.MaxTagChips < 0 {
		c.clampLog("search.max_tag_chips", c.Search.MaxTagChips, 0)
		c.Search.MaxTagChips = 0
	}
	if c.Search.SnippetLength <= 0 {
		c.clampLog("search.snippet_length", c.Search.SnippetLength, DefaultSnippetLength)
		c.Search.SnippetLength = DefaultSnippetLength
	}
	if c.Related.TagWeight < 0 {
		c.clampLog("related.tag_weight", c.Related.TagWeight, 0)
		c.Related.TagWeight = 0
	}
	if c.Related.K < 0 {
		c.clampLog("related.k", c.Related.K, 0)
		c.Related.K = 0
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultWatchDebounce
	}
}

func (c *Config) clampLog(key string, got, clamped any) {
	slog.Warn("config_value_clamped",
		slog.String("key", key),
		slog.Any("value", got),
		slog.Any("clamped_to", clamped))
}

// applyEnv applies environment variable overrides. Unparseable values are
// ignored; Normalize handles out-of-range results.
func (c *Config) applyEnv() {
	if v := os.Getenv("NOTELENS_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("NOTELENS_TAG_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Related.TagWeight = f
		}
	}
	if v := os.Getenv("NOTELENS_RELATED_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Related.K = n
		}
	}
}
