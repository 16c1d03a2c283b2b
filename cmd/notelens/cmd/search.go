package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notelens/notelens/internal/config"
	"github.com/notelens/notelens/internal/output"
	"github.com/notelens/notelens/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit     int
	format    string // "text", "json"
	indexPath string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed corpus",
		Long: `Rank indexed chunks against a free-text query by TF-IDF cosine
similarity.

A missing or unreadable index yields an empty result set, not an error.

Examples:
  notelens search "nvidia driver"
  notelens search "install linux" --limit 5
  notelens search "error handling" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default: search.max_results)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVar(&opts.indexPath, "index", "", "Index file path (default: ./.notelens/index.json)")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	out := output.New(cmd.OutOrStdout())

	engine, cfg, err := loadEngine(opts.indexPath)
	if err != nil {
		return err
	}

	limit := opts.limit
	if limit <= 0 {
		limit = cfg.Search.MaxResults
	}

	slog.Info("search_started", slog.String("query", query), slog.Int("limit", limit))
	results := engine.Search(query, limit)
	slog.Info("search_complete", slog.Int("results", len(results)))

	switch opts.format {
	case "json":
		return writeResultsJSON(cmd, results)
	default:
		formatResults(out, query, results, cfg.Search.MaxTagChips)
		return nil
	}
}

// loadEngine builds a search engine over the persisted index, using the
// configuration found at the corpus root.
func loadEngine(indexPath string) (*search.Engine, *config.Config, error) {
	root := corpusRoot(nil)
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	if indexPath == "" {
		indexPath = cfg.IndexPath(root)
	}

	engine := search.NewEngine(
		search.WithMaxResults(cfg.Search.MaxResults),
		search.WithRelatedOptions(search.RelatedOptions{
			TagWeight: cfg.Related.TagWeight,
			K:         cfg.Related.K,
		}),
	)
	engine.LoadFrom(indexPath)
	return engine, cfg, nil
}

// formatResults prints results in human-readable form.
func formatResults(out *output.Writer, query string, results []search.Result, maxTagChips int) {
	if len(results) == 0 {
		out.Statusf("", "No results found for %q", query)
		return
	}

	out.Statusf("🔍", "Found %d results for %q:", len(results), query)
	out.Newline()

	for i, r := range results {
		out.Statusf("", "%d. %s (score: %.3f)", i+1, r.Chunk.Href, r.Score)
		out.Statusf("", "   %s · %s", r.Chunk.Title, r.Chunk.RelPath)
		if r.Chunk.Snippet != "" {
			out.Statusf("", "   %s", r.Chunk.Snippet)
		}
		if len(r.Chunk.Tags) > 0 && maxTagChips > 0 {
			tags := r.Chunk.Tags
			if len(tags) > maxTagChips {
				tags = tags[:maxTagChips]
			}
			out.Statusf("", "   tags: %s", strings.Join(tags, ", "))
		}
		out.Newline()
	}
}

// writeResultsJSON prints results as JSON for machine consumers.
func writeResultsJSON(cmd *cobra.Command, results []search.Result) error {
	type jsonResult struct {
		ID      string   `json:"id"`
		Href    string   `json:"href"`
		RelPath string   `json:"relPath"`
		Title   string   `json:"title"`
		Date    string   `json:"date,omitempty"`
		Tags    []string `json:"tags"`
		Snippet string   `json:"snippet"`
		Score   float64  `json:"score"`
	}

	encoded := make([]jsonResult, 0, len(results))
	for _, r := range results {
		encoded = append(encoded, jsonResult{
			ID:      r.Chunk.ID,
			Href:    r.Chunk.Href,
			RelPath: r.Chunk.RelPath,
			Title:   r.Chunk.Title,
			Date:    r.Chunk.Date,
			Tags:    r.Chunk.Tags,
			Snippet: r.Chunk.Snippet,
			Score:   r.Score,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(encoded); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
