package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/notelens/notelens/internal/output"
	"github.com/notelens/notelens/internal/search"
)

// relatedOptions holds CLI flags for related.
type relatedOptions struct {
	k         int
	tagWeight float64
	format    string
	indexPath string
}

func newRelatedCmd() *cobra.Command {
	var opts relatedOptions

	cmd := &cobra.Command{
		Use:   "related <chunk-id>",
		Short: "Rank chunks related to a given chunk",
		Long: `Rank other chunks by a blend of cosine similarity and tag overlap
with the target chunk. Chunk IDs appear in 'search --format json' output.

Examples:
  notelens related 4f1c09a2b37d58e6
  notelens related 4f1c09a2b37d58e6 --k 3 --tag-weight 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelated(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.k, "k", 0, "Number of related chunks (default: related.k)")
	cmd.Flags().Float64Var(&opts.tagWeight, "tag-weight", -1, "Tag overlap multiplier (default: related.tag_weight)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVar(&opts.indexPath, "index", "", "Index file path (default: ./.notelens/index.json)")

	return cmd
}

func runRelated(cmd *cobra.Command, chunkID string, opts relatedOptions) error {
	out := output.New(cmd.OutOrStdout())

	engine, cfg, err := loadEngine(opts.indexPath)
	if err != nil {
		return err
	}

	ranker := search.RelatedOptions{
		TagWeight: cfg.Related.TagWeight,
		K:         cfg.Related.K,
	}
	if opts.k > 0 {
		ranker.K = opts.k
	}
	if opts.tagWeight >= 0 {
		ranker.TagWeight = opts.tagWeight
	}

	slog.Info("related_started",
		slog.String("chunk_id", chunkID),
		slog.Int("k", ranker.K))
	results := search.Related(engine.Index(), chunkID, ranker)
	slog.Info("related_complete", slog.Int("results", len(results)))

	if opts.format == "json" {
		return writeResultsJSON(cmd, results)
	}

	if len(results) == 0 {
		out.Statusf("", "No related chunks for %s", chunkID)
		return nil
	}

	out.Statusf("🔗", "%d chunks related to %s:", len(results), chunkID)
	out.Newline()
	for i, r := range results {
		out.Statusf("", "%d. %s (score: %.3f)", i+1, r.Chunk.Href, r.Score)
		out.Statusf("", "   %s · %s", r.Chunk.Title, r.Chunk.RelPath)
		out.Newline()
	}
	return nil
}
