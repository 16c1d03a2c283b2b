package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/notelens/notelens/internal/chunk"
	"github.com/notelens/notelens/internal/config"
	"github.com/notelens/notelens/internal/corpus"
	"github.com/notelens/notelens/internal/index"
	"github.com/notelens/notelens/internal/output"
)

// indexOptions holds CLI flags for index.
type indexOptions struct {
	outputPath string
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Build the search index for a Markdown corpus",
		Long: `Build the TF-IDF index over every Markdown document under the given
directory (default: current directory) and persist it atomically.

A failed build leaves the previous index in place.

Examples:
  notelens index
  notelens index ./notes
  notelens index ./notes --output /tmp/index.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, corpusRoot(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Index file path (default: <dir>/.notelens/index.json)")

	return cmd
}

func runIndex(cmd *cobra.Command, root string, opts indexOptions) error {
	out := output.New(cmd.OutOrStdout())
	started := time.Now()

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	indexPath := cfg.IndexPath(root)
	if opts.outputPath != "" {
		indexPath = opts.outputPath
	}

	// One build at a time per index file; a concurrent loser would
	// silently overwrite the winner's snapshot.
	lock := index.NewBuildLock(indexPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another index build is already running for %s", indexPath)
	}
	defer func() { _ = lock.Unlock() }()

	slog.Info("index_build_started", slog.String("root", root))

	docs := corpus.Scan(root, cfg.Paths.Exclude)

	chunker := chunk.NewWithOptions(chunk.Options{SnippetLength: cfg.Search.SnippetLength})
	var chunks []*chunk.Chunk
	for _, doc := range docs {
		chunks = append(chunks, chunker.Chunk(doc)...)
	}

	ix := index.Build(chunks)
	if err := index.Save(ix, indexPath); err != nil {
		return err
	}

	out.Successf("Indexed %d documents (%d chunks, %d terms) in %s",
		len(docs), len(ix.Chunks), len(ix.IDF), time.Since(started).Round(time.Millisecond))
	out.Statusf("", "Index written to %s", indexPath)
	return nil
}
