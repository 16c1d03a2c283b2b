package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/notelens/notelens/internal/index"
	"github.com/notelens/notelens/internal/output"
)

const statsTopTerms = 10

// StatsOutput is the JSON output format for index stats.
type StatsOutput struct {
	Documents int             `json:"documents"`
	Chunks    int             `json:"chunks"`
	Terms     int             `json:"terms"`
	TopTerms  []StatsTermInfo `json:"top_terms"`
}

// StatsTermInfo is a term with its IDF weight. Low IDF means common.
type StatsTermInfo struct {
	Term string  `json:"term"`
	IDF  float64 `json:"idf"`
}

func newStatsCmd() *cobra.Command {
	var jsonOutput bool
	var indexPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long: `Display statistics about the persisted index: document, chunk and
term counts, plus the most common terms in the corpus.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, jsonOutput, indexPath)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&indexPath, "index", "", "Index file path (default: ./.notelens/index.json)")

	return cmd
}

func runStats(cmd *cobra.Command, jsonOutput bool, indexPath string) error {
	out := output.New(cmd.OutOrStdout())

	engine, _, err := loadEngine(indexPath)
	if err != nil {
		return err
	}
	ix := engine.Index()

	stats := collectStats(ix)

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(stats); err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		return nil
	}

	if ix.Empty() {
		out.Statusf("", "Index is empty. Run 'notelens index' first.")
		return nil
	}

	out.Statusf("📊", "Index statistics:")
	out.Statusf("", "   documents: %d", stats.Documents)
	out.Statusf("", "   chunks:    %d", stats.Chunks)
	out.Statusf("", "   terms:     %d", stats.Terms)
	if len(stats.TopTerms) > 0 {
		out.Newline()
		out.Statusf("", "Most common terms:")
		for _, t := range stats.TopTerms {
			out.Statusf("", "   %-20s idf=%.3f", t.Term, t.IDF)
		}
	}
	return nil
}

// collectStats summarizes an index snapshot. Terms are ranked by ascending
// IDF: the lower the weight, the more chunks contain the term.
func collectStats(ix *index.Index) StatsOutput {
	docs := make(map[string]struct{})
	for _, c := range ix.Chunks {
		docs[c.RelPath] = struct{}{}
	}

	terms := make([]StatsTermInfo, 0, len(ix.IDF))
	for term, idf := range ix.IDF {
		terms = append(terms, StatsTermInfo{Term: term, IDF: idf})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].IDF != terms[j].IDF {
			return terms[i].IDF < terms[j].IDF
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > statsTopTerms {
		terms = terms[:statsTopTerms]
	}

	return StatsOutput{
		Documents: len(docs),
		Chunks:    len(ix.Chunks),
		Terms:     len(ix.IDF),
		TopTerms:  terms,
	}
}
