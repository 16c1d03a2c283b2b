// Package cmd provides the CLI commands for notelens.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notelens/notelens/internal/logging"
	"github.com/notelens/notelens/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the notelens CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notelens",
		Short: "Offline TF-IDF search over a Markdown corpus",
		Long: `notelens indexes a directory of Markdown documents and serves ranked
free-text search over them, entirely offline.

Build the index once, then query it:

  notelens index ./notes
  notelens search "nvidia driver" --limit 5
  notelens related 4f1c09a2b37d58e6`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("notelens version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newRelatedCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setupLogging configures the default slog logger for all commands.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}

	cleanup, err := logging.SetupDefault(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	loggingCleanup = cleanup
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// corpusRoot resolves the optional positional corpus directory argument,
// defaulting to the current directory.
func corpusRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}
