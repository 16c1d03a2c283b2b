package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/notelens/notelens/internal/config"
	"github.com/notelens/notelens/internal/output"
	"github.com/notelens/notelens/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rebuild the index when the corpus changes",
		Long: `Watch the corpus directory and rebuild the full index whenever a
Markdown file changes. Rapid bursts of changes are coalesced into a
single rebuild. There are no incremental updates; every trigger is a
complete, atomic rebuild.

Press Ctrl-C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, corpusRoot(args))
		},
	}

	return cmd
}

func runWatch(cmd *cobra.Command, root string) error {
	out := output.New(cmd.OutOrStdout())

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	debounce, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil || debounce <= 0 {
		debounce, _ = time.ParseDuration(config.DefaultWatchDebounce)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	deb := watcher.NewDebouncer(debounce)
	defer deb.Stop()

	// Initial build so the watcher always starts from a fresh snapshot.
	if err := runIndex(cmd, root, indexOptions{}); err != nil {
		return err
	}
	out.Statusf("👀", "Watching %s (debounce %s)", root, debounce)

	g, gctx := errgroup.WithContext(ctx)

	// Watcher loop: forward events into the debouncer.
	g.Go(func() error {
		err := w.Start(gctx, root)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	// Rebuild worker: one full rebuild per debounced batch.
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-w.Events():
				if !ok {
					return nil
				}
				slog.Debug("corpus_event",
					slog.String("path", ev.Path),
					slog.String("op", ev.Operation.String()))
				deb.Add(ev)
			case err, ok := <-w.Errors():
				if ok && err != nil {
					slog.Warn("watcher_error", slog.String("error", err.Error()))
				}
			case batch, ok := <-deb.Batches():
				if !ok {
					return nil
				}
				slog.Info("corpus_changed", slog.Int("files", len(batch)))
				if err := runIndex(cmd, root, indexOptions{}); err != nil {
					// A failed rebuild leaves the previous snapshot
					// servable; keep watching.
					slog.Warn("rebuild_failed", slog.String("error", err.Error()))
					out.Warning("Rebuild failed: " + err.Error())
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	out.Statusf("", "Stopped watching %s", root)
	return nil
}
