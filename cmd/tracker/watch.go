package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/record-tracker/internal/infrastructure/parsers"
	"github.com/ersonp/record-tracker/internal/infrastructure/watcher"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Track snapshots as they are written to a directory",
		Long: `Watches a directory tree and tracks every JSON or YAML snapshot once it
has stopped changing. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", DefaultDebounce, "Quiet period before a changed file is tracked")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, debounce time.Duration) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		handle := func(ctx context.Context, path string) {
			result, err := d.TrackHandler.HandleFile(ctx, path)
			if err != nil {
				d.Log.Error(ctx, "tracking snapshot failed", "path", path, "error", err)
				return
			}
			if err := printTrackResult(out, result); err != nil {
				d.Log.Warn(ctx, "writing output failed", "error", err)
			}
		}

		w, err := watcher.New(dir, debounce, isSnapshot, handle, d.Log)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Watching %s for snapshots. Press Ctrl+C to stop.\n", dir)
		if err := w.Run(ctx); err != nil {
			return err
		}
		_, err = io.WriteString(out, "Stopped.\n")
		return err
	})
}

func isSnapshot(path string) bool {
	return parsers.ForFile(path) != nil
}
