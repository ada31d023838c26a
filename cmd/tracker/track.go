package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/record-tracker/internal/application/handlers"
	"github.com/ersonp/record-tracker/internal/domain/entities"
)

func newTrackCmd() *cobra.Command {
	var (
		pattern   string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "track <file|dir|glob>",
		Short: "Record a snapshot and mail the changes",
		Long: `Compares a record snapshot with its last tracked version, mails the site
administrator the formatted differences and stores the snapshot as the next version.
A snapshot seen for the first time is stored without a notification.
Quote glob patterns such as 'snapshots/*.json' to let the tracker expand them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, args[0], pattern, recursive)
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", DefaultPattern, "File name pattern when tracking a directory")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")

	return cmd
}

func runTrack(cmd *cobra.Command, path, pattern string, recursive bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		var (
			batch *handlers.TrackBatchResult
			err   error
		)
		switch {
		case handlers.IsDirectory(path):
			batch, err = d.TrackHandler.HandleDirectory(ctx, path, pattern, recursive, nil)
		case handlers.IsGlobPattern(path):
			batch, err = d.TrackHandler.HandleGlob(ctx, path, nil)
		default:
			result, err := d.TrackHandler.HandleFile(ctx, path)
			if err != nil {
				return fmt.Errorf("tracking %s: %w", path, err)
			}
			return printTrackResult(out, result)
		}
		if err != nil {
			return err
		}
		for _, result := range batch.FileResults {
			if err := printTrackResult(out, result); err != nil {
				return err
			}
		}
		for _, err := range batch.Errors {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		fmt.Fprintf(out, "\nTracked %d snapshots, %d changed, %d failed\n",
			batch.TotalFiles, batch.TotalChanged, len(batch.Errors))
		return nil
	})
}

func printTrackResult(w io.Writer, result *handlers.TrackResult) error {
	switch result.Action {
	case entities.ActionCreated:
		_, err := fmt.Fprintf(w, "%s: first version stored\n", result.RecordKey)
		return err
	case entities.ActionUnchanged:
		_, err := fmt.Fprintf(w, "%s: no changes\n", result.RecordKey)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s: version %d, notified %s\n",
		result.RecordKey, result.Version, result.Notify.Message.To); err != nil {
		return err
	}
	return formatDiffText(w, result.Notify.Diff, "  ")
}
