package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <type> <id>",
		Short: "List the tracked versions of a record",
		Long:  "Lists stored versions of a record, newest first, with the changes each version introduced.",
		Args:  cobra.ExactArgs(2),
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		entries, err := d.HistoryHandler.Handle(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "History of %s/%s (%d versions):\n\n", args[0], args[1], len(entries))
		for _, e := range entries {
			fmt.Fprintf(out, "v%d  %s  %s\n", e.Version, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Label)
			if e.Version == 1 {
				fmt.Fprintln(out, "  (first version)")
				continue
			}
			if err := formatDiffText(out, e.Changes, "  "); err != nil {
				return err
			}
		}
		return nil
	})
}
