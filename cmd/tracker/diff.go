package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/record-tracker/internal/infrastructure/parsers"
)

func newDiffCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show the formatted differences between two snapshots",
		Long:  "Compares two record snapshot files (JSON or YAML) and prints the changed fields as they would appear in a notification. Nothing is mailed or stored.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath, format string) error {
	if !isValidFormat(format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", format, validFormats)
	}

	oldRecord, err := parsers.ParseFile(oldPath)
	if err != nil {
		return err
	}
	newRecord, err := parsers.ParseFile(newPath)
	if err != nil {
		return err
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		diff := d.TrackHandler.HandleDiff(cmd.Context(), oldRecord, newRecord)
		return formatDiff(cmd.OutOrStdout(), diff, format)
	})
}
