package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/record-tracker/internal/application/handlers"
	"github.com/ersonp/record-tracker/internal/domain/entities"
)

func newAuditCmd() *cobra.Command {
	var opts handlers.AuditOptions

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail of tracked changes",
		Long:  "Lists audit entries, newest first, for one record (--record type/id) or one action (--action).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.RecordKey == "" && opts.Action == "" {
				opts.Action = entities.ActionNotified
			}
			return runAudit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.RecordKey, "record", "", "Record key, e.g. profile/42")
	cmd.Flags().StringVarP(&opts.Action, "action", "a", "", "Action: created, unchanged, notified, failed (default notified)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", DefaultAuditLimit, "Maximum number of entries to display")

	return cmd
}

func runAudit(cmd *cobra.Command, opts handlers.AuditOptions) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		entries, err := d.HistoryHandler.HandleAudit(ctx, opts)
		if err != nil {
			return err
		}
		return printAudit(cmd.OutOrStdout(), entries)
	})
}

func printAudit(w io.Writer, entries []entities.AuditEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No audit entries found.")
		return err
	}

	for _, e := range entries {
		details := ""
		if len(e.Details) > 0 {
			data, err := json.Marshal(e.Details)
			if err != nil {
				return fmt.Errorf("marshaling details: %w", err)
			}
			details = " " + string(data)
		}
		if _, err := fmt.Fprintf(w, "%s  %-9s  %s%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.RecordKey, details); err != nil {
			return err
		}
	}
	return nil
}
