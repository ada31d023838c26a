package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/record-tracker/internal/application/handlers"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new tracker",
		Long:  "Creates a .tracker directory with default configuration and the snapshot database.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	result, err := handlers.NewInitHandler(openStore).Handle(cmd.Context(), base)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Created database: %s\n", result.DatabasePath)
	fmt.Fprintln(out, "Tracker initialized successfully!")
	return nil
}
