// Package main provides the entry point for the tracker CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0-dev"
	globalBase string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Mails the site administrator what changed whenever a record is saved",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalBase, "base", "C", "", "Directory containing .tracker (default: current directory)")

	rootCmd.AddCommand(
		newInitCmd(),
		newDiffCmd(),
		newTrackCmd(),
		newHistoryCmd(),
		newAuditCmd(),
		newWatchCmd(),
	)

	return rootCmd
}

// basePath returns the directory holding the .tracker config directory.
func basePath() (string, error) {
	if globalBase != "" {
		return globalBase, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}
