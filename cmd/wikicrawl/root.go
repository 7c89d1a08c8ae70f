// Package main provides the entry point for the wikicrawl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikicrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikicrawl",
		Short: "Concurrent Wikipedia article crawler",
		Long: `wikicrawl crawls Wikipedia starting from a seed article, following
/wiki/ links up to a configurable depth with a pool of concurrent workers.

Discovered article URLs are recorded in a local SQLite database by default,
so repeated runs extend the same visited set. A Redis backend is available
for sharing the visited set across processes.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewLinksCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
