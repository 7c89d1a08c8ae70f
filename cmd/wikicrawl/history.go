package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/nao1215/wikicrawl/internal/config"
	"github.com/nao1215/wikicrawl/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the crawl run history",
		Long: `History lists previous crawl runs recorded in the SQLite database,
newest first.

Examples:
  # Show the last 10 runs
  wikicrawl history

  # Show the last 3 runs
  wikicrawl history -n 3

  # Show every recorded run
  wikicrawl history -n 0`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to show (0 shows all)")
	cmd.Flags().String("db-dir", "",
		"Directory of the SQLite database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (run a crawl first): %w", err)
	}
	defer db.Close()

	records, err := db.ListRunRecords(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list run records: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSEED\tDEPTH\tWORKERS\tFETCHED\tFAILED\tNEW\tTOTAL\tDURATION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.SeedURL,
			rec.MaxDepth,
			rec.WorkerCount,
			rec.PagesFetched,
			rec.FetchFailures,
			rec.LinksDiscovered,
			rec.TotalLinks,
			rec.Duration.Round(time.Millisecond),
		)
	}

	return w.Flush()
}
