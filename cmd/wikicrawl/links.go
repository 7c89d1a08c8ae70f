package main

import (
	"fmt"
	"os"

	"github.com/nao1215/wikicrawl/internal/config"
	"github.com/nao1215/wikicrawl/internal/log"
	"github.com/spf13/cobra"
)

// NewLinksCmd creates the links command.
func NewLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Print every link in the visited set",
		Long: `Links prints the visited set accumulated by previous crawl runs,
one URL per line, in store order.

Examples:
  # Print the visited set from the default SQLite store
  wikicrawl links

  # Print the visited set held in Redis
  wikicrawl links --store redis --redis-addr localhost:6379`,
		RunE: runLinksCmd,
	}

	cmd.Flags().String("store", config.DefaultStoreBackend,
		"Link store backend (sqlite or redis)")
	cmd.Flags().String("redis-addr", config.DefaultRedisAddr,
		"Redis server address for the redis store backend")
	cmd.Flags().String("db-dir", "",
		"Directory of the SQLite database (default: XDG data directory)")

	return cmd
}

// runLinksCmd executes the links command.
func runLinksCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStoreConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	ctx := cmd.Context()

	store, _, closer, err := openLinkStore(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	links, err := store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	for _, link := range links {
		fmt.Fprintln(cmd.OutOrStdout(), link)
	}

	return nil
}

// buildStoreConfig creates a Config carrying only the link store settings
// shared by the read-only subcommands.
func buildStoreConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.StoreBackend, err = cmd.Flags().GetString("store")
	if err != nil {
		return nil, err
	}

	cfg.RedisAddr, err = cmd.Flags().GetString("redis-addr")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	switch cfg.StoreBackend {
	case config.StoreBackendSQLite, config.StoreBackendRedis:
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownStoreBackend, cfg.StoreBackend)
	}

	return cfg, nil
}
