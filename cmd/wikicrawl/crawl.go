package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/wikicrawl/internal/config"
	"github.com/nao1215/wikicrawl/internal/crawler"
	"github.com/nao1215/wikicrawl/internal/database"
	"github.com/nao1215/wikicrawl/internal/log"
	"github.com/nao1215/wikicrawl/internal/model"
	"github.com/nao1215/wikicrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-url]",
		Short: "Crawl Wikipedia starting from a seed article",
		Long: `Crawl fetches the seed article, extracts /wiki/ links from its body
content, and follows them up to the configured depth with a pool of
concurrent workers.

Namespaced pages (Help:, File:, Special:, ...) are skipped. Every accepted
link is recorded in the link store exactly once; pages within the depth
bound are fetched and expanded in turn. The run ends when no work remains,
and the full visited set is printed one URL per line.

Examples:
  # Crawl with defaults (depth 6, 10 workers, SQLite store)
  wikicrawl crawl https://en.wikipedia.org/wiki/Go_(programming_language)

  # Shallow crawl with more workers
  wikicrawl crawl -d 2 -w 32 https://en.wikipedia.org/wiki/Concurrency

  # Share the visited set through Redis
  wikicrawl crawl --store redis --redis-addr localhost:6379 https://en.wikipedia.org/wiki/Go

  # Markdown report written to a file
  wikicrawl crawl -m -o report.md https://en.wikipedia.org/wiki/Go

Configuration file (.wikicrawl) example:
  depth: 3
  workers: 16
  idleTimeout: 10s
  userAgent: "my-crawler/1.0"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum crawl recursion depth (the seed is depth 1)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkerCount,
		"Number of concurrent crawl workers")
	cmd.Flags().DurationP("idle-timeout", "i", config.DefaultIdleTimeout,
		"How long an idle worker waits for new work before exiting")
	cmd.Flags().DurationP("timeout", "t", config.DefaultHTTPTimeout,
		"HTTP timeout for each page fetch")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")

	// Link store flags
	cmd.Flags().String("store", config.DefaultStoreBackend,
		"Link store backend (sqlite or redis)")
	cmd.Flags().String("redis-addr", config.DefaultRedisAddr,
		"Redis server address for the redis store backend")
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikicrawl in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("summary", false,
		"Append a run summary to the plain-text report")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags and the optional config file
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Explicit flags override file values, which override
// the built-in defaults.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Apply the config file before reading flags so explicit flags win.
	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently keep the defaults when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Flags the user set on the command line override file values.
	if cmd.Flags().Changed("depth") {
		if cfg.MaxDepth, err = cmd.Flags().GetInt("depth"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("workers") {
		if cfg.WorkerCount, err = cmd.Flags().GetInt("workers"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("idle-timeout") {
		if cfg.IdleTimeout, err = cmd.Flags().GetDuration("idle-timeout"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		if cfg.HTTPTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("store") {
		if cfg.StoreBackend, err = cmd.Flags().GetString("store"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("redis-addr") {
		if cfg.RedisAddr, err = cmd.Flags().GetString("redis-addr"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("db-dir") {
		if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
			return nil, err
		}
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	// Report flags have no config file counterpart
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Summary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seed", cfg.SeedURL,
		"depth", cfg.MaxDepth,
		"workers", cfg.WorkerCount,
		"store", cfg.StoreBackend,
	)

	// Open the configured link store
	store, db, closer, err := openLinkStore(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	fetcher := crawler.NewFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	c := crawler.New(fetcher, crawler.NewExtractor(), store,
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithWorkerCount(cfg.WorkerCount),
		crawler.WithIdleTimeout(cfg.IdleTimeout),
		crawler.WithLogger(logger),
	)

	// Progress goes to stderr; stdout carries only the report
	fmt.Fprintf(os.Stderr, "Crawling %s...\n", cfg.SeedURL)

	result, err := c.Run(ctx, cfg.SeedURL)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Crawl completed in %s: %d pages fetched, %d links recorded\n\n",
		result.Elapsed.Round(time.Millisecond), result.PagesFetched, result.TotalLinks())

	// Record the run in the history table
	if err := saveRunRecord(ctx, db, result, logger); err != nil {
		logger.Error("failed to save run record", "error", err)
	}

	return outputReport(cfg, result)
}

// openLinkStore opens the link store selected by the configuration.
// The returned LinkDB is nil for backends without a run history table.
// When create is false, a missing SQLite database is an error rather
// than an empty store.
func openLinkStore(ctx context.Context, cfg *config.Config, create bool, logger *slog.Logger) (crawler.LinkStore, *database.LinkDB, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendRedis:
		rs := database.NewRedisStore(cfg.RedisAddr)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close() //nolint:errcheck // Best effort cleanup
			return nil, nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("redis store connected", "addr", cfg.RedisAddr)
		return rs, nil, rs, nil
	default:
		opts := database.DefaultOptions()
		opts.CreateIfNotExists = create
		db, err := database.Open(cfg.DBDir, opts)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Info("database opened", "dir", cfg.DBDir)
		return db, db, db, nil
	}
}

// saveRunRecord stores the history row for a finished run.
// If db is nil, this function is a no-op.
func saveRunRecord(ctx context.Context, db *database.LinkDB, result *model.CrawlResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	record := &database.RunRecord{
		RunID:           result.RunID,
		SeedURL:         result.SeedURL,
		MaxDepth:        result.MaxDepth,
		WorkerCount:     result.WorkerCount,
		PagesFetched:    result.PagesFetched,
		FetchFailures:   result.FetchFailures,
		LinksDiscovered: result.LinksDiscovered,
		TotalLinks:      result.TotalLinks(),
		StartedAt:       result.StartedAt,
		Duration:        result.Elapsed,
	}

	if _, err := db.InsertRunRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	logger.Info("run record saved", "runID", result.RunID)
	return nil
}

// outputReport outputs the crawl result in the requested format.
func outputReport(cfg *config.Config, result *model.CrawlResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithSummary(cfg.Summary))
	}

	if _, err := writer.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
