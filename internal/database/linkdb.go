package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the SQLite database file created inside the data directory.
const dbFileName = "wikicrawl.db"

// LinkDB is the SQLite-backed link store. It holds the visited-link set
// (every link ever accepted, across runs) and the run history.
//
// All mutations go through a single connection, so concurrent TryInsert
// calls from many workers are serialized: exactly one caller observes a
// given link as new.
type LinkDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures LinkDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent reads.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a LinkDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*LinkDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents creating new files when the caller requires an
	// existing database; mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection also makes
	// every insert-and-check pass through one critical section.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ldb := &LinkDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ldb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (ldb *LinkDB) Close() error {
	return ldb.db.Close()
}

// Path returns the path of the underlying database file.
func (ldb *LinkDB) Path() string {
	return ldb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (ldb *LinkDB) createTables() error {
	schema := `
	-- The visited-link set. The UNIQUE constraint on link carries the
	-- dedup semantics; id is an opaque auxiliary identifier.
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		link TEXT NOT NULL UNIQUE
	);

	-- One row per finished crawl run.
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		seed_url TEXT NOT NULL,
		max_depth INTEGER NOT NULL,
		worker_count INTEGER NOT NULL,
		pages_fetched INTEGER NOT NULL,
		fetch_failures INTEGER NOT NULL,
		links_discovered INTEGER NOT NULL,
		total_links INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);
	`

	_, err := ldb.db.ExecContext(context.Background(), schema)
	return err
}

// TryInsert attempts to add a link to the visited set. It returns true iff
// the link was not previously present; false means the set already held it
// and nothing was written. The INSERT OR IGNORE runs as one atomic
// statement, so concurrent calls with the same link yield true to exactly
// one caller.
func (ldb *LinkDB) TryInsert(ctx context.Context, link string) (bool, error) {
	result, err := ldb.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO links (link) VALUES (?)", link)
	if err != nil {
		return false, fmt.Errorf("failed to insert link: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected == 1, nil
}

// ListAll returns every link in the visited set, in insertion order.
func (ldb *LinkDB) ListAll(ctx context.Context) ([]string, error) {
	rows, err := ldb.db.QueryContext(ctx, "SELECT link FROM links ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate links: %w", err)
	}

	return links, nil
}

// Count returns the size of the visited set.
func (ldb *LinkDB) Count(ctx context.Context) (int, error) {
	var count int
	if err := ldb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM links").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count links: %w", err)
	}
	return count, nil
}

// RunRecord is one row of the crawl run history.
type RunRecord struct {
	ID              int64
	RunID           string
	SeedURL         string
	MaxDepth        int
	WorkerCount     int
	PagesFetched    int
	FetchFailures   int
	LinksDiscovered int
	TotalLinks      int
	StartedAt       time.Time
	Duration        time.Duration
}

// InsertRunRecord stores the record of a finished run and returns its row id.
func (ldb *LinkDB) InsertRunRecord(ctx context.Context, record *RunRecord) (int64, error) {
	query := `
	INSERT INTO crawl_runs
		(run_id, seed_url, max_depth, worker_count, pages_fetched, fetch_failures, links_discovered, total_links, started_at, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := ldb.db.ExecContext(ctx, query,
		record.RunID,
		record.SeedURL,
		record.MaxDepth,
		record.WorkerCount,
		record.PagesFetched,
		record.FetchFailures,
		record.LinksDiscovered,
		record.TotalLinks,
		record.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		record.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run record: %w", err)
	}

	return result.LastInsertId()
}

// ListRunRecords returns the run history, newest first. A limit of 0 means
// no limit.
func (ldb *LinkDB) ListRunRecords(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, run_id, seed_url, max_depth, worker_count, pages_fetched, fetch_failures, links_discovered, total_links, started_at, duration_ms
	FROM crawl_runs
	ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := ldb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list run records: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt string
		var durationMS int64
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.SeedURL,
			&rec.MaxDepth,
			&rec.WorkerCount,
			&rec.PagesFetched,
			&rec.FetchFailures,
			&rec.LinksDiscovered,
			&rec.TotalLinks,
			&startedAt,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		rec.StartedAt = parseTimestamp(startedAt)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run records: %w", err)
	}

	return records, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
