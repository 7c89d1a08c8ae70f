package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *LinkDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "wikicrawl.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "nonexistent-db")

		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error when CreateIfNotExists=false and database does not exist")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected error to mention missing database, got %q", err.Error())
		}

		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "existing-db")

		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		if err := db1.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		defer db2.Close()
	})
}

// TestLinkDBTryInsert tests the atomic insert-and-check.
func TestLinkDBTryInsert(t *testing.T) {
	t.Parallel()

	t.Run("first insert reports new", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		fresh, err := db.TryInsert(ctx, "https://en.wikipedia.org/wiki/Go")
		if err != nil {
			t.Fatalf("TryInsert failed: %v", err)
		}
		if !fresh {
			t.Error("expected first insert to report new")
		}
	})

	t.Run("second insert reports already present", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		if _, err := db.TryInsert(ctx, "https://en.wikipedia.org/wiki/Go"); err != nil {
			t.Fatalf("TryInsert failed: %v", err)
		}
		fresh, err := db.TryInsert(ctx, "https://en.wikipedia.org/wiki/Go")
		if err != nil {
			t.Fatalf("TryInsert failed: %v", err)
		}
		if fresh {
			t.Error("expected duplicate insert to report already present")
		}

		count, err := db.Count(ctx)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 stored link, got %d", count)
		}
	})

	t.Run("dedup survives reopen", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		ctx := context.Background()

		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db1.TryInsert(ctx, "https://en.wikipedia.org/wiki/Go"); err != nil {
			t.Fatalf("TryInsert failed: %v", err)
		}
		if err := db1.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		db2, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer db2.Close()

		fresh, err := db2.TryInsert(ctx, "https://en.wikipedia.org/wiki/Go")
		if err != nil {
			t.Fatalf("TryInsert failed: %v", err)
		}
		if fresh {
			t.Error("expected link inserted before reopen to report already present")
		}
	})

	t.Run("concurrent inserts of the same link report new exactly once", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		const callers = 20
		results := make(chan bool, callers)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fresh, err := db.TryInsert(ctx, "https://en.wikipedia.org/wiki/Race")
				if err != nil {
					t.Errorf("TryInsert failed: %v", err)
					return
				}
				results <- fresh
			}()
		}
		wg.Wait()
		close(results)

		freshCount := 0
		for fresh := range results {
			if fresh {
				freshCount++
			}
		}
		if freshCount != 1 {
			t.Errorf("expected exactly one caller to observe a new link, got %d", freshCount)
		}
	})
}

// TestLinkDBListAll tests visited-set listing.
func TestLinkDBListAll(t *testing.T) {
	t.Parallel()

	t.Run("empty store lists nothing", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		links, err := db.ListAll(context.Background())
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(links) != 0 {
			t.Errorf("expected empty list, got %v", links)
		}
	})

	t.Run("lists links in insertion order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		want := []string{
			"https://en.wikipedia.org/wiki/Go",
			"https://en.wikipedia.org/wiki/Gopher",
			"https://en.wikipedia.org/wiki/Garden",
		}
		for _, link := range want {
			if _, err := db.TryInsert(ctx, link); err != nil {
				t.Fatalf("TryInsert(%q) failed: %v", link, err)
			}
		}

		got, err := db.ListAll(ctx)
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d links, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("link %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})
}

// TestLinkDBRunRecords tests run history persistence.
func TestLinkDBRunRecords(t *testing.T) {
	t.Parallel()

	t.Run("insert and list round-trip", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		record := &RunRecord{
			RunID:           "f2c5ad73-1fd4-4b53-9c0e-9f2f4ed5f962",
			SeedURL:         "https://en.wikipedia.org/wiki/Go",
			MaxDepth:        6,
			WorkerCount:     10,
			PagesFetched:    42,
			FetchFailures:   3,
			LinksDiscovered: 120,
			TotalLinks:      128,
			StartedAt:       time.Date(2025, 11, 4, 12, 30, 0, 0, time.UTC),
			Duration:        90 * time.Second,
		}

		id, err := db.InsertRunRecord(ctx, record)
		if err != nil {
			t.Fatalf("InsertRunRecord failed: %v", err)
		}
		if id == 0 {
			t.Error("expected non-zero row id")
		}

		records, err := db.ListRunRecords(ctx, 0)
		if err != nil {
			t.Fatalf("ListRunRecords failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}

		got := records[0]
		if got.RunID != record.RunID {
			t.Errorf("expected run ID %q, got %q", record.RunID, got.RunID)
		}
		if got.SeedURL != record.SeedURL {
			t.Errorf("expected seed URL %q, got %q", record.SeedURL, got.SeedURL)
		}
		if got.PagesFetched != record.PagesFetched {
			t.Errorf("expected %d pages fetched, got %d", record.PagesFetched, got.PagesFetched)
		}
		if got.Duration != record.Duration {
			t.Errorf("expected duration %v, got %v", record.Duration, got.Duration)
		}
		if !got.StartedAt.Equal(record.StartedAt) {
			t.Errorf("expected start time %v, got %v", record.StartedAt, got.StartedAt)
		}
	})

	t.Run("lists newest first with limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		for i, runID := range []string{"run-a", "run-b", "run-c"} {
			record := &RunRecord{
				RunID:     runID,
				SeedURL:   "https://en.wikipedia.org/wiki/Go",
				MaxDepth:  6,
				StartedAt: time.Date(2025, 11, 4, 12, i, 0, 0, time.UTC),
			}
			if _, err := db.InsertRunRecord(ctx, record); err != nil {
				t.Fatalf("InsertRunRecord(%q) failed: %v", runID, err)
			}
		}

		records, err := db.ListRunRecords(ctx, 2)
		if err != nil {
			t.Fatalf("ListRunRecords failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].RunID != "run-c" || records[1].RunID != "run-b" {
			t.Errorf("expected newest-first order, got %q then %q", records[0].RunID, records[1].RunID)
		}
	})
}
