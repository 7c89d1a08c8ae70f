package model

import (
	"time"

	"github.com/google/uuid"
)

// CrawlResult is the outcome of one complete crawl run.
// It carries the run configuration, timing, counters collected while the
// workers were running, and the final visited set from the link store.
type CrawlResult struct {
	// RunID uniquely identifies this run. It is generated at construction
	// and also recorded in the run history table.
	RunID string `json:"run_id"`

	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// BaseURL is the scheme://host prefix derived from the seed.
	// All discovered relative paths are resolved against it.
	BaseURL string `json:"base_url"`

	// MaxDepth is the configured depth bound for this run.
	MaxDepth int `json:"max_depth"`

	// WorkerCount is the number of workers that served this run.
	WorkerCount int `json:"worker_count"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`

	// PagesFetched counts pages fetched successfully.
	PagesFetched int `json:"pages_fetched"`

	// FetchFailures counts tasks abandoned because their fetch failed.
	FetchFailures int `json:"fetch_failures"`

	// LinksDiscovered counts links newly inserted into the store by this
	// run. On a warm store this is smaller than the size of Links.
	LinksDiscovered int `json:"links_discovered"`

	// Links is the full visited set at the end of the run, in store order.
	Links []string `json:"links"`
}

// NewCrawlResult creates a CrawlResult for a run starting now, with a fresh
// run ID. Counters are filled in by the crawler as the run progresses.
func NewCrawlResult(seedURL string) *CrawlResult {
	return &CrawlResult{
		RunID:     uuid.NewString(),
		SeedURL:   seedURL,
		StartedAt: time.Now(),
	}
}

// TotalLinks returns the size of the final visited set.
func (r *CrawlResult) TotalLinks() int {
	return len(r.Links)
}
