package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/wikicrawl/internal/frontier"
	"github.com/nao1215/wikicrawl/internal/model"
)

// PageFetcher retrieves the body of a single page.
// Any error means the page is unusable and the task carrying it is
// abandoned.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// LinkExtractor pulls candidate article paths out of page HTML.
type LinkExtractor interface {
	Extract(body []byte) []string
}

// LinkStore is the shared visited set. TryInsert records a link and
// reports whether it was new; the one atomic operation carries both the
// write and the dedup answer, so no check-then-insert race exists.
// Errors from the store are fatal to the run.
type LinkStore interface {
	TryInsert(ctx context.Context, link string) (bool, error)
	ListAll(ctx context.Context) ([]string, error)
}

// Crawler runs a pool of workers over a shared frontier until every
// reachable page within the depth bound has been processed.
type Crawler struct {
	fetcher   PageFetcher
	extractor LinkExtractor
	store     LinkStore
	logger    *slog.Logger

	// maxDepth bounds how deep links are followed. The seed is at
	// depth 1; links found at depth d are enqueued only while d < maxDepth.
	maxDepth int

	// workerCount is the number of concurrent workers.
	workerCount int

	// idleTimeout is how long a worker waits on the empty frontier
	// before exiting.
	idleTimeout time.Duration

	// Run statistics, written by workers.
	pagesFetched    atomic.Int64
	fetchFailures   atomic.Int64
	linksDiscovered atomic.Int64
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxDepth sets the maximum crawl depth. The seed sits at depth 1,
// so a depth of 1 fetches only the seed page.
func WithMaxDepth(depth int) Option {
	return func(c *Crawler) {
		c.maxDepth = depth
	}
}

// WithWorkerCount sets the number of concurrent workers.
func WithWorkerCount(n int) Option {
	return func(c *Crawler) {
		c.workerCount = n
	}
}

// WithIdleTimeout sets how long a worker waits for more work before
// exiting.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		c.idleTimeout = d
	}
}

// WithLogger sets the logger for crawl progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler over the given fetcher, extractor, and store.
func New(fetcher PageFetcher, extractor LinkExtractor, store LinkStore, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:     fetcher,
		extractor:   extractor,
		store:       store,
		logger:      slog.Default(),
		maxDepth:    6,
		workerCount: 10,
		idleTimeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Run crawls from seedURL until the frontier drains and returns the
// full visited set with run statistics.
//
// The seed is recorded in the store like any discovered link, but its
// freshness is ignored: a seed already present from an earlier run is
// crawled again, and its links simply dedup against the store.
//
// Canceling ctx aborts in-flight fetches; the affected tasks take the
// fetch-failure path, the frontier drains, and Run returns the partial
// set gathered so far.
func (c *Crawler) Run(ctx context.Context, seedURL string) (*model.CrawlResult, error) {
	seed, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}
	if (seed.Scheme != "http" && seed.Scheme != "https") || seed.Host == "" {
		return nil, fmt.Errorf("invalid seed URL %q: must be an absolute http(s) URL", seedURL)
	}
	base := seed.Scheme + "://" + seed.Host

	result := model.NewCrawlResult(seedURL)
	result.BaseURL = base
	result.MaxDepth = c.maxDepth
	result.WorkerCount = c.workerCount

	c.pagesFetched.Store(0)
	c.fetchFailures.Store(0)
	c.linksDiscovered.Store(0)

	if _, err := c.store.TryInsert(ctx, seedURL); err != nil {
		return nil, fmt.Errorf("failed to record seed link: %w", err)
	}

	q := frontier.NewQueue()
	q.Submit(model.NewTask(seedURL, 1))

	c.logger.Info("crawl started",
		"seed", seedURL,
		"base", base,
		"depth", c.maxDepth,
		"workers", c.workerCount,
	)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workerCount; i++ {
		g.Go(func() error {
			return c.worker(gctx, q, base)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Every worker exited on idle timeout, so the frontier must be
	// drained by now; Wait asserts that and returns immediately.
	q.Wait()

	links, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list crawled links: %w", err)
	}

	result.Links = links
	result.PagesFetched = int(c.pagesFetched.Load())
	result.FetchFailures = int(c.fetchFailures.Load())
	result.LinksDiscovered = int(c.linksDiscovered.Load())
	result.Elapsed = time.Since(result.StartedAt)

	c.logger.Info("crawl finished",
		"pages", result.PagesFetched,
		"failures", result.FetchFailures,
		"new_links", result.LinksDiscovered,
		"total_links", result.TotalLinks(),
		"elapsed", result.Elapsed,
	)

	return result, nil
}

// worker loops taking tasks until the frontier stays empty for the idle
// timeout. Every taken task is marked done exactly once, whether the
// page was crawled, abandoned, or aborted by a store failure.
func (c *Crawler) worker(ctx context.Context, q *frontier.Queue, base string) error {
	for {
		task, ok := q.Take(c.idleTimeout)
		if !ok {
			return nil
		}

		err := c.crawl(ctx, q, base, task)
		q.MarkDone()
		if err != nil {
			return err
		}
	}
}

// crawl processes a single task. The returned error is fatal to the
// run; fetch failures are absorbed here and only surface in the debug
// log and the failure counter.
func (c *Crawler) crawl(ctx context.Context, q *frontier.Queue, base string, task model.Task) error {
	body, err := c.fetcher.Fetch(ctx, task.URL)
	if err != nil {
		c.fetchFailures.Add(1)
		c.logger.Debug("page fetch failed", "url", task.URL, "depth", task.Depth, "error", err)
		return nil
	}
	c.pagesFetched.Add(1)

	for _, path := range c.extractor.Extract(body) {
		link := base + path

		fresh, err := c.store.TryInsert(ctx, link)
		if err != nil {
			return fmt.Errorf("failed to record link %s: %w", link, err)
		}
		if !fresh {
			continue
		}
		c.linksDiscovered.Add(1)

		if task.Depth < c.maxDepth {
			q.Submit(model.NewTask(link, task.Depth+1))
			c.logger.Debug("link enqueued", "url", link, "depth", task.Depth+1)
		}
	}

	return nil
}
