// Package crawler provides concurrent bounded-depth crawling of a
// single wiki site.
//
// # Architecture
//
// The package is built around the Crawler type, which coordinates a
// pool of workers over a shared frontier queue. Each worker repeats one
// loop: take a task, fetch the page, extract article links, record new
// links in the store, enqueue them one level deeper, and mark the task
// done. A worker exits once the frontier stays empty for a full idle
// timeout, which can only happen after every reachable page within the
// depth bound has been processed.
//
// # Components
//
//   - Crawler: runs the worker pool and assembles the crawl result
//   - Fetcher: HTTP page retrieval with size and time limits
//   - Extractor: pulls article paths out of page HTML
//   - LinkStore: the shared visited set (SQLite or Redis backed)
//
// # Termination
//
// Completion is decided by the frontier's pending and in-flight
// counters, not by the worker timeouts alone: a worker waiting on an
// empty queue may still receive tasks from a page another worker is
// fetching. The queue's Wait method defines the drained state; the
// coordinator asserts it after the pool joins.
//
// # Usage
//
//	c := crawler.New(fetcher, extractor, store, crawler.WithMaxDepth(3))
//	result, err := c.Run(ctx, "https://en.wikipedia.org/wiki/Go_(programming_language)")
package crawler
