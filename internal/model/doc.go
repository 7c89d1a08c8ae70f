// Package model defines the core data structures shared across
// wikicrawl.
//
// The main types:
//   - Task: a single (url, depth) unit of crawl work
//   - CrawlResult: the outcome of one complete crawl run
//
// Both are plain data carriers with no behavior beyond construction,
// and CrawlResult is serializable to JSON for report output.
package model
