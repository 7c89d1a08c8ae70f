// Package main provides the entry point for the wikicrawl CLI.
//
// wikicrawl is a concurrent Wikipedia crawler. Starting from a seed
// article it follows /wiki/ links up to a configurable depth and records
// every discovered article URL in a local link store.
//
// Usage:
//
//	wikicrawl crawl <seed-url>
//
// See --help for all available options.
package main

// main is the entry point for wikicrawl.
func main() {
	Execute()
}
