// Package report renders crawl results for output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain link-per-line output for terminal display and piping
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and sharing
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
