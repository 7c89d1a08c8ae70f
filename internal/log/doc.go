// Package log provides crawl-friendly logging built on top of the
// standard slog package.
//
// A crawler's debug output quotes pages, URLs, and extracted link sets,
// and any of those can run to thousands of characters. This package
// extends slog to provide:
//   - Automatic trimming of oversized attribute values
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Trimming
//
// The TrimHandler shortens string attribute values longer than
// MaxAttrLen, keeping the head of the value and appending a marker with
// the number of elided bytes. Keys, messages, and non-string values
// pass through untouched, so counters and durations stay exact.
//
// # Usage
//
//	// Create a logger (verbose=true enables debug output)
//	logger := log.NewLogger(os.Stderr, true)
//
//	// Use as a standard slog.Logger
//	logger.Debug("page fetched",
//	    "url", "https://en.wikipedia.org/wiki/Go_(programming_language)",
//	    "body", string(body), // trimmed if longer than MaxAttrLen
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
