package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration. Callers can
// match them with errors.Is() while still printing a readable message.
var (
	// ErrSeedURLEmpty is returned when no seed URL is specified.
	// The crawl has nowhere to start without one.
	ErrSeedURLEmpty = errors.New("no seed URL specified")

	// ErrSeedURLInvalid is returned when the seed URL does not parse as an
	// absolute http or https URL with a host.
	ErrSeedURLInvalid = errors.New("invalid seed URL: must be an absolute http(s) URL")

	// ErrMaxDepthTooSmall is returned when the crawl depth is below 1.
	// The seed itself sits at depth 1, so anything smaller fetches nothing.
	ErrMaxDepthTooSmall = errors.New("invalid depth: must be at least 1")

	// ErrWorkerCountTooSmall is returned when the worker count is not positive.
	// Zero workers would leave every submitted task unfetched forever.
	ErrWorkerCountTooSmall = errors.New("invalid worker count: must be positive")

	// ErrIdleTimeoutTooSmall is returned when the idle timeout is not positive.
	// Workers use it to decide the frontier has gone quiet; zero would make
	// them exit before the seed is even submitted.
	ErrIdleTimeoutTooSmall = errors.New("invalid idle timeout: must be positive")

	// ErrTimeoutTooSmall is returned when the HTTP timeout is not positive.
	// A zero timeout would cause immediate request failures.
	ErrTimeoutTooSmall = errors.New("invalid timeout: must be positive")

	// ErrMaxBodySizeNegative is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrMaxBodySizeNegative = errors.New("invalid max body size: must be non-negative")

	// ErrUnknownStoreBackend is returned when the store backend is neither
	// "sqlite" nor "redis".
	ErrUnknownStoreBackend = errors.New("unknown store backend: must be \"sqlite\" or \"redis\"")

	// ErrRedisAddrEmpty is returned when the redis backend is selected
	// without an address to connect to.
	ErrRedisAddrEmpty = errors.New("no redis address specified for the redis store backend")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
