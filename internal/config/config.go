package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMaxDepth is the maximum link depth followed from the seed.
	// The seed page sits at depth 1, so the default follows five layers
	// of links beyond it. Wikipedia's link density makes even this
	// default a large crawl; adjust with the --depth CLI flag.
	DefaultMaxDepth = 6

	// DefaultWorkerCount is the number of concurrent crawl workers.
	// Ten workers keep a single site busy without flooding it.
	DefaultWorkerCount = 10

	// DefaultIdleTimeout is how long a worker waits on an empty frontier
	// before concluding the crawl has gone quiet and exiting.
	DefaultIdleTimeout = 5 * time.Second

	// DefaultHTTPTimeout is the timeout for each page fetch, covering
	// connection setup through body read.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent identifies wikicrawl in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "wikicrawl/1.0 (+https://github.com/nao1215/wikicrawl)"

	// DefaultMaxBodySize limits the response body size read per page.
	// 10MB covers even the longest Wikipedia articles while preventing
	// memory exhaustion from unexpected responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultRedisAddr is the conventional local Redis address.
	DefaultRedisAddr = "localhost:6379"

	// AppName is the application name used for XDG directory paths.
	AppName = "wikicrawl"
)

// Store backend names accepted by the --store flag and the config file.
const (
	// StoreBackendSQLite selects the local SQLite link store.
	StoreBackendSQLite = "sqlite"

	// StoreBackendRedis selects the Redis link store.
	StoreBackendRedis = "redis"
)

// DefaultStoreBackend is the link store used when none is selected.
const DefaultStoreBackend = StoreBackendSQLite

// Config holds all configuration options for wikicrawl.
// It is populated from defaults, then the optional config file, then
// CLI flags, and passed through the application by value rather than
// global state.
type Config struct {
	// SeedURL is the page the crawl starts from. It must be an absolute
	// http or https URL; the crawl stays on the seed's host.
	SeedURL string

	// MaxDepth is the maximum link depth followed from the seed.
	// The seed is at depth 1; links found on a page at depth d are
	// enqueued at depth d+1 only while d+1 <= MaxDepth.
	MaxDepth int

	// WorkerCount is the number of concurrent crawl workers.
	WorkerCount int

	// IdleTimeout is how long a worker waits for more work before
	// exiting. It bounds the quiet period at the end of a crawl; raising
	// it only matters on stores slow enough to starve the frontier.
	IdleTimeout time.Duration

	// HTTPTimeout is the per-request timeout for page fetches.
	HTTPTimeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. Set to 0 to use the
	// default (10MB).
	MaxBodySize int64

	// StoreBackend selects the link store: "sqlite" (default) or "redis".
	StoreBackend string

	// RedisAddr is the Redis server address in "host:port" format.
	// Only used when StoreBackend is "redis".
	RedisAddr string

	// DBDir is the directory holding the SQLite database file.
	// When empty, the XDG data directory is used.
	DBDir string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .wikicrawl in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the plain link
	// listing. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the plain
	// link listing. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Summary appends a run summary (pages fetched, failures, elapsed
	// time) after the link listing.
	Summary bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool
}

// NewConfig creates a new Config with default values.
// All fields are set to the package defaults; callers override specific
// values from the config file and CLI flags after creation.
func NewConfig() *Config {
	return &Config{
		MaxDepth:     DefaultMaxDepth,
		WorkerCount:  DefaultWorkerCount,
		IdleTimeout:  DefaultIdleTimeout,
		HTTPTimeout:  DefaultHTTPTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
		StoreBackend: DefaultStoreBackend,
		RedisAddr:    DefaultRedisAddr,
	}
}

// XDGDataDir returns the XDG data directory for wikicrawl.
// On Linux: ~/.local/share/wikicrawl
// On macOS: ~/Library/Application Support/wikicrawl
// On Windows: %LOCALAPPDATA%\wikicrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikicrawl.
// On Linux: ~/.config/wikicrawl
// On macOS: ~/Library/Application Support/wikicrawl
// On Windows: %APPDATA%\wikicrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package sentinel
// errors. It is called once after CLI parsing, before the store is
// opened or any fetching begins.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrSeedURLEmpty
	}
	u, err := url.Parse(c.SeedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrSeedURLInvalid
	}

	if c.MaxDepth < 1 {
		return ErrMaxDepthTooSmall
	}
	if c.WorkerCount <= 0 {
		return ErrWorkerCountTooSmall
	}
	if c.IdleTimeout <= 0 {
		return ErrIdleTimeoutTooSmall
	}
	if c.HTTPTimeout <= 0 {
		return ErrTimeoutTooSmall
	}
	if c.MaxBodySize < 0 {
		return ErrMaxBodySizeNegative
	}

	switch c.StoreBackend {
	case StoreBackendSQLite:
	case StoreBackendRedis:
		if c.RedisAddr == "" {
			return ErrRedisAddrEmpty
		}
	default:
		return ErrUnknownStoreBackend
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
