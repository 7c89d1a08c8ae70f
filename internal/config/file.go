package config

import (
	"fmt"
	"time"
)

// File represents the structure of the .wikicrawl configuration file.
// Every key is optional; a key that is absent (or zero) leaves the
// corresponding Config field untouched, so the file only needs to name
// the settings it changes. Durations are written as Go duration strings
// ("5s", "1m30s").
type File struct {
	// Depth overrides the maximum crawl depth.
	Depth int `yaml:"depth,omitempty"`

	// Workers overrides the number of concurrent crawl workers.
	Workers int `yaml:"workers,omitempty"`

	// IdleTimeout overrides how long a worker waits on an empty frontier
	// before exiting.
	IdleTimeout string `yaml:"idleTimeout,omitempty"`

	// Timeout overrides the per-request HTTP timeout.
	Timeout string `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header sent with requests.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Store overrides the link store backend ("sqlite" or "redis").
	Store string `yaml:"store,omitempty"`

	// RedisAddr overrides the Redis server address.
	RedisAddr string `yaml:"redisAddr,omitempty"`

	// DBDir overrides the directory holding the SQLite database file.
	DBDir string `yaml:"dbDir,omitempty"`
}

// Apply copies the file's non-zero settings onto cfg.
// CLI flags are applied after this, so the precedence is
// defaults < config file < flags.
func (f *File) Apply(cfg *Config) error {
	if f.Depth != 0 {
		cfg.MaxDepth = f.Depth
	}
	if f.Workers != 0 {
		cfg.WorkerCount = f.Workers
	}
	if f.IdleTimeout != "" {
		d, err := time.ParseDuration(f.IdleTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse idleTimeout: %w", err)
		}
		cfg.IdleTimeout = d
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("failed to parse timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Store != "" {
		cfg.StoreBackend = f.Store
	}
	if f.RedisAddr != "" {
		cfg.RedisAddr = f.RedisAddr
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	return nil
}
