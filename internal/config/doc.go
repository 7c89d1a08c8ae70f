// Package config provides configuration structures and utilities for
// wikicrawl. It defines the crawl options, the optional .wikicrawl
// YAML file, and validation of the combined result.
package config
