package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// Fetcher retrieves single pages over HTTP.
// It limits how much of a response body is read and rejects responses
// a text crawler cannot use (non-2xx status, bodies that are not UTF-8).
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// NewFetcher creates a new Fetcher with the given HTTP client.
// The client carries the request timeout; pass one configured from the
// crawl settings. A nil client falls back to http.DefaultClient.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	f := &Fetcher{
		client:      client,
		userAgent:   "wikicrawl/1.0 (+https://github.com/nao1215/wikicrawl)",
		maxBodySize: 10 * 1024 * 1024, // 10MB
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the page at pageURL and returns its body.
// Any outcome other than a 2xx response with a UTF-8 body is an error;
// callers treat every error from Fetch as a failed task, so Fetch does
// not distinguish network failures from unusable responses.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %q fetching %s", resp.Status, pageURL)
	}

	bodyReader := io.LimitReader(resp.Body, f.maxBodySize)
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", pageURL, err)
	}

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("body of %s is not valid UTF-8", pageURL)
	}

	return body, nil
}
