// Package corpus talks to the external text corpus, the synonym service and
// arbitrary article pages to find usage examples for a word.
// Everything here is a thin HTTP client; callers treat failures as
// "no examples" rather than errors.
package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 15 * time.Second

	// maxBodySize caps how much of a page is read.
	maxBodySize = 10 * 1024 * 1024
)

// newHTTPClient returns the client used when the caller passes none.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// get fetches rawURL with browser-like headers and returns the body, failing
// on non-200 statuses and bodies larger than maxBodySize.
func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ru;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if resp.ContentLength > maxBodySize {
		return nil, fmt.Errorf("content length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", maxBodySize)
	}
	return body, nil
}
