package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"
)

// PageFetcher performs a single GET and returns the page markup
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ContentFetcher fetches pages over HTTP
type ContentFetcher struct {
	client    *http.Client
	userAgent string
}

// NewContentFetcher creates a fetcher using the configured timeout and user agent
func NewContentFetcher(settings HTTPSettings) *ContentFetcher {
	return &ContentFetcher{
		client:    &http.Client{Timeout: settings.Timeout},
		userAgent: settings.UserAgent,
	}
}

// Fetch downloads url and returns its body decoded to UTF-8.
// Non-2xx responses are returned as *HTTPError. There are no retries.
func (f *ContentFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		debugLog("charset detection failed for %s: %v", url, err)
		body = resp.Body
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	debugLog("fetched %s: status=%d bytes=%d", url, resp.StatusCode, len(data))
	return string(data), nil
}
