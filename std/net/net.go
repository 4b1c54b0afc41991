// Package net holds the low level HTTP helpers used to fetch image
// resources.
package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "screenpaint/1.0 (compatible; Go)"

// maxBodySize caps how much of a response is read.
const maxBodySize = 64 << 20

// httpClient is a shared HTTP client with reasonable timeouts.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// StatusError reports a non 2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.Status, e.URL)
}

// Fetch retrieves the content at the given URL via HTTP/HTTPS.
// Returns the response body, content type, and any error.
func Fetch(ctx context.Context, rawURL string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &StatusError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}

	contentType = resp.Header.Get("Content-Type")
	return body, contentType, nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
