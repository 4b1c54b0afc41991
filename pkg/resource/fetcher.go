// Package resource fetches the raw bytes behind a resource reference.
package resource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	stdnet "screenpaint/std/net"
)

// ErrNotFound is returned when a local resource does not exist.
var ErrNotFound = errors.New("resource not found")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, string, error)

func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	return f(ctx, uri)
}

// DefaultFetcher fetches resources over HTTP/HTTPS or from the local file
// system, resolving relative URIs against a base.
type DefaultFetcher struct {
	baseURL string
}

// NewFetcher creates a DefaultFetcher with the given base. The base is
// either an http(s) URL or a directory.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{baseURL: baseURL}
}

// Fetch retrieves the resource at the given URI.
// Relative URIs are resolved against the fetcher's base.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := uri
	if !stdnet.IsNetworkURL(uri) && stdnet.IsNetworkURL(f.baseURL) {
		resolved = stdnet.ResolveURL(f.baseURL, uri)
	}
	if stdnet.IsNetworkURL(resolved) {
		return stdnet.Fetch(ctx, resolved)
	}
	return f.readFile(resolved)
}

func (f *DefaultFetcher) readFile(uri string) ([]byte, string, error) {
	path := strings.TrimPrefix(uri, "file://")
	if !filepath.IsAbs(path) && f.baseURL != "" {
		path = filepath.Join(f.baseURL, path)
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, "", nil
}
