package images

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"screenpaint/pkg/resource"
)

// Loader is the default Bridge. It decodes data URIs itself, fetches
// everything else through a resource.Fetcher and caches successful
// results. Failures are not cached, so a later render tries again.
type Loader struct {
	fetcher resource.Fetcher

	mu    sync.RWMutex
	cache map[string]*Bitmap
}

// NewLoader returns a Loader fetching through f.
func NewLoader(f resource.Fetcher) *Loader {
	return &Loader{fetcher: f, cache: make(map[string]*Bitmap)}
}

// Resolve implements Bridge.
func (l *Loader) Resolve(ctx context.Context, ref string) (*Bitmap, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty reference: %w", ErrNotFound)
	}

	l.mu.RLock()
	bm, ok := l.cache[ref]
	l.mu.RUnlock()
	if ok {
		return bm, nil
	}

	bm, err := l.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	Logger().Debug("image loaded", "ref", shorten(ref), "width", bm.Width, "height", bm.Height)

	l.mu.Lock()
	l.cache[ref] = bm
	l.mu.Unlock()
	return bm, nil
}

func (l *Loader) load(ctx context.Context, ref string) (*Bitmap, error) {
	if IsDataURI(ref) {
		return DecodeDataURI(ref)
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("%s: no fetcher configured: %w", ref, ErrNotFound)
	}
	body, contentType, err := l.fetcher.Fetch(ctx, ref)
	if errors.Is(err, resource.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", ref, err)
	}
	bm, err := Decode(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shorten(ref), err)
	}
	return bm, nil
}

// shorten keeps data URIs from flooding logs and errors.
func shorten(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
