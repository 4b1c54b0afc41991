package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	f := NewFetcher(dir)
	body, _, err := f.Fetch(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))

	body, _, err = NewFetcher("").Fetch(context.Background(), "file://"+filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))

	_, _, err = f.Fetch(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchResolvesAgainstBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL + "/pages/index.html")
	body, ct, err := f.Fetch(context.Background(), "img/logo.svg")
	require.NoError(t, err)
	assert.Equal(t, "/pages/img/logo.svg", string(body))
	assert.Equal(t, "image/svg+xml", ct)
}

func TestFetcherFunc(t *testing.T) {
	var f Fetcher = FetcherFunc(func(_ context.Context, uri string) ([]byte, string, error) {
		return []byte(uri), "text/plain", nil
	})
	body, _, err := f.Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", string(body))
}
