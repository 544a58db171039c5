// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher resolves a locator to the raw bytes of an audio asset.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, locator string) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	return f(ctx, locator)
}

// FileFetcher opens plain paths and file:// URLs. Relative paths are
// resolved against Root when it is set.
type FileFetcher struct {
	Root string
}

func (f FileFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(locator, "file://")
	if f.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.Root, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return file, nil
}

// HTTPFetcher downloads http:// and https:// locators.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	return resp.Body, nil
}

// Cache stores fetched asset bytes keyed by locator.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// scheme returns the lower-cased URL scheme of locator, or "file" for plain
// paths. Single letter schemes are Windows drive letters.
func scheme(locator string) string {
	u, err := url.Parse(locator)
	if err != nil || len(u.Scheme) <= 1 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// bytesReadCloser keeps bytes.Reader's Seek visible to decoders.
type bytesReadCloser struct {
	*bytes.Reader
}

func (bytesReadCloser) Close() error { return nil }

func newBytesReadCloser(data []byte) io.ReadCloser {
	return bytesReadCloser{bytes.NewReader(data)}
}
