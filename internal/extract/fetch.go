package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// maxFetchBytes caps downloaded media size (256 MiB).
const maxFetchBytes = 256 << 20

// fetcher downloads media over HTTP with a bounded timeout.
type fetcher struct {
	client *http.Client
}

func newFetcher(timeout time.Duration) *fetcher {
	return &fetcher{client: &http.Client{Timeout: timeout}}
}

// fetchBytes downloads a URL into memory.
func (f *fetcher) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := f.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// fetchToFile downloads a URL into the given file path.
func (f *fetcher) fetchToFile(ctx context.Context, url, path string) error {
	body, err := f.open(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(body, maxFetchBytes)); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

func (f *fetcher) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}
