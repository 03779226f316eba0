// Package fetch downloads schedule archives over HTTP with bounded
// size and time.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 60 * time.Second
	DefaultMaxSize = 800 << 20 // 800 MB
)

type Options struct {
	Timeout time.Duration
	MaxSize int
	Headers map[string]string
}

// Get fetches url, failing on non-200 responses and on bodies
// larger than MaxSize.
func Get(ctx context.Context, url string, options Options) ([]byte, error) {
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}
	if options.MaxSize <= 0 {
		options.MaxSize = DefaultMaxSize
	}

	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range options.Headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(options.MaxSize)+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if len(body) > options.MaxSize {
		return nil, fmt.Errorf("response exceeds %d bytes", options.MaxSize)
	}

	return body, nil
}
