package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTP fetches pages with a plain GET.
type HTTP struct {
	opts   Options
	client *http.Client
}

// NewHTTPFetcher returns an HTTP fetcher. A nil client gets one bounded by opts.Timeout.
func NewHTTPFetcher(opts Options, client *http.Client) *HTTP {
	opts = opts.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTP{opts: opts, client: client}
}

func (f *HTTP) Fetch(ctx context.Context, url string) (Page, error) {
	if strings.TrimSpace(url) == "" {
		return Page{}, fmt.Errorf("invalid url")
	}
	t0 := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Page{URL: url, Status: resp.StatusCode}, &StatusError{URL: url, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}
	return Page{
		URL:      url,
		Status:   resp.StatusCode,
		HTML:     string(body),
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}
