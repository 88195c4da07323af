// Package fetch retrieves raw HTML for the indexer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 10 << 20
	DefaultUserAgent    = "webqa/1.0"
)

// Page is a fetched document.
type Page struct {
	URL      string
	Status   int
	HTML     string
	RenderMS int
}

// Fetcher retrieves the HTML behind a URL. Implementations return a
// *StatusError when the server answers with anything other than 200.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// ErrBadStatus is matched by every *StatusError.
var ErrBadStatus = errors.New("unexpected status")

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: %s %d", e.URL, ErrBadStatus, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrBadStatus }

type FetcherType string

const (
	HTTPFetcherType     FetcherType = "http"
	ChromedpFetcherType FetcherType = "chromedp"
)

// Options tune every fetcher; zero values fall back to the defaults above.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return o
}

func NewFetcher(fetcherType FetcherType, opts Options) (Fetcher, error) {
	opts = opts.withDefaults()
	switch fetcherType {
	case HTTPFetcherType, "":
		return NewHTTPFetcher(opts, nil), nil
	case ChromedpFetcherType:
		return NewChromedpFetcher(opts), nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type %q", fetcherType)
	}
}
