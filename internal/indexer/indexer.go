// Package indexer fetches a page, extracts its paragraph text and stores
// the first sentences under the page URL.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/webqa/config"
	"github.com/mohammad-safakhou/webqa/internal/index"
	"github.com/mohammad-safakhou/webqa/internal/indexer/extract"
	"github.com/mohammad-safakhou/webqa/internal/indexer/fetch"
	"github.com/mohammad-safakhou/webqa/internal/indexer/segment"
	"go.uber.org/zap"
)

const (
	DefaultMaxSentences = 100

	MsgIndexed     = "Indexing successful!"
	MsgFetchFailed = "Failed to fetch the URL."
)

var (
	// ErrFetchFailed wraps non-200 responses; its text is what callers see.
	ErrFetchFailed = errors.New(MsgFetchFailed)
	ErrHostBlocked = errors.New("URL host is not permitted by the indexer host policy.")
	ErrEmptyURL    = errors.New("url is required")
)

type Result struct {
	URL       string
	Sentences int
	Chars     int
}

type Indexer struct {
	Fetcher      fetch.Fetcher
	Extractor    extract.Extractor
	Store        index.Store
	MaxSentences int
	HostPolicy   config.HostPolicyConfig
	Logger       *zap.Logger
	// ObserveFetch, when set, receives the duration of every fetch.
	ObserveFetch func(time.Duration)
}

// New wires an indexer from configuration.
func New(cfg config.IndexerConfig, store index.Store, logger *zap.Logger) (*Indexer, error) {
	f, err := fetch.NewFetcher(fetch.FetcherType(cfg.Fetcher), fetch.Options{
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	if err != nil {
		return nil, err
	}
	ex, err := extract.NewExtractor(extract.ExtractorType(cfg.Extractor))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		Fetcher:      f,
		Extractor:    ex,
		Store:        store,
		MaxSentences: cfg.MaxSentences,
		HostPolicy:   cfg.HostPolicy,
		Logger:       logger,
	}, nil
}

// Index fetches url and overwrites its stored text. On any failure the
// stored entry for url is left untouched.
func (ix *Indexer) Index(ctx context.Context, url string) (Result, error) {
	if url == "" {
		return Result{}, ErrEmptyURL
	}
	if !ix.HostPolicy.Permits(url) {
		return Result{}, ErrHostBlocked
	}

	t0 := time.Now()
	page, err := ix.Fetcher.Fetch(ctx, url)
	if ix.ObserveFetch != nil {
		ix.ObserveFetch(time.Since(t0))
	}
	if errors.Is(err, fetch.ErrBadStatus) {
		ix.logger().Info("fetch returned non-200", zap.String("url", url), zap.Error(err))
		return Result{}, fmt.Errorf("%w (%v)", ErrFetchFailed, err)
	}
	if err != nil {
		return Result{}, err
	}

	text, err := ix.Extractor.Extract(page.HTML, url)
	if err != nil {
		return Result{}, err
	}
	sents, err := segment.Sentences(text)
	if err != nil {
		return Result{}, err
	}
	limit := ix.MaxSentences
	if limit <= 0 {
		limit = DefaultMaxSentences
	}
	kept := segment.Truncate(sents, limit)
	joined := segment.Join(kept)

	if err := ix.Store.Put(ctx, url, joined); err != nil {
		return Result{}, fmt.Errorf("persist index: %w", err)
	}
	ix.logger().Info("indexed url",
		zap.String("url", url),
		zap.Int("sentences", len(kept)),
		zap.Int("sentences_dropped", len(sents)-len(kept)),
		zap.Int("render_ms", page.RenderMS),
	)
	return Result{URL: url, Sentences: len(kept), Chars: len(joined)}, nil
}

func (ix *Indexer) logger() *zap.Logger {
	if ix.Logger == nil {
		return zap.NewNop()
	}
	return ix.Logger
}
