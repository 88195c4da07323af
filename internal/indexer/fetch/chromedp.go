package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
)

// renderFunc navigates to url and returns the main document's HTTP status
// and, for a 200, the rendered HTML.
type renderFunc func(ctx context.Context, url string) (status int, html string, err error)

// Chromedp renders pages in headless Chrome before reading the DOM, for
// sites that build their paragraphs with JavaScript.
type Chromedp struct {
	opts   Options
	render renderFunc
}

func NewChromedpFetcher(opts Options) *Chromedp {
	f := &Chromedp{opts: opts.withDefaults()}
	f.render = f.renderChrome
	return f
}

func (f *Chromedp) Fetch(ctx context.Context, url string) (Page, error) {
	if strings.TrimSpace(url) == "" {
		return Page{}, fmt.Errorf("invalid url")
	}
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()
	t0 := time.Now()

	status, html, err := f.render(ctx, url)
	if err != nil {
		return Page{}, fmt.Errorf("render %s: %w", url, err)
	}
	if status != http.StatusOK {
		return Page{}, &StatusError{URL: url, Code: status}
	}
	return Page{
		URL:      url,
		Status:   status,
		HTML:     truncateUTF8(html, f.opts.MaxBodyBytes),
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}

func (f *Chromedp) renderChrome(ctx context.Context, url string) (int, string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(f.opts.UserAgent),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	resp, err := chromedp.RunResponse(bctx, chromedp.Navigate(url))
	if err != nil {
		return 0, "", err
	}
	if resp == nil {
		return 0, "", fmt.Errorf("no response for main document")
	}
	if resp.Status != http.StatusOK {
		return int(resp.Status), "", nil
	}

	var html string
	err = chromedp.Run(bctx,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return 0, "", err
	}
	return int(resp.Status), html, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int64) string {
	if n <= 0 || int64(len(s)) <= n {
		return s
	}
	i := int(n)
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}
