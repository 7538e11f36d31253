package banks

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const renderTimeout = 60 * time.Second

// fetchRendered snapshots the page HTML through a headless browser. Used
// when fetch_mode is "rendered", for source pages that build the table with
// client-side scripts.
func (s *Scraper) fetchRendered(ctx context.Context) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(s.cfg.URL),
		chromedp.WaitReady("tbody", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("extract: rendered fetch %s: %w", s.cfg.URL, err)
	}
	return html, nil
}
