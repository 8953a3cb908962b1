package providers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"backgrounder/internal/config"
	"backgrounder/internal/types"
	"backgrounder/internal/websearch"
)

// browserScrapeTimeout bounds one full scrape including navigation and
// lazy-section scrolling. The executor imposes no timeout of its own.
const browserScrapeTimeout = 60 * time.Second

// BrowserProvider scrapes linkedin.com with a headless browser. It is the
// only provider that sees the full profile page; everything else works off
// APIs or search snippets. Requires Chrome/Chromium on the host.
type BrowserProvider struct {
	search   websearch.Client
	email    string
	password string
	headless bool
}

// NewBrowserProvider creates a browser-backed profile provider. Credentials
// are optional; without them only public profile views load.
func NewBrowserProvider(search websearch.Client, settings *config.Settings) *BrowserProvider {
	return &BrowserProvider{
		search:   search,
		email:    settings.LinkedInEmail,
		password: settings.LinkedInPassword,
		headless: settings.BrowserHeadless,
	}
}

// Name implements Provider.
func (p *BrowserProvider) Name() types.Provider {
	return types.ProviderBrowser
}

// FetchProfile implements Provider.
func (p *BrowserProvider) FetchProfile(ctx context.Context, req *types.CheckRequest) (*types.Profile, error) {
	url := req.LinkedInURL
	if url == "" {
		if hit := discoverProfileHit(ctx, p.search, req); hit != nil {
			url = hit.URL
		}
	}
	if url == "" {
		return nil, nil
	}
	return p.scrapeProfile(ctx, url)
}

func (p *BrowserProvider) scrapeProfile(ctx context.Context, url string) (*types.Profile, error) {
	// Strip tracking params that cause redirects
	cleanURL, _, _ := strings.Cut(url, "?")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", p.headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, browserScrapeTimeout)
	defer cancel()

	if p.email != "" && p.password != "" {
		if err := p.login(browserCtx); err != nil {
			log.Printf("[BROWSER] LinkedIn login failed: %v", err)
		}
	}

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(cleanURL),
		chromedp.WaitReady("body"),
		// Let client-side rendering settle before scrolling
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Scroll down to trigger lazy-loaded sections
			for i := 0; i < 5; i++ {
				if err := chromedp.Evaluate(`window.scrollBy(0, 800)`, nil).Do(ctx); err != nil {
					return nil
				}
				_ = chromedp.Sleep(400 * time.Millisecond).Do(ctx)
			}
			_ = chromedp.Evaluate(`window.scrollTo(0, 0)`, nil).Do(ctx)
			return nil
		}),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("browser scrape failed for %s: %w", cleanURL, err)
	}

	log.Printf("[BROWSER] rendered %d bytes for %s", len(html), cleanURL)
	return parseProfileHTML(html, cleanURL)
}

func (p *BrowserProvider) login(ctx context.Context) error {
	return chromedp.Run(ctx,
		chromedp.Navigate("https://www.linkedin.com/login"),
		chromedp.WaitVisible("#username"),
		chromedp.SendKeys("#username", p.email),
		chromedp.SendKeys("#password", p.password),
		chromedp.Click(`button[type="submit"]`),
		chromedp.Sleep(3*time.Second),
	)
}
