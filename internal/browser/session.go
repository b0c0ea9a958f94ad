package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/gallerycat/gallerycat/pkg/models"
	"github.com/rs/zerolog/log"
)

// Config carries the browser-environment values built once at startup.
type Config struct {
	ChromePath string
	Headless   bool
	UserAgent  string
	Proxy      string
}

// Ensure Session implements Navigator at compile time.
var _ Navigator = (*Session)(nil)

// Session is a chromedp-backed Navigator. One Session maps to one Chrome
// process; all navigations of an attempt share its single tab.
type Session struct {
	ctx           context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	closeOnce     sync.Once
}

// Launch starts a headless Chrome process and returns a Session bound to
// it. The caller must Close the session on every exit path.
func Launch(cfg Config) (*Session, error) {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(cfg.UserAgent),
	}

	if path := FindChrome(cfg.ChromePath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if cfg.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(cfg.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run an empty task list to start the browser eagerly so launch
	// failures surface here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	log.Debug().Bool("headless", cfg.Headless).Msg("Browser session started")

	return &Session{
		ctx:           browserCtx,
		allocCancel:   allocCancel,
		browserCancel: browserCancel,
	}, nil
}

// Navigate opens url in the session's tab.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	navCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	var statusCode int64

	// Listen for network events to capture the navigation status code. The
	// listener unregisters when navCtx is cancelled.
	chromedp.ListenTarget(navCtx, func(ev interface{}) {
		switch ev := ev.(type) {
		case *network.EventResponseReceived:
			if ev.Type == network.ResourceTypeDocument && statusCode == 0 {
				statusCode = ev.Response.Status
			}
		}
	})

	start := time.Now()
	err := chromedp.Run(navCtx,
		network.Enable(),
		chromedp.Navigate(url),
	)
	if err != nil {
		return nil, &NavigationError{URL: url, Err: err}
	}

	if statusCode >= 400 {
		return nil, &NavigationError{URL: url, StatusCode: int(statusCode)}
	}

	log.Debug().
		Str("url", url).
		Int64("status", statusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Navigation completed")

	return &page{ctx: s.ctx, url: url, status: int(statusCode)}, nil
}

// Close tears down the browser process. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.browserCancel()
		s.allocCancel()
		log.Debug().Msg("Browser session closed")
	})
}

type page struct {
	ctx    context.Context
	url    string
	status int
}

func (p *page) StatusCode() int {
	return p.status
}

func (p *page) WaitReady(ctx context.Context, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	wctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(wctx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		// Non-fatal: the page may already be usable.
		log.Warn().Str("url", p.url).Err(err).Msg("Content readiness wait timed out, proceeding")
	}
}

func (p *page) AutoScroll(ctx context.Context, opts models.ScrollOptions) error {
	if opts.StepPx <= 0 || opts.MaxSteps <= 0 {
		return nil
	}

	for step := 0; step < opts.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		scroll := fmt.Sprintf("window.scrollBy(0, %d)", opts.StepPx)
		if err := chromedp.Run(p.ctx, chromedp.Evaluate(scroll, nil)); err != nil {
			return fmt.Errorf("scroll step failed: %w", err)
		}

		select {
		case <-time.After(opts.Interval):
		case <-ctx.Done():
			return ctx.Err()
		}

		var atBottom bool
		check := "(window.innerHeight + window.pageYOffset) >= document.body.scrollHeight - 2"
		if err := chromedp.Run(p.ctx, chromedp.Evaluate(check, &atBottom)); err != nil {
			return fmt.Errorf("scroll height check failed: %w", err)
		}
		if atBottom {
			log.Debug().Str("url", p.url).Int("steps", step+1).Msg("Auto-scroll reached page bottom")
			return nil
		}
	}

	log.Debug().Str("url", p.url).Int("steps", opts.MaxSteps).Msg("Auto-scroll step bound reached")
	return nil
}

func (p *page) Document(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var htmlContent string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("failed to capture page HTML: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc, nil
}
