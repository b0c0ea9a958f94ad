package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gallerycat/gallerycat/internal/browser"
	"github.com/gallerycat/gallerycat/internal/extract"
	"github.com/gallerycat/gallerycat/internal/ratelimit"
	urlutil "github.com/gallerycat/gallerycat/internal/utils/url"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// Collector walks a gallery's pages and accumulates asset records.
type Collector struct {
	maxPages   int
	navTimeout time.Duration
	readyWait  time.Duration
	scroll     models.ScrollOptions
	rules      models.AssetRules
	limiter    *ratelimit.DomainLimiter
}

// NewCollector builds a Collector bounded to maxPages per gallery.
func NewCollector(maxPages int, navTimeout, readyWait time.Duration, scroll models.ScrollOptions, rules models.AssetRules, limiter *ratelimit.DomainLimiter) *Collector {
	return &Collector{
		maxPages:   maxPages,
		navTimeout: navTimeout,
		readyWait:  readyWait,
		scroll:     scroll,
		rules:      rules,
		limiter:    limiter,
	}
}

// Collect visits up to maxPages pages of the gallery at galleryURL and
// returns every asset record found, in page order. Pagination stops early
// when a page answers not-found. A failure on the first page fails the
// whole collection; failures on later pages are logged and that page is
// skipped. progress, when non-nil, is invoked after each collected page.
func (c *Collector) Collect(ctx context.Context, nav browser.Navigator, galleryURL string, progress func(page int)) ([]models.AssetRecord, error) {
	var records []models.AssetRecord

	for pageNum := 1; pageNum <= c.maxPages; pageNum++ {
		pageURL := urlutil.PageURL(galleryURL, pageNum)

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, pageURL); err != nil {
				return records, err
			}
		}

		page, err := nav.Navigate(ctx, pageURL, c.navTimeout)
		if err != nil {
			var navErr *browser.NavigationError
			if errors.As(err, &navErr) && navErr.NotFound() {
				log.Debug().Str("url", pageURL).Int("page", pageNum).Msg("Page not found, pagination exhausted")
				return records, nil
			}
			if pageNum == 1 {
				return nil, fmt.Errorf("gallery navigation failed: %w", err)
			}
			log.Warn().Str("url", pageURL).Int("page", pageNum).Err(err).Msg("Skipping gallery page after navigation failure")
			continue
		}

		page.WaitReady(ctx, c.readyWait)
		if err := page.AutoScroll(ctx, c.scroll); err != nil {
			log.Warn().Str("url", pageURL).Err(err).Msg("Gallery page auto-scroll failed, using content loaded so far")
		}

		doc, err := page.Document(ctx)
		if err != nil {
			if pageNum == 1 {
				return nil, fmt.Errorf("failed to read gallery page: %w", err)
			}
			log.Warn().Str("url", pageURL).Int("page", pageNum).Err(err).Msg("Skipping unreadable gallery page")
			continue
		}

		pageRecords := extract.ExtractAssets(doc, pageURL, c.rules)
		log.Debug().Str("url", pageURL).Int("page", pageNum).Int("assets", len(pageRecords)).Msg("Gallery page collected")
		records = append(records, pageRecords...)

		if progress != nil {
			progress(pageNum)
		}
	}

	return records, nil
}
