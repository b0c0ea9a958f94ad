// Package scrape coordinates a full gallery scrape: cache lookup, search
// resolution, paginated collection, deduplication, catalog numbering, and
// the cache write-back.
package scrape

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/gallerycat/gallerycat/internal/browser"
	"github.com/gallerycat/gallerycat/internal/extract"
	"github.com/gallerycat/gallerycat/internal/gallery"
	"github.com/gallerycat/gallerycat/internal/store"
	urlutil "github.com/gallerycat/gallerycat/internal/utils/url"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// SessionFactory creates a fresh browser session for one scrape attempt.
type SessionFactory func(ctx context.Context) (browser.Navigator, error)

// Orchestrator runs end-to-end scrapes against a durable catalog store.
type Orchestrator struct {
	store       store.Store
	sessions    SessionFactory
	resolver    *gallery.Resolver
	collector   *gallery.Collector
	maxAttempts int
	flight      singleflight.Group
}

// New builds an Orchestrator. maxAttempts bounds how many times the whole
// search-resolve-collect sequence is rerun before the result is recorded
// as empty.
func New(st store.Store, sessions SessionFactory, resolver *gallery.Resolver, collector *gallery.Collector, maxAttempts int) *Orchestrator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Orchestrator{
		store:       st,
		sessions:    sessions,
		resolver:    resolver,
		collector:   collector,
		maxAttempts: maxAttempts,
	}
}

// Run produces the numbered asset catalog for the index-th gallery found
// when searching term. Cached results, including cached empty results, are
// served without touching the network. Concurrent calls for the same
// (term, index) share a single scrape.
func (o *Orchestrator) Run(ctx context.Context, term string, index int, progress func(page int)) (*models.ScrapeResult, error) {
	if index < 1 {
		return nil, &gallery.InvalidIndexError{Requested: index}
	}

	entries, ok, err := o.store.Get(term, index)
	if err != nil {
		log.Warn().Str("term", term).Int("index", index).Err(err).Msg("Cache read failed, scraping live")
	} else if ok {
		if len(entries) == 0 {
			// An earlier run exhausted its attempts for this pair; the
			// recorded empty catalog is authoritative until evicted.
			return nil, &ExhaustedError{Term: term, Index: index, FromCache: true}
		}
		log.Debug().Str("term", term).Int("index", index).Int("entries", len(entries)).Msg("Serving catalog from cache")
		return &models.ScrapeResult{
			Term:    term,
			Index:   index,
			Entries: entries,
			Total:   len(entries),
			Source:  models.SourceCache,
		}, nil
	}

	key := fmt.Sprintf("%s:%d", term, index)
	result, err, _ := o.flight.Do(key, func() (interface{}, error) {
		return o.scrapeLive(ctx, term, index, progress)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.ScrapeResult), nil
}

func (o *Orchestrator) scrapeLive(ctx context.Context, term string, index int, progress func(page int)) (*models.ScrapeResult, error) {
	var (
		lastErr    error
		galleryURL string
	)

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, gURL, err := o.attempt(ctx, term, index, progress)
		if gURL != "" {
			galleryURL = gURL
		}

		if err != nil {
			var idxErr *gallery.InvalidIndexError
			if errors.As(err, &idxErr) {
				// A malformed request is not a scraping failure; it is
				// never retried and never recorded.
				return nil, idxErr
			}
			log.Warn().
				Str("term", term).
				Int("index", index).
				Int("attempt", attempt).
				Int("max_attempts", o.maxAttempts).
				Err(err).
				Msg("Scrape attempt failed")
			lastErr = err
			continue
		}

		if len(records) == 0 {
			log.Warn().
				Str("term", term).
				Int("index", index).
				Int("attempt", attempt).
				Msg("Scrape attempt found no assets")
			lastErr = nil
			continue
		}

		catalog := buildCatalog(extract.Dedupe(records))
		if err := o.store.Put(term, index, catalog); err != nil {
			log.Warn().Str("term", term).Int("index", index).Err(err).Msg("Failed to persist catalog")
		}

		log.Info().
			Str("term", term).
			Int("index", index).
			Int("entries", len(catalog)).
			Int("attempt", attempt).
			Msg("Scrape completed")

		return &models.ScrapeResult{
			Term:    term,
			Index:   index,
			Entries: catalog,
			Total:   len(catalog),
			Source:  models.SourceLive,
		}, nil
	}

	// Record the empty outcome so the next request for this pair answers
	// from the cache instead of rescraping.
	if err := o.store.Put(term, index, []models.CatalogEntry{}); err != nil {
		log.Warn().Str("term", term).Int("index", index).Err(err).Msg("Failed to persist empty result")
	}

	exhausted := &ExhaustedError{
		Term:       term,
		Index:      index,
		Attempts:   o.maxAttempts,
		SearchURL:  o.resolver.SearchURL(term),
		GalleryURL: galleryURL,
	}
	if lastErr != nil {
		log.Warn().Str("term", term).Int("index", index).Err(lastErr).Msg("All scrape attempts failed")
	}
	return nil, exhausted
}

// attempt runs one full search-resolve-collect pass with its own browser
// session. The session is closed before returning on every path.
func (o *Orchestrator) attempt(ctx context.Context, term string, index int, progress func(page int)) ([]models.AssetRecord, string, error) {
	nav, err := o.sessions(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start browser session: %w", err)
	}
	defer nav.Close()

	galleryURL, err := o.resolver.Resolve(ctx, nav, term, index)
	if err != nil {
		return nil, "", err
	}

	records, err := o.collector.Collect(ctx, nav, galleryURL, progress)
	if err != nil {
		return nil, galleryURL, err
	}
	return records, galleryURL, nil
}

// buildCatalog assigns dense 1-based identifiers and derived file names to
// deduplicated asset records.
func buildCatalog(records []models.AssetRecord) []models.CatalogEntry {
	catalog := make([]models.CatalogEntry, 0, len(records))
	for i, rec := range records {
		id := i + 1
		catalog = append(catalog, models.CatalogEntry{
			ID:    id,
			Name:  fmt.Sprintf("image_%d.%s", id, urlutil.ImageExt(rec.URL)),
			URL:   rec.URL,
			Thumb: rec.Thumb,
		})
	}
	return catalog
}
