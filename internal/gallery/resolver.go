// Package gallery turns a search term into a concrete gallery URL and
// walks that gallery's pages collecting asset records.
package gallery

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gallerycat/gallerycat/internal/browser"
	"github.com/gallerycat/gallerycat/internal/extract"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// Resolver maps (term, index) to the URL of the index-th gallery in the
// site's search results.
type Resolver struct {
	searchTemplate string
	navTimeout     time.Duration
	readyWait      time.Duration
	scroll         models.ScrollOptions
	rules          models.LinkRules
}

// NewResolver builds a Resolver. searchTemplate must contain a single %s
// placeholder for the escaped term.
func NewResolver(searchTemplate string, navTimeout, readyWait time.Duration, scroll models.ScrollOptions, rules models.LinkRules) *Resolver {
	return &Resolver{
		searchTemplate: searchTemplate,
		navTimeout:     navTimeout,
		readyWait:      readyWait,
		scroll:         scroll,
		rules:          rules,
	}
}

// SearchURL renders the search page URL for term.
func (r *Resolver) SearchURL(term string) string {
	return fmt.Sprintf(r.searchTemplate, url.QueryEscape(term))
}

// Resolve runs the search for term and returns the URL of the index-th
// result (1-based). An index that can never match fails with
// *InvalidIndexError before any gallery page is visited; an empty result
// list fails with ErrNoResults.
func (r *Resolver) Resolve(ctx context.Context, nav browser.Navigator, term string, index int) (string, error) {
	if index < 1 {
		return "", &InvalidIndexError{Requested: index}
	}

	searchURL := r.SearchURL(term)
	log.Debug().Str("term", term).Str("url", searchURL).Msg("Navigating to search page")

	page, err := nav.Navigate(ctx, searchURL, r.navTimeout)
	if err != nil {
		return "", fmt.Errorf("search navigation failed: %w", err)
	}

	page.WaitReady(ctx, r.readyWait)
	if err := page.AutoScroll(ctx, r.scroll); err != nil {
		log.Warn().Err(err).Msg("Search page auto-scroll failed, using content loaded so far")
	}

	doc, err := page.Document(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read search results: %w", err)
	}

	links := extract.ExtractLinks(doc, searchURL, r.rules)
	if len(links) == 0 {
		return "", ErrNoResults
	}
	if index > len(links) {
		return "", &InvalidIndexError{Requested: index, Found: len(links)}
	}

	log.Debug().
		Str("term", term).
		Int("results", len(links)).
		Int("index", index).
		Str("gallery_url", links[index-1]).
		Msg("Gallery resolved")

	return links[index-1], nil
}
