// Package browser wraps a headless Chrome session behind a small navigation
// interface so the scraping engine can run against a real browser in
// production and a static-HTML fixture in tests.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// Navigator is one live browser session. A session is owned by exactly one
// scrape attempt and must be closed on every exit path of that attempt.
type Navigator interface {
	// Navigate opens url and waits for the navigation to commit, bounded by
	// timeout. It fails with a *NavigationError when the remote responds
	// with an error status or no response arrives in time.
	Navigate(ctx context.Context, url string, timeout time.Duration) (Page, error)

	// Close releases the underlying browser. Safe to call more than once.
	Close()
}

// Page is a loaded document handle.
type Page interface {
	// WaitReady waits for the document body, best-effort: a timeout here is
	// logged and swallowed because the page may already be usable.
	WaitReady(ctx context.Context, timeout time.Duration)

	// AutoScroll performs bounded incremental scrolling to force lazy-loaded
	// content to materialize.
	AutoScroll(ctx context.Context, opts models.ScrollOptions) error

	// Document parses the page's current HTML.
	Document(ctx context.Context) (*goquery.Document, error)

	// StatusCode is the HTTP status of the navigation response, zero when
	// it could not be observed.
	StatusCode() int
}

// NavigationError reports a failed page navigation: the remote was
// unreachable, timed out, or answered with an error status.
type NavigationError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NavigationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("navigation to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the remote answered with a not-found status.
func (e *NavigationError) NotFound() bool {
	return e.StatusCode == 404 || e.StatusCode == 410
}

// GetStatusCode returns the HTTP status code, for error classification.
func (e *NavigationError) GetStatusCode() int {
	return e.StatusCode
}
