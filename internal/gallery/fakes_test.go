package gallery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gallerycat/gallerycat/internal/browser"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// fakeNavigator serves canned HTML per URL so resolver and collector
// logic can run without a browser.
type fakeNavigator struct {
	pages    map[string]string // URL -> HTML body
	statuses map[string]int    // URL -> error status to fail with
	visited  []string
	closed   bool
}

func (n *fakeNavigator) Navigate(ctx context.Context, url string, timeout time.Duration) (browser.Page, error) {
	n.visited = append(n.visited, url)

	if status, ok := n.statuses[url]; ok {
		return nil, &browser.NavigationError{URL: url, StatusCode: status}
	}
	body, ok := n.pages[url]
	if !ok {
		return nil, &browser.NavigationError{URL: url, StatusCode: 404}
	}
	return &fakePage{html: body}, nil
}

func (n *fakeNavigator) Close() {
	n.closed = true
}

type fakePage struct {
	html string
}

func (p *fakePage) WaitReady(ctx context.Context, timeout time.Duration) {}

func (p *fakePage) AutoScroll(ctx context.Context, opts models.ScrollOptions) error {
	return nil
}

func (p *fakePage) Document(ctx context.Context) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(p.html))
}

func (p *fakePage) StatusCode() int {
	return 200
}
