package models

import "time"

// AssetRecord is one media asset discovered on a gallery page.
// URL points at the full-size image, Thumb at its preview (possibly the
// same URL). Records are immutable once extracted.
type AssetRecord struct {
	URL   string `json:"url"`
	Thumb string `json:"thumb"`
}

// CatalogEntry is the persisted, numbered representation of one asset.
// IDs are dense and 1-based in discovery order; Name is synthesized as
// image_<id>.<ext> from the asset URL.
type CatalogEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Thumb string `json:"thumb"`
}

// Result source values.
const (
	SourceCache = "cache"
	SourceLive  = "live"
)

// ScrapeResult is what the orchestrator hands back to its caller.
type ScrapeResult struct {
	Term    string         `json:"term"`
	Index   int            `json:"index"`
	Entries []CatalogEntry `json:"entries"`
	Total   int            `json:"total"`
	Source  string         `json:"source"`
}

// CacheRecord is the on-disk shape of one (term, index) record.
// An empty Entries slice is a valid recorded outcome: it means a previous
// scrape found nothing and the combination should not be re-scraped.
type CacheRecord struct {
	Term      string         `json:"term"`
	Index     int            `json:"index"`
	ScrapedAt time.Time      `json:"scraped_at"`
	Entries   []CatalogEntry `json:"entries"`
}

// LinkRules configures gallery-link extraction from a search-results page.
// Selectors are evaluated in priority order and merged into an
// insertion-ordered set. The selector lists are tuned against one specific
// site's markup and are expected to be revised as that markup drifts, so
// they travel as configuration rather than constants.
type LinkRules struct {
	// Selectors are CSS selectors for anchor elements, highest priority first.
	Selectors []string
	// IncludeSubstrings keeps only hrefs containing at least one entry (when non-empty).
	IncludeSubstrings []string
	// ExcludeSubstrings drops hrefs containing any entry (pagination, tag pages, anchors).
	ExcludeSubstrings []string
	// RequireChildImage keeps only anchors that contain a nested <img>.
	RequireChildImage bool
	// Cap truncates the merged link list. Zero means no cap.
	Cap int
}

// AssetRules configures asset extraction from a gallery page.
type AssetRules struct {
	// MinWidth/MinHeight filter out icon-sized images when size metadata is present.
	MinWidth  int
	MinHeight int
	// AllowedHostSubstrings filters assets by host when non-empty.
	AllowedHostSubstrings []string
	// LazyAttrs are attributes checked on <img> when src is empty or a placeholder.
	LazyAttrs []string
	// SniffScripts enables the inline-script fallback when selectors match nothing.
	SniffScripts bool
}

// ScrollOptions bounds the incremental auto-scroll used to trigger
// lazy-loaded content. MaxSteps keeps infinite-scroll pages from running
// unboundedly.
type ScrollOptions struct {
	StepPx   int
	Interval time.Duration
	MaxSteps int
}
