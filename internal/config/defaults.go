package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel    = "info"
	DefaultJSONLog     = false
	DefaultUserAgent   = "GalleryCat/1.0 (https://github.com/gallerycat/gallerycat)"
	DefaultSearchURL   = "https://cosgallery.example/?s=%s"
	DefaultMaxAttempts = 2
	DefaultMaxPages    = 5
	DefaultNavTimeout  = 30 * time.Second
	DefaultReadyWait   = 10 * time.Second
	DefaultListenAddr  = ":8080"

	DefaultScrollStepPx    = 600
	DefaultScrollInterval  = 300 * time.Millisecond
	DefaultScrollMaxSteps  = 20
	DefaultPageRateRPS     = 1.0
	DefaultPageRateBurst   = 1
	DefaultLinkCap         = 10
	DefaultMinAssetWidth   = 200
	DefaultMinAssetHeight  = 200
	DefaultBrowserHeadless = true

	// DefaultStorageDir is created under the user home directory.
	DefaultStorageDir = ".gallerycat/cache"
)

// DefaultLinkSelectors lists anchor selectors for search-result pages,
// highest priority first.
var DefaultLinkSelectors = []string{
	"article a[href]",
	"h2 a[href]",
	".post-title a[href]",
	"a[href]",
}

// DefaultLinkExcludes drops navigation and taxonomy links that would
// otherwise match the broad anchor selectors.
var DefaultLinkExcludes = []string{
	"/page/", "?s=", "/tag/", "/category/", "#",
}

// DefaultLazyAttrs are attributes checked for lazy-loaded image sources.
var DefaultLazyAttrs = []string{
	"data-src", "data-lazy-src", "data-original", "data-srcset",
}
