package urlutil

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// imageExts are the file extensions recognized as image assets.
var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".avif"}

// ValidateURL performs basic http(s) URL validation
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a base URL and returns a string
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}

// StripQueryFragment removes the query string and fragment from a URL.
// Used to build deduplication keys, so invalid URLs are returned untouched
// rather than erroring.
func StripQueryFragment(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		if i := strings.IndexAny(urlStr, "?#"); i >= 0 {
			return urlStr[:i]
		}
		return urlStr
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// IsImageURL reports whether the URL path ends in a known image extension
func IsImageURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	for _, ext := range imageExts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// ImageExt returns the file extension of an image URL without the leading
// dot, defaulting to "jpg" when the URL carries no recognizable extension.
func ImageExt(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, known := range imageExts {
		if ext == known {
			return strings.TrimPrefix(ext, ".")
		}
	}
	return "jpg"
}

// PageURL appends a 1-based page number to a gallery URL as a query
// parameter. Page 1 is the base URL verbatim.
func PageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%spage=%d", base, sep, page)
	}
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()
	return u.String()
}
