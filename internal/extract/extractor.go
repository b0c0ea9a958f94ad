// Package extract turns loaded gallery documents into asset records. It
// performs no I/O; callers hand it parsed documents and selector rules.
package extract

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/gallerycat/gallerycat/internal/utils/url"
	"github.com/gallerycat/gallerycat/pkg/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// ExtractLinks collects candidate gallery links from a search-results
// document. Selectors are evaluated in priority order and merged into a set
// with first-seen insertion order, then the exclusion list and cap are
// applied. Hrefs are resolved against baseURL.
func ExtractLinks(doc *goquery.Document, baseURL string, rules models.LinkRules) []string {
	seen := make(map[string]bool)
	var links []string

	for _, selector := range rules.Selectors {
		doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || href == "" {
				return
			}
			if rules.RequireChildImage && sel.Find("img").Length() == 0 {
				return
			}
			if !matchesInclude(href, rules.IncludeSubstrings) {
				return
			}
			if matchesAny(href, rules.ExcludeSubstrings) {
				return
			}
			resolved := urlutil.ResolveURL(baseURL, href)
			if err := urlutil.ValidateURL(resolved); err != nil {
				return
			}
			if seen[resolved] {
				return
			}
			seen[resolved] = true
			links = append(links, resolved)
		})
	}

	if rules.Cap > 0 && len(links) > rules.Cap {
		links = links[:rules.Cap]
	}

	log.Debug().Int("links", len(links)).Str("base", baseURL).Msg("Extracted gallery links")
	return links
}

// ExtractAssets collects asset records from a gallery document in document
// order: image elements first (src, then lazy-load attributes), then anchors
// pointing directly at image-extension URLs. Results are deduplicated by
// normalized URL within the single page.
func ExtractAssets(doc *goquery.Document, baseURL string, rules models.AssetRules) []models.AssetRecord {
	seen := make(map[string]bool)
	var records []models.AssetRecord

	add := func(rawURL, thumb string) {
		resolved := urlutil.ResolveURL(baseURL, rawURL)
		if !urlutil.IsImageURL(resolved) {
			return
		}
		if !hostAllowed(resolved, rules.AllowedHostSubstrings) {
			return
		}
		if thumb == "" {
			thumb = resolved
		} else {
			thumb = urlutil.ResolveURL(baseURL, thumb)
		}
		key := urlutil.StripQueryFragment(resolved)
		if seen[key] {
			return
		}
		seen[key] = true
		records = append(records, models.AssetRecord{URL: resolved, Thumb: thumb})
	}

	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		if belowMinSize(sel, rules) {
			return
		}
		src := imageSource(sel, rules.LazyAttrs)
		if src == "" {
			return
		}
		// An image wrapped in an anchor to the full-size file: the anchor
		// target is the asset, the img is its thumbnail.
		if parent := sel.ParentsFiltered("a[href]").First(); parent.Length() > 0 {
			if href, ok := parent.Attr("href"); ok && urlutil.IsImageURL(urlutil.ResolveURL(baseURL, href)) {
				add(href, src)
				return
			}
		}
		add(src, "")
	})

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" {
			return
		}
		if urlutil.IsImageURL(urlutil.ResolveURL(baseURL, href)) {
			add(href, "")
		}
	})

	if len(records) == 0 && rules.SniffScripts {
		for _, u := range SniffScriptAssets(doc) {
			add(u, "")
		}
		if len(records) > 0 {
			log.Debug().Int("assets", len(records)).Msg("Assets recovered from inline scripts")
		}
	}

	log.Debug().Int("assets", len(records)).Str("base", baseURL).Msg("Extracted assets")
	return records
}

// imageSource returns the best source URL for an img element, preferring
// src and falling back to the configured lazy-load attributes. Attributes
// are scanned on the underlying node so unknown data-* names still work.
func imageSource(sel *goquery.Selection, lazyAttrs []string) string {
	if src, ok := sel.Attr("src"); ok && src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	if len(sel.Nodes) == 0 {
		return ""
	}
	return lazyAttrValue(sel.Nodes[0].Attr, lazyAttrs)
}

func lazyAttrValue(attrs []html.Attribute, lazyAttrs []string) string {
	for _, name := range lazyAttrs {
		for _, attr := range attrs {
			if attr.Key != name || attr.Val == "" {
				continue
			}
			val := attr.Val
			// srcset-style values carry "url 1x, url 2x" candidates.
			if strings.Contains(val, " ") || strings.Contains(val, ",") {
				fields := strings.Fields(strings.Split(val, ",")[0])
				if len(fields) == 0 {
					continue
				}
				val = fields[0]
			}
			return val
		}
	}
	return ""
}

// belowMinSize reports whether the image declares a rendered size below the
// configured minimum. Images without size metadata pass.
func belowMinSize(sel *goquery.Selection, rules models.AssetRules) bool {
	if rules.MinWidth <= 0 && rules.MinHeight <= 0 {
		return false
	}
	w := attrInt(sel, "width")
	h := attrInt(sel, "height")
	if w > 0 && rules.MinWidth > 0 && w < rules.MinWidth {
		return true
	}
	if h > 0 && rules.MinHeight > 0 && h < rules.MinHeight {
		return true
	}
	return false
}

func attrInt(sel *goquery.Selection, name string) int {
	v, ok := sel.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if err != nil {
		return 0
	}
	return n
}

func hostAllowed(urlStr string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return matchesAny(u.Host, allowed)
}

func matchesInclude(s string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	return matchesAny(s, include)
}

func matchesAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
