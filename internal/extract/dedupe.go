package extract

import (
	urlutil "github.com/gallerycat/gallerycat/internal/utils/url"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// NormalizedKey builds the deduplication identity for a record: both URLs
// stripped of query string and fragment, joined with a separator. Cache-
// busting query variants of the same asset collapse to one key.
func NormalizedKey(rec models.AssetRecord) string {
	return urlutil.StripQueryFragment(rec.URL) + "|" + urlutil.StripQueryFragment(rec.Thumb)
}

// Dedupe removes duplicate asset records, preserving first-occurrence
// order. It is idempotent and never reorders surviving elements.
func Dedupe(records []models.AssetRecord) []models.AssetRecord {
	seen := make(map[string]bool, len(records))
	out := make([]models.AssetRecord, 0, len(records))
	for _, rec := range records {
		key := NormalizedKey(rec)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}
