package scrape

import "fmt"

// ExhaustedError reports a scrape that completed every allowed attempt
// without finding any assets, or a cache record proving an earlier run
// already did. The URLs that were visited are carried for diagnostics.
type ExhaustedError struct {
	Term       string
	Index      int
	Attempts   int
	SearchURL  string
	GalleryURL string
	FromCache  bool
}

func (e *ExhaustedError) Error() string {
	if e.FromCache {
		return fmt.Sprintf("no assets recorded for %q gallery #%d (cached result)", e.Term, e.Index)
	}
	return fmt.Sprintf("no assets found for %q gallery #%d after %d attempt(s)", e.Term, e.Index, e.Attempts)
}
