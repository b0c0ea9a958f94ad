package gallery

import (
	"errors"
	"fmt"
)

// ErrNoResults indicates a search that returned zero gallery links.
var ErrNoResults = errors.New("search returned no gallery links")

// InvalidIndexError indicates a requested gallery position that cannot
// match: non-positive, or beyond the number of results the search
// produced. The request is malformed, so no retry can fix it.
type InvalidIndexError struct {
	Requested int
	Found     int
}

func (e *InvalidIndexError) Error() string {
	if e.Requested < 1 {
		return fmt.Sprintf("gallery index must be at least 1, got %d", e.Requested)
	}
	return fmt.Sprintf("gallery index %d out of range: search returned %d result(s)", e.Requested, e.Found)
}
