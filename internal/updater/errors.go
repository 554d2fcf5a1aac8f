package updater

import (
	"errors"
	"fmt"
)

var (
	// ErrReferenceNotFound means no reference page could be resolved for the movie.
	// The movie's sync timestamp has still been advanced when this is returned.
	ErrReferenceNotFound = errors.New("reference page not found")

	// ErrMovieNotFound is returned when the movie id does not exist.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrRemote wraps failures talking to the reference site or a searcher.
	ErrRemote = errors.New("reference site unavailable")
)

// ConfigError reports a registry wiring mistake. It is only produced while
// building registries at startup, or when a caller asks for a category that
// was never registered.
type ConfigError struct {
	Category Category
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Category == 0 {
		return "updater config: " + e.Reason
	}
	return fmt.Sprintf("updater config: category=%s: %s", e.Category, e.Reason)
}
