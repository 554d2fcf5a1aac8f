package updater

import (
	"context"
	"errors"
	"fmt"

	"github.com/pokerjest/movieAutoTool/internal/logging"
)

// Searchers tries each searcher in order and returns the first URL found.
// It only fails when every searcher failed; a clean "no match" from any of
// them makes the overall result a clean "no match".
type Searchers []Searcher

func (s Searchers) Search(ctx context.Context, query, kind string) (string, error) {
	var errs []error
	for i, searcher := range s {
		if searcher == nil {
			continue
		}
		u, err := searcher.Search(ctx, query, kind)
		if err != nil {
			logging.Warn().Err(err).Int("searcher", i).Str("query", query).Msg("Search: searcher failed")
			errs = append(errs, err)
			continue
		}
		if u != "" {
			return u, nil
		}
	}
	if len(errs) > 0 && len(errs) == len(s) {
		return "", fmt.Errorf("search %q: %w", query, errors.Join(errs...))
	}
	return "", nil
}
