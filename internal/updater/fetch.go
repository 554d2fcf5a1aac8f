package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/metrics"
)

// PageFetcher downloads and parses a page. Non-2xx responses are errors.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Values maps each category to the concrete value extracted for it.
type Values map[Category]any

// Fetcher loads the reference page (and the credits page when needed) and runs
// the extraction chains over it.
type Fetcher struct {
	pages      PageFetcher
	chains     *ChainRegistry
	creditsURL func(pageURL string) string
}

// NewFetcher wires a fetcher. creditsURL derives the credits page from the main page URL.
func NewFetcher(pages PageFetcher, chains *ChainRegistry, creditsURL func(string) string) *Fetcher {
	return &Fetcher{pages: pages, chains: chains, creditsURL: creditsURL}
}

// Fetch returns only the categories that produced a concrete value. A failure
// to load the main page is returned; a failure to load credits only leaves the
// person categories empty.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string, cats CategorySet) (Values, error) {
	start := time.Now()
	defer func() { metrics.FetchDuration.Observe(time.Since(start).Seconds()) }()

	main, err := f.pages.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch reference page %s: %w", ErrRemote, pageURL, err)
	}

	var credits *goquery.Document
	if len(cats.Intersect(PersonCategories())) > 0 && f.creditsURL != nil {
		creditsURL := f.creditsURL(pageURL)
		credits, err = f.pages.Fetch(ctx, creditsURL)
		if err != nil {
			logging.Warn().Err(err).Str("url", creditsURL).Msg("Fetcher: credits page unavailable, skipping cast/crew")
			credits = nil
		}
	}

	values := make(Values, len(cats))
	for _, c := range cats.Sorted() {
		v, ok, err := f.chains.Fetch(c, main, credits)
		if err != nil {
			return nil, err
		}
		if !ok {
			logging.Debug().Str("category", c.String()).Str("url", pageURL).Msg("Fetcher: no extractor matched")
			continue
		}
		values[c] = v
	}
	return values, nil
}
