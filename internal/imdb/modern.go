package imdb

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// modern extractors read the data-testid markup IMDb has served since 2020.
const layoutModern = "modern"

func modernTitle(doc *goquery.Document) (any, bool) {
	if t, ok := firstText(doc, `[data-testid="hero__pageTitle"] [data-testid="hero__primary-text"]`); ok {
		return t, true
	}
	return firstText(doc, `h1[data-testid="hero__pageTitle"]`)
}

func modernOriginalTitle(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `[data-testid="hero-title-block__original-title"]`)
	if !ok {
		return nil, false
	}
	t = strings.TrimSpace(strings.TrimPrefix(t, "Original title:"))
	return t, t != ""
}

func modernYear(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `h1[data-testid="hero__pageTitle"] ~ ul a[href*="releaseinfo"]`)
	if !ok {
		return nil, false
	}
	return parseYear(t)
}

func modernRating(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `[data-testid="hero-rating-bar__aggregate-rating__score"] span`)
	if !ok {
		return nil, false
	}
	return parseRating(t)
}

func modernCriticScore(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `span.metacritic-score-box`)
	if !ok {
		return nil, false
	}
	return parseInt(t)
}

func modernRuntime(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `li[data-testid="title-techspec_runtime"] .ipc-metadata-list-item__content-container`)
	if !ok {
		return nil, false
	}
	return parseRuntime(t)
}

func modernStoryline(doc *goquery.Document) (any, bool) {
	if t, ok := firstText(doc, `span[data-testid="plot-xl"]`); ok {
		return t, true
	}
	return firstText(doc, `[data-testid="plot"] span[data-testid^="plot-"]`)
}

func modernPoster(doc *goquery.Document) (any, bool) {
	src, ok := firstAttr(doc, `div[data-testid="hero-media__poster"] img`, "src")
	if !ok {
		return nil, false
	}
	u := fullSizeImage(src)
	return u, u != ""
}

func modernContentRating(doc *goquery.Document) (any, bool) {
	return firstText(doc, `h1[data-testid="hero__pageTitle"] ~ ul a[href*="parentalguide"]`)
}

func modernGenres(doc *goquery.Document) (any, bool) {
	g := texts(doc, `div[data-testid="genres"] a span, div[data-testid="interests"] a span.ipc-chip__text`)
	g = dedupe(g)
	return g, len(g) > 0
}

func modernCountries(doc *goquery.Document) (any, bool) {
	c := texts(doc, `li[data-testid="title-details-origin"] a`)
	return c, len(c) > 0
}

func modernLanguages(doc *goquery.Document) (any, bool) {
	l := texts(doc, `li[data-testid="title-details-languages"] a`)
	return l, len(l) > 0
}

func modernRegistrations() []updater.Registration {
	ex := func(fn func(*goquery.Document) (any, bool)) []updater.Extractor {
		return []updater.Extractor{updater.ExtractorFunc{ID: layoutModern, Fn: fn}}
	}
	return []updater.Registration{
		{Category: updater.CategoryTitle, Extractors: ex(modernTitle)},
		{Category: updater.CategoryOriginalTitle, Extractors: ex(modernOriginalTitle)},
		{Category: updater.CategoryProductionYear, Extractors: ex(modernYear)},
		{Category: updater.CategoryRating, Extractors: ex(modernRating)},
		{Category: updater.CategoryCriticScore, Extractors: ex(modernCriticScore)},
		{Category: updater.CategoryRuntime, Extractors: ex(modernRuntime)},
		{Category: updater.CategoryStoryline, Extractors: ex(modernStoryline)},
		{Category: updater.CategoryPoster, Extractors: ex(modernPoster)},
		{Category: updater.CategoryContentRating, Extractors: ex(modernContentRating)},
		{Category: updater.CategoryGenre, Extractors: ex(modernGenres)},
		{Category: updater.CategoryCountry, Extractors: ex(modernCountries)},
		{Category: updater.CategoryLanguage, Extractors: ex(modernLanguages)},
	}
}
