package imdb

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// legacy extractors read the pre-2020 title page, still served from some
// mirrors and archived copies.
const layoutLegacy = "legacy"

func legacyTitle(doc *goquery.Document) (any, bool) {
	h1 := doc.Find(`div.title_wrapper h1`).First()
	if h1.Length() == 0 {
		return nil, false
	}
	t := ownText(h1)
	return t, t != ""
}

func legacyOriginalTitle(doc *goquery.Document) (any, bool) {
	s := doc.Find(`div.originalTitle`).First()
	if s.Length() == 0 {
		return nil, false
	}
	t := ownText(s)
	return t, t != ""
}

func legacyYear(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `#titleYear a`)
	if !ok {
		return nil, false
	}
	return parseYear(t)
}

func legacyRating(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `span[itemprop="ratingValue"]`)
	if !ok {
		return nil, false
	}
	return parseRating(t)
}

func legacyCriticScore(doc *goquery.Document) (any, bool) {
	t, ok := firstText(doc, `div.metacriticScore span`)
	if !ok {
		return nil, false
	}
	return parseInt(t)
}

func legacyRuntime(doc *goquery.Document) (any, bool) {
	if d, ok := firstAttr(doc, `div.subtext time[datetime], time[datetime]`, "datetime"); ok {
		return parseRuntime(d)
	}
	return nil, false
}

func legacyStoryline(doc *goquery.Document) (any, bool) {
	if t, ok := firstText(doc, `#titleStoryLine div[itemprop="description"] p span`); ok {
		return t, true
	}
	return firstText(doc, `div.summary_text`)
}

func legacyPoster(doc *goquery.Document) (any, bool) {
	src, ok := firstAttr(doc, `div.poster img`, "src")
	if !ok {
		return nil, false
	}
	u := fullSizeImage(src)
	return u, u != ""
}

func legacyContentRating(doc *goquery.Document) (any, bool) {
	if v, ok := firstAttr(doc, `meta[itemprop="contentRating"]`, "content"); ok {
		return v, true
	}
	t, ok := firstText(doc, `div.subtext`)
	if !ok {
		return nil, false
	}
	// "R | 2h 50min | Crime, Drama | ..."
	first := strings.TrimSpace(strings.SplitN(t, "|", 2)[0])
	if _, isRuntime := parseRuntime(first); isRuntime || first == "" {
		return nil, false
	}
	return first, true
}

func legacyLinks(pattern string) func(*goquery.Document) (any, bool) {
	return func(doc *goquery.Document) (any, bool) {
		out := dedupe(texts(doc, pattern))
		return out, len(out) > 0
	}
}

func legacyRegistrations() []updater.Registration {
	ex := func(fn func(*goquery.Document) (any, bool)) []updater.Extractor {
		return []updater.Extractor{updater.ExtractorFunc{ID: layoutLegacy, Fn: fn}}
	}
	return []updater.Registration{
		{Category: updater.CategoryTitle, Extractors: ex(legacyTitle)},
		{Category: updater.CategoryOriginalTitle, Extractors: ex(legacyOriginalTitle)},
		{Category: updater.CategoryProductionYear, Extractors: ex(legacyYear)},
		{Category: updater.CategoryRating, Extractors: ex(legacyRating)},
		{Category: updater.CategoryCriticScore, Extractors: ex(legacyCriticScore)},
		{Category: updater.CategoryRuntime, Extractors: ex(legacyRuntime)},
		{Category: updater.CategoryStoryline, Extractors: ex(legacyStoryline)},
		{Category: updater.CategoryPoster, Extractors: ex(legacyPoster)},
		{Category: updater.CategoryContentRating, Extractors: ex(legacyContentRating)},
		{Category: updater.CategoryGenre, Extractors: ex(legacyLinks(`div.subtext a[href*="genres="], #titleStoryLine div.see-more a[href*="genres="]`))},
		{Category: updater.CategoryCountry, Extractors: ex(legacyLinks(`#titleDetails div.txt-block a[href*="country_of_origin="]`))},
		{Category: updater.CategoryLanguage, Extractors: ex(legacyLinks(`#titleDetails div.txt-block a[href*="primary_language="]`))},
	}
}
