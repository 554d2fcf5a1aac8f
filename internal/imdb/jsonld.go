package imdb

import (
	"bytes"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// jsonld extractors read the schema.org Movie block embedded in the page.
const layoutJSONLD = "jsonld"

type ldMovie struct {
	Type            string      `json:"@type"`
	Name            string      `json:"name"`
	AlternateName   string      `json:"alternateName"`
	Description     string      `json:"description"`
	Image           ldImage     `json:"image"`
	DatePublished   string      `json:"datePublished"`
	Duration        string      `json:"duration"`
	ContentRating   string      `json:"contentRating"`
	Genre           ldStrings   `json:"genre"`
	AggregateRating *ldAggRated `json:"aggregateRating"`
}

type ldAggRated struct {
	RatingValue ldNumber `json:"ratingValue"`
}

// ldNumber accepts 8.3 or "8.3".
type ldNumber string

func (n *ldNumber) UnmarshalJSON(b []byte) error {
	*n = ldNumber(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	return nil
}

// ldStrings accepts a single string or a list.
type ldStrings []string

func (s *ldStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*s = ldStrings{one}
	return nil
}

// ldImage accepts a URL or an ImageObject.
type ldImage string

func (i *ldImage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*i = ldImage(obj.URL)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*i = ldImage(s)
	return nil
}

// parseLD returns the first Movie block of the page.
func parseLD(doc *goquery.Document) (*ldMovie, bool) {
	var found *ldMovie
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var m ldMovie
		if err := json.Unmarshal([]byte(s.Text()), &m); err != nil {
			return true
		}
		if m.Type != "Movie" && m.Type != "TVMovie" {
			return true
		}
		found = &m
		return false
	})
	return found, found != nil
}

func ldText(s string) (string, bool) {
	s = normSpace(html.UnescapeString(s))
	return s, s != ""
}

func jsonldExtractor(fn func(*ldMovie) (any, bool)) updater.Extractor {
	return updater.ExtractorFunc{ID: layoutJSONLD, Fn: func(doc *goquery.Document) (any, bool) {
		m, ok := parseLD(doc)
		if !ok {
			return nil, false
		}
		return fn(m)
	}}
}

func jsonldRegistrations() []updater.Registration {
	reg := func(c updater.Category, fn func(*ldMovie) (any, bool)) updater.Registration {
		return updater.Registration{Category: c, Extractors: []updater.Extractor{jsonldExtractor(fn)}}
	}
	return []updater.Registration{
		reg(updater.CategoryTitle, func(m *ldMovie) (any, bool) { return ldText(m.Name) }),
		reg(updater.CategoryOriginalTitle, func(m *ldMovie) (any, bool) { return ldText(m.AlternateName) }),
		reg(updater.CategoryProductionYear, func(m *ldMovie) (any, bool) { return parseYear(m.DatePublished) }),
		reg(updater.CategoryRating, func(m *ldMovie) (any, bool) {
			if m.AggregateRating == nil {
				return nil, false
			}
			return parseRating(string(m.AggregateRating.RatingValue))
		}),
		reg(updater.CategoryRuntime, func(m *ldMovie) (any, bool) { return parseRuntime(m.Duration) }),
		reg(updater.CategoryStoryline, func(m *ldMovie) (any, bool) { return ldText(m.Description) }),
		reg(updater.CategoryPoster, func(m *ldMovie) (any, bool) {
			u := fullSizeImage(string(m.Image))
			return u, u != ""
		}),
		reg(updater.CategoryContentRating, func(m *ldMovie) (any, bool) { return ldText(m.ContentRating) }),
		reg(updater.CategoryGenre, func(m *ldMovie) (any, bool) {
			var out []string
			for _, g := range m.Genre {
				if g = strings.TrimSpace(html.UnescapeString(g)); g != "" {
					out = append(out, g)
				}
			}
			return out, len(out) > 0
		}),
	}
}
