package imdb

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// Credits page layouts. Both read /fullcredits.
const (
	layoutCreditsModern = "credits-modern"
	layoutCreditsLegacy = "credits-legacy"
)

func creditsModernCast(doc *goquery.Document) (any, bool) {
	var out []updater.CastMember
	doc.Find(`section[data-testid="sub-section-cast"] li[data-testid="name-credits-list-item"]`).Each(func(_ int, s *goquery.Selection) {
		link := s.Find(`a.name-credits--title-text-big`).First()
		name := normSpace(link.Text())
		if name == "" {
			return
		}
		out = append(out, updater.CastMember{
			IMDbID:    nameID(link.AttrOr("href", "")),
			Name:      name,
			Character: normSpace(s.Find(`a[href*="/characters/"], span[data-testid="cast-item-characters-link"]`).First().Text()),
			PhotoURL:  fullSizeImage(s.Find(`img.ipc-image`).First().AttrOr("src", "")),
		})
	})
	return out, len(out) > 0
}

func creditsModernCrew(doc *goquery.Document) (any, bool) {
	var out []updater.CrewMember
	doc.Find(`section[data-testid="sub-section-director"] li[data-testid="name-credits-list-item"]`).Each(func(_ int, s *goquery.Selection) {
		link := s.Find(`a.name-credits--title-text-big`).First()
		name := normSpace(link.Text())
		if name == "" {
			return
		}
		out = append(out, updater.CrewMember{
			IMDbID:   nameID(link.AttrOr("href", "")),
			Name:     name,
			PhotoURL: fullSizeImage(s.Find(`img.ipc-image`).First().AttrOr("src", "")),
		})
	})
	return out, len(out) > 0
}

func creditsLegacyCast(doc *goquery.Document) (any, bool) {
	var out []updater.CastMember
	doc.Find(`table.cast_list tr`).Each(func(_ int, row *goquery.Selection) {
		link := row.Find(`td:not(.primary_photo):not(.character) a[href^="/name/"]`).First()
		name := normSpace(link.Text())
		if name == "" {
			return
		}
		// lazy-loaded thumbnails keep the real URL in loadlate
		img := row.Find(`td.primary_photo img`).First()
		photo := img.AttrOr("loadlate", "")
		if photo == "" {
			photo = img.AttrOr("src", "")
		}
		character := normSpace(row.Find(`td.character`).Text())
		character = strings.TrimSpace(strings.TrimSuffix(character, "(uncredited)"))
		out = append(out, updater.CastMember{
			IMDbID:    nameID(link.AttrOr("href", "")),
			Name:      name,
			Character: character,
			PhotoURL:  fullSizeImage(photo),
		})
	})
	return out, len(out) > 0
}

func creditsLegacyCrew(doc *goquery.Document) (any, bool) {
	var out []updater.CrewMember
	doc.Find(`h4#director + table a[href^="/name/"]`).Each(func(_ int, a *goquery.Selection) {
		name := normSpace(a.Text())
		if name == "" {
			return
		}
		out = append(out, updater.CrewMember{IMDbID: nameID(a.AttrOr("href", "")), Name: name})
	})
	return out, len(out) > 0
}

func creditsRegistrations() []updater.Registration {
	return []updater.Registration{
		{Category: updater.CategoryCast, Extractors: []updater.Extractor{
			updater.ExtractorFunc{ID: layoutCreditsModern, Fn: creditsModernCast},
			updater.ExtractorFunc{ID: layoutCreditsLegacy, Fn: creditsLegacyCast},
		}},
		{Category: updater.CategoryCrew, Extractors: []updater.Extractor{
			updater.ExtractorFunc{ID: layoutCreditsModern, Fn: creditsModernCrew},
			updater.ExtractorFunc{ID: layoutCreditsLegacy, Fn: creditsLegacyCrew},
		}},
	}
}

// Registrations is the full extraction table for IMDb pages. Within each
// category the newest layout is tried first.
func Registrations() []updater.Registration {
	var regs []updater.Registration
	regs = append(regs, modernRegistrations()...)
	regs = append(regs, jsonldRegistrations()...)
	regs = append(regs, legacyRegistrations()...)
	regs = append(regs, creditsRegistrations()...)
	return regs
}

// NewChainRegistry builds the registry for IMDb pages.
func NewChainRegistry() (*updater.ChainRegistry, error) {
	return updater.NewChainRegistry(Registrations()...)
}
