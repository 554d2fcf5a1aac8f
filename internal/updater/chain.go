package updater

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor is one scraping strategy for one category, tied to one page layout.
//
// Extract must be pure and must not fail on missing nodes: absence of the
// expected markup is reported as ok == false.
type Extractor interface {
	Name() string
	Extract(doc *goquery.Document) (value any, ok bool)
}

// ExtractorFunc adapts a plain function to Extractor.
type ExtractorFunc struct {
	ID string
	Fn func(doc *goquery.Document) (any, bool)
}

func (f ExtractorFunc) Name() string { return f.ID }

func (f ExtractorFunc) Extract(doc *goquery.Document) (any, bool) {
	if doc == nil || f.Fn == nil {
		return nil, false
	}
	return f.Fn(doc)
}

// CastMember is one extracted cast credit.
type CastMember struct {
	IMDbID    string `json:"imdb_id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	PhotoURL  string `json:"photo_url"`
	// Photo is the stored file name, filled in before persisting.
	Photo string `json:"photo,omitempty"`
}

// CrewMember is one extracted crew (director) credit.
type CrewMember struct {
	IMDbID   string `json:"imdb_id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
	Photo    string `json:"photo,omitempty"`
}

// Registration binds extractors to a category. Order is try order.
type Registration struct {
	Category   Category
	Extractors []Extractor
}

// Chain is the ordered list of extractors registered for one category.
type Chain struct {
	category   Category
	extractors []Extractor
}

// Extract returns the first concrete value produced by the chain.
func (c *Chain) Extract(doc *goquery.Document) (any, bool) {
	if c == nil || doc == nil {
		return nil, false
	}
	for _, ex := range c.extractors {
		if v, ok := ex.Extract(doc); ok && !IsEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

// Names lists the extractor names in try order.
func (c *Chain) Names() []string {
	out := make([]string, len(c.extractors))
	for i, ex := range c.extractors {
		out[i] = ex.Name()
	}
	return out
}

// ChainRegistry maps each category to its extraction chain. It is built once
// and read-only afterwards.
type ChainRegistry struct {
	chains map[Category]*Chain
}

// NewChainRegistry builds the registry from a static table. Registrations for
// the same category are appended in the order given. Every category must end
// up with a non-empty chain.
func NewChainRegistry(regs ...Registration) (*ChainRegistry, error) {
	chains := make(map[Category]*Chain)
	seen := make(map[Category]map[string]struct{})

	for _, reg := range regs {
		if _, ok := categoryNames[reg.Category]; !ok {
			return nil, &ConfigError{Category: reg.Category, Reason: "unknown category"}
		}
		ch, ok := chains[reg.Category]
		if !ok {
			ch = &Chain{category: reg.Category}
			chains[reg.Category] = ch
			seen[reg.Category] = make(map[string]struct{})
		}
		for _, ex := range reg.Extractors {
			if ex == nil {
				return nil, &ConfigError{Category: reg.Category, Reason: "nil extractor"}
			}
			name := strings.ToLower(strings.TrimSpace(ex.Name()))
			if name == "" {
				return nil, &ConfigError{Category: reg.Category, Reason: "extractor name is empty"}
			}
			if _, dup := seen[reg.Category][name]; dup {
				return nil, &ConfigError{Category: reg.Category, Reason: fmt.Sprintf("duplicate extractor %q", name)}
			}
			seen[reg.Category][name] = struct{}{}
			ch.extractors = append(ch.extractors, ex)
		}
	}

	for _, c := range AllCategories() {
		ch, ok := chains[c]
		if !ok || len(ch.extractors) == 0 {
			return nil, &ConfigError{Category: c, Reason: "no extractor registered"}
		}
	}
	return &ChainRegistry{chains: chains}, nil
}

// Chain returns the chain for a category.
func (r *ChainRegistry) Chain(c Category) (*Chain, error) {
	ch, ok := r.chains[c]
	if !ok {
		return nil, &ConfigError{Category: c, Reason: "no extraction chain"}
	}
	return ch, nil
}

// Fetch runs the category's chain. Person categories read the credits page and
// yield nothing when it is missing; everything else reads the main page.
func (r *ChainRegistry) Fetch(c Category, main, credits *goquery.Document) (any, bool, error) {
	ch, err := r.Chain(c)
	if err != nil {
		return nil, false, err
	}
	doc := main
	if c.IsPerson() {
		doc = credits
	}
	if doc == nil {
		return nil, false, nil
	}
	v, ok := ch.Extract(doc)
	return v, ok, nil
}
