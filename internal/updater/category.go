package updater

import (
	"fmt"
	"sort"
	"strings"
)

// Category identifies one syncable aspect of a movie.
type Category int

const (
	CategoryContentRating Category = iota + 1
	CategoryCountry
	CategoryGenre
	CategoryLanguage
	CategoryCriticScore
	CategoryPoster
	CategoryOriginalTitle
	CategoryProductionYear
	CategoryRating
	CategoryRuntime
	CategoryStoryline
	CategoryTitle
	CategoryCast
	CategoryCrew
)

var categoryNames = map[Category]string{
	CategoryContentRating:  "content_rating",
	CategoryCountry:        "country",
	CategoryGenre:          "genre",
	CategoryLanguage:       "language",
	CategoryCriticScore:    "critic_score",
	CategoryPoster:         "poster",
	CategoryOriginalTitle:  "original_title",
	CategoryProductionYear: "production_year",
	CategoryRating:         "rating",
	CategoryRuntime:        "runtime",
	CategoryStoryline:      "storyline",
	CategoryTitle:          "title",
	CategoryCast:           "cast",
	CategoryCrew:           "crew",
}

// column names written by the pass-through processor
var categoryColumns = map[Category]string{
	CategoryContentRating:  "content_rating_id",
	CategoryCriticScore:    "critic_score",
	CategoryPoster:         "poster",
	CategoryOriginalTitle:  "original_title",
	CategoryProductionYear: "production_year",
	CategoryRating:         "rating",
	CategoryRuntime:        "runtime",
	CategoryStoryline:      "storyline",
	CategoryTitle:          "title",
}

// AllCategories returns every category in declaration order.
func AllCategories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := CategoryContentRating; c <= CategoryCrew; c++ {
		out = append(out, c)
	}
	return out
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Column returns the movies column a scalar category is stored in.
func (c Category) Column() (string, bool) {
	col, ok := categoryColumns[c]
	return col, ok
}

// IsPerson reports whether the category is extracted from the credits page.
func (c Category) IsPerson() bool {
	return c == CategoryCast || c == CategoryCrew
}

// ParseCategory maps a name like "production_year" (or "production-year") to its Category.
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	for c, cn := range categoryNames {
		if cn == n {
			return c, nil
		}
	}
	return 0, &ConfigError{Reason: fmt.Sprintf("unknown category %q", name)}
}

// CategorySet is an unordered set of categories.
type CategorySet map[Category]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// AllCategorySet returns a set containing every category.
func AllCategorySet() CategorySet {
	return NewCategorySet(AllCategories()...)
}

// PersonCategories are the categories that need the credits page.
func PersonCategories() CategorySet {
	return NewCategorySet(CategoryCast, CategoryCrew)
}

func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

func (s CategorySet) Add(c Category) {
	s[c] = struct{}{}
}

// Intersect returns the categories present in both sets.
func (s CategorySet) Intersect(other CategorySet) CategorySet {
	out := make(CategorySet)
	for c := range s {
		if other.Has(c) {
			out.Add(c)
		}
	}
	return out
}

// Sorted returns the members in declaration order.
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Names returns the sorted category names, used for logging.
func (s CategorySet) Names() []string {
	cats := s.Sorted()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.String()
	}
	return out
}
