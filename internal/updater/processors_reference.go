package updater

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pokerjest/movieAutoTool/internal/parser"
)

// ContentRatingProcessor resolves a rating label ("PG-13") to its lookup row,
// creating it on first sight, and writes the foreign key.
type ContentRatingProcessor struct{}

func (ContentRatingProcessor) Process(s *Session, value any) (Result, error) {
	name, ok := value.(string)
	if !ok {
		return Result{}, unexpectedValue(CategoryContentRating, value)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}, nil
	}
	lookup := s.Store.Lookup(CategoryContentRating)
	if lookup == nil {
		return Result{}, &ConfigError{Category: CategoryContentRating, Reason: "no lookup service"}
	}
	id, err := getOrCreate(lookup, name)
	if err != nil {
		return Result{}, fmt.Errorf("content rating %q: %w", name, err)
	}
	col, _ := CategoryContentRating.Column()
	return Result{Fields: map[string]interface{}{col: id}}, nil
}

// ListReferenceProcessor rewrites the genre, country or language relation of
// a movie: one row per extracted name in extraction order, the first flagged
// primary. Rows already matching are left alone.
type ListReferenceProcessor struct {
	Category Category
}

func (p ListReferenceProcessor) Process(s *Session, value any) (Result, error) {
	names, ok := value.([]string)
	if !ok {
		return Result{}, unexpectedValue(p.Category, value)
	}
	lookup := s.Store.Lookup(p.Category)
	rels := s.Store.Relations(p.Category)
	if lookup == nil || rels == nil {
		return Result{}, &ConfigError{Category: p.Category, Reason: "no lookup or relation service"}
	}

	var want []RelationRow
	for _, name := range dedupeFold(names) {
		id, err := getOrCreate(lookup, name)
		if err != nil {
			return Result{}, fmt.Errorf("%s %q: %w", p.Category, name, err)
		}
		pos := len(want)
		want = append(want, RelationRow{EntityID: id, RelationAttrs: RelationAttrs{IsPrimary: pos == 0, Position: pos}})
	}
	changed, err := replaceRelations(rels, s.Movie.ID, want)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", p.Category, err)
	}
	return Result{Relations: changed}, nil
}

// replaceRelations makes the movie's rows equal to want and reports whether
// anything had to be rewritten.
func replaceRelations(rels Relations, movieID uint, want []RelationRow) (bool, error) {
	have, err := rels.ListForMovie(movieID)
	if err != nil {
		return false, fmt.Errorf("list relations: %w", err)
	}
	if slices.Equal(have, want) {
		return false, nil
	}
	if err := rels.DeleteAllForMovie(movieID); err != nil {
		return false, fmt.Errorf("clear relations: %w", err)
	}
	for _, row := range want {
		if err := rels.CreateRelation(movieID, row.EntityID, row.RelationAttrs); err != nil {
			return false, fmt.Errorf("create relation %d: %w", row.EntityID, err)
		}
	}
	return true, nil
}

func getOrCreate(lookup Lookup, name string) (uint, error) {
	id, found, err := lookup.GetByName(name)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	return lookup.Create(name)
}

// dedupeFold trims names and drops case-insensitive duplicates, keeping order.
func dedupeFold(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		key := parser.FoldName(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
