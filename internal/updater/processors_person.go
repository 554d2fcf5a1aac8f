package updater

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/parser"
)

// PersonResolver matches extracted credits to Person rows, creating missing
// people. Photos of new people are fetched on a best-effort basis.
type PersonResolver struct {
	Images   ImageStore
	PhotoDir string
}

// Resolve returns the person id: by reference id first, then by normalized
// full name, else a newly created person carrying photo.
func (r PersonResolver) Resolve(s *Session, imdbID, name, photo string) (uint, error) {
	people := s.Store.People()
	imdbID = strings.TrimSpace(imdbID)
	name = strings.Join(strings.Fields(name), " ")
	normalized := parser.NormalizeName(name)

	p, err := r.find(people, imdbID, normalized)
	if err != nil {
		return 0, err
	}
	if p != nil {
		if imdbID != "" && (p.IMDbID == nil || *p.IMDbID == "") {
			if err := people.SetIMDbID(p.ID, imdbID); err != nil {
				return 0, err
			}
		}
		return p.ID, nil
	}

	if name == "" {
		return 0, fmt.Errorf("credit without name (imdb_id=%q)", imdbID)
	}

	person := &model.Person{Name: name, NormalizedName: normalized, Photo: photo}
	if imdbID != "" {
		id := imdbID
		person.IMDbID = &id
	}
	if err := people.Create(person); err != nil {
		return 0, err
	}
	return person.ID, nil
}

func (r PersonResolver) find(people PersonService, imdbID, normalized string) (*model.Person, error) {
	if imdbID != "" {
		p, err := people.GetByIMDbID(imdbID)
		if err != nil || p != nil {
			return p, err
		}
	}
	if normalized != "" {
		return people.GetByNormalizedName(normalized)
	}
	return nil, nil
}

// Photo downloads the photo of a person not in the catalog yet and returns
// the stored file name, or "".
func (r PersonResolver) Photo(ctx context.Context, people PersonService, imdbID, name, photoURL string) string {
	if r.Images == nil || strings.TrimSpace(photoURL) == "" {
		return ""
	}
	imdbID = strings.TrimSpace(imdbID)
	normalized := parser.NormalizeName(name)
	if p, err := r.find(people, imdbID, normalized); err != nil || p != nil {
		return ""
	}

	stem := imdbID
	if stem == "" {
		stem = strings.ReplaceAll(normalized, " ", "_")
	}
	if stem == "" {
		return ""
	}
	_, file, err := r.Images.Download(ctx, photoURL, r.PhotoDir, stem+".jpg")
	if err != nil {
		logging.Warn().Err(err).Str("url", photoURL).Msg("Updater: person photo download failed")
		return ""
	}
	return file
}

// photos fills Photo for each credit; the same URL is downloaded once.
func (r PersonResolver) photos(ctx context.Context, store Store, n int, credit func(i int) (imdbID, name, url string), set func(i int, file string)) {
	people := store.People()
	done := make(map[string]string)
	for i := 0; i < n; i++ {
		imdbID, name, url := credit(i)
		if url == "" {
			continue
		}
		file, ok := done[url]
		if !ok {
			file = r.Photo(ctx, people, imdbID, name, url)
			done[url] = file
		}
		set(i, file)
	}
}

// CastProcessor rewrites the movie's actor rows.
type CastProcessor struct {
	People PersonResolver
}

func (p CastProcessor) Prepare(ctx context.Context, store Store, _ string, value any) (any, bool) {
	cast, ok := value.([]CastMember)
	if !ok {
		return value, true
	}
	out := slices.Clone(cast)
	p.People.photos(ctx, store, len(out),
		func(i int) (string, string, string) { return out[i].IMDbID, out[i].Name, out[i].PhotoURL },
		func(i int, file string) { out[i].Photo = file })
	return out, true
}

func (p CastProcessor) Process(s *Session, value any) (Result, error) {
	cast, ok := value.([]CastMember)
	if !ok {
		return Result{}, unexpectedValue(CategoryCast, value)
	}
	rels := s.Store.Relations(CategoryCast)
	if rels == nil {
		return Result{}, &ConfigError{Category: CategoryCast, Reason: "no relation service"}
	}

	seen := make(map[uint]struct{}, len(cast))
	var want []RelationRow
	for _, m := range cast {
		personID, err := p.People.Resolve(s, m.IMDbID, m.Name, m.Photo)
		if err != nil {
			return Result{}, fmt.Errorf("cast %q: %w", m.Name, err)
		}
		// one row per person; the first credited role wins
		if _, dup := seen[personID]; dup {
			continue
		}
		seen[personID] = struct{}{}
		want = append(want, RelationRow{EntityID: personID, RelationAttrs: RelationAttrs{
			Position:  len(want),
			Character: strings.TrimSpace(m.Character),
		}})
	}
	changed, err := replaceRelations(rels, s.Movie.ID, want)
	if err != nil {
		return Result{}, fmt.Errorf("cast: %w", err)
	}
	return Result{Relations: changed}, nil
}

// CrewProcessor rewrites the movie's director rows; the first is primary.
type CrewProcessor struct {
	People PersonResolver
}

func (p CrewProcessor) Prepare(ctx context.Context, store Store, _ string, value any) (any, bool) {
	crew, ok := value.([]CrewMember)
	if !ok {
		return value, true
	}
	out := slices.Clone(crew)
	p.People.photos(ctx, store, len(out),
		func(i int) (string, string, string) { return out[i].IMDbID, out[i].Name, out[i].PhotoURL },
		func(i int, file string) { out[i].Photo = file })
	return out, true
}

func (p CrewProcessor) Process(s *Session, value any) (Result, error) {
	crew, ok := value.([]CrewMember)
	if !ok {
		return Result{}, unexpectedValue(CategoryCrew, value)
	}
	rels := s.Store.Relations(CategoryCrew)
	if rels == nil {
		return Result{}, &ConfigError{Category: CategoryCrew, Reason: "no relation service"}
	}

	seen := make(map[uint]struct{}, len(crew))
	var want []RelationRow
	for _, m := range crew {
		personID, err := p.People.Resolve(s, m.IMDbID, m.Name, m.Photo)
		if err != nil {
			return Result{}, fmt.Errorf("crew %q: %w", m.Name, err)
		}
		if _, dup := seen[personID]; dup {
			continue
		}
		seen[personID] = struct{}{}
		pos := len(want)
		want = append(want, RelationRow{EntityID: personID, RelationAttrs: RelationAttrs{IsPrimary: pos == 0, Position: pos}})
	}
	changed, err := replaceRelations(rels, s.Movie.ID, want)
	if err != nil {
		return Result{}, fmt.Errorf("crew: %w", err)
	}
	return Result{Relations: changed}, nil
}
