package updater

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/metrics"
	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/parser"
)

// SearchKind is the domain category passed to searchers.
const SearchKind = "movie"

// ErrInvalidReferenceURL is returned when an explicit reference URL carries no identifier.
var ErrInvalidReferenceURL = errors.New("invalid reference url")

// Config holds the updater settings.
type Config struct {
	IntervalDays int
	// Enabled are the categories allowed by configuration. Nil means all.
	Enabled CategorySet
}

// Options tune one sync.
type Options struct {
	// Categories requested by the caller. Nil means all; the result is
	// intersected with Config.Enabled.
	Categories CategorySet
	Force      bool
	// URL is an explicit reference page; its identifier replaces the stored one.
	URL string
}

// Updater keeps movie metadata in sync with the reference site.
type Updater struct {
	store      Store
	fetcher    *Fetcher
	processors *ProcessorRegistry
	searcher   Searcher
	site       ReferenceSite
	cfg        Config
	now        func() time.Time
}

// New wires the updater. The registries are read-only from here on.
func New(store Store, fetcher *Fetcher, processors *ProcessorRegistry, searcher Searcher, site ReferenceSite, cfg Config) *Updater {
	if cfg.Enabled == nil {
		cfg.Enabled = AllCategorySet()
	}
	return &Updater{
		store:      store,
		fetcher:    fetcher,
		processors: processors,
		searcher:   searcher,
		site:       site,
		cfg:        cfg,
		now:        time.Now,
	}
}

// SetClock replaces the time source.
func (u *Updater) SetClock(now func() time.Time) {
	u.now = now
}

// UpdateMovie synchronizes one movie and reports whether anything changed.
func (u *Updater) UpdateMovie(ctx context.Context, movieID uint, opts Options) (bool, error) {
	updated, err := u.updateMovie(ctx, movieID, opts)
	switch {
	case errors.Is(err, ErrReferenceNotFound):
		metrics.SyncTotal.WithLabelValues(metrics.ResultNotFound).Inc()
	case err != nil:
		metrics.SyncTotal.WithLabelValues(metrics.ResultFailed).Inc()
	case updated:
		metrics.SyncTotal.WithLabelValues(metrics.ResultUpdated).Inc()
	default:
		metrics.SyncTotal.WithLabelValues(metrics.ResultNotUpdated).Inc()
	}
	return updated, err
}

func (u *Updater) updateMovie(ctx context.Context, movieID uint, opts Options) (bool, error) {
	movies := u.store.Movies()
	movie, err := movies.Get(movieID)
	if err != nil {
		return false, err
	}
	now := u.now()
	stored := deref(movie.IMDbID)
	log := logging.With().Uint("movie_id", movie.ID).Str("title", movie.Title).Logger()

	// 1. Resolving URL
	refID := stored
	force := opts.Force
	if strings.TrimSpace(opts.URL) != "" {
		id, ok := u.site.IDFromURL(opts.URL)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrInvalidReferenceURL, opts.URL)
		}
		refID = id
		// data from a different reference page is stale as a whole
		if refID != stored {
			force = true
		}
	} else if refID == "" && NeedsRefresh(refID, force, movie.SyncedAt, u.cfg.IntervalDays, now) {
		refID, err = u.resolve(ctx, movie)
		if err != nil {
			return false, err
		}
		if refID == "" {
			// touch synced_at so the next attempt waits for the interval
			if err := movies.Update(movie.ID, map[string]interface{}{"imdb_id": nil, "synced_at": now}); err != nil {
				return false, fmt.Errorf("record unresolved reference: %w", err)
			}
			log.Info().Msg("Updater: reference page not found")
			return false, ErrReferenceNotFound
		}
		log.Info().Str("imdb_id", refID).Msg("Updater: reference page resolved")
	}
	if refID == "" {
		log.Debug().Msg("Updater: no reference page yet, waiting for next window")
		return false, nil
	}

	// 2. Selecting categories
	enabled := u.cfg.Enabled
	if opts.Categories != nil {
		enabled = enabled.Intersect(opts.Categories)
	}
	snap, err := u.snapshot(movie, enabled)
	if err != nil {
		return false, err
	}
	selected := SelectCategories(snap, enabled, force, movie.SyncedAt, u.cfg.IntervalDays, now)
	if len(selected) == 0 {
		if refID != stored {
			// keep a resolved or explicit id so it is not searched again
			if err := movies.Update(movie.ID, map[string]interface{}{"imdb_id": refID, "synced_at": now}); err != nil {
				return false, fmt.Errorf("persist movie %d: %w", movie.ID, err)
			}
			log.Info().Str("imdb_id", refID).Msg("Updater: reference id stored, nothing due")
			return true, nil
		}
		log.Debug().Msg("Updater: nothing due")
		return false, nil
	}

	// 3. Fetching
	pageURL := u.site.PageURL(refID)
	log.Info().Strs("categories", selected.Names()).Str("url", pageURL).Msg("Updater: fetching")
	values, err := u.fetcher.Fetch(ctx, pageURL, selected)
	if err != nil {
		return false, err
	}
	// image downloads happen here, not while the transaction holds the lock
	for _, c := range selected.Sorted() {
		v, ok := values[c]
		if !ok {
			continue
		}
		prepared, ok := u.processors.Prepare(ctx, c, u.store, refID, v)
		if !ok {
			delete(values, c)
			continue
		}
		values[c] = prepared
	}

	// 4-6. Processing and persisting, atomically
	changed := false
	err = u.store.Transaction(func(tx Store) error {
		session := &Session{Ctx: ctx, Store: tx, Movie: movie, IMDbID: refID}
		current := currentFields(movie)
		fields := make(map[string]interface{})
		relations := false

		for _, c := range selected.Sorted() {
			v, ok := values[c]
			if !ok {
				continue
			}
			res, err := u.processors.Process(c, session, v)
			if err != nil {
				return fmt.Errorf("process %s: %w", c, err)
			}
			relations = relations || res.Relations
			for col, val := range res.Fields {
				if !sameValue(current[col], val) {
					fields[col] = val
				}
			}
		}
		if refID != stored {
			fields["imdb_id"] = refID
		}

		changed = len(fields) > 0 || relations
		fields["synced_at"] = now
		return tx.Movies().Update(movie.ID, fields)
	})
	if err != nil {
		return false, fmt.Errorf("persist movie %d: %w", movie.ID, err)
	}

	log.Info().Bool("updated", changed).Int("values", len(values)).Msg("Updater: sync finished")
	return changed, nil
}

func (u *Updater) resolve(ctx context.Context, movie *model.Movie) (string, error) {
	if u.searcher == nil {
		return "", nil
	}
	title := movie.Title
	if strings.TrimSpace(title) == "" {
		title = movie.OriginalTitle
	}
	query := parser.CleanTitle(title)
	if query == "" {
		return "", nil
	}
	found, err := u.searcher.Search(ctx, query, SearchKind)
	if err != nil {
		return "", fmt.Errorf("%w: search reference page: %w", ErrRemote, err)
	}
	if found == "" {
		return "", nil
	}
	id, ok := u.site.IDFromURL(found)
	if !ok {
		return "", nil
	}
	return id, nil
}

// snapshot reads the current value of each enabled category. Relation
// categories are answered with existence queries.
func (u *Updater) snapshot(movie *model.Movie, enabled CategorySet) (Snapshot, error) {
	snap := make(Snapshot, len(enabled))
	for _, c := range enabled.Sorted() {
		switch c {
		case CategoryContentRating:
			snap[c] = movie.ContentRatingID
		case CategoryCriticScore:
			snap[c] = movie.CriticScore
		case CategoryPoster:
			snap[c] = movie.Poster
		case CategoryOriginalTitle:
			snap[c] = movie.OriginalTitle
		case CategoryProductionYear:
			snap[c] = movie.ProductionYear
		case CategoryRating:
			snap[c] = movie.Rating
		case CategoryRuntime:
			snap[c] = movie.Runtime
		case CategoryStoryline:
			snap[c] = movie.Storyline
		case CategoryTitle:
			snap[c] = movie.Title
		default:
			rels := u.store.Relations(c)
			if rels == nil {
				return nil, &ConfigError{Category: c, Reason: "no relation service"}
			}
			has, err := rels.ExistsForMovie(movie.ID)
			if err != nil {
				return nil, fmt.Errorf("check %s relations: %w", c, err)
			}
			snap[c] = has
		}
	}
	return snap, nil
}

// currentFields returns the movie's column values, dereferenced, keyed like
// processor results.
func currentFields(m *model.Movie) map[string]interface{} {
	out := map[string]interface{}{
		"title":          m.Title,
		"original_title": m.OriginalTitle,
		"storyline":      m.Storyline,
		"poster":         m.Poster,
	}
	if m.ProductionYear != nil {
		out["production_year"] = *m.ProductionYear
	}
	if m.Rating != nil {
		out["rating"] = *m.Rating
	}
	if m.CriticScore != nil {
		out["critic_score"] = *m.CriticScore
	}
	if m.Runtime != nil {
		out["runtime"] = *m.Runtime
	}
	if m.ContentRatingID != nil {
		out["content_rating_id"] = *m.ContentRatingID
	}
	return out
}

func sameValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
