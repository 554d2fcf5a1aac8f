package updater

import (
	"context"
	"time"

	"github.com/pokerjest/movieAutoTool/internal/model"
)

// MovieFilter selects batch candidates. A nil bound is not applied.
type MovieFilter struct {
	// SyncedBefore keeps movies never synced or synced before this instant.
	SyncedBefore *time.Time
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// MovieRepository is the catalog persistence the updater needs.
type MovieRepository interface {
	Get(id uint) (*model.Movie, error)
	Update(id uint, fields map[string]interface{}) error
	Find(filter MovieFilter) ([]uint, error)
}

// Lookup resolves name-keyed reference rows (genre, country, language,
// content rating). GetByName matches case-insensitively.
type Lookup interface {
	GetByName(name string) (id uint, found bool, err error)
	Create(name string) (uint, error)
}

// RelationAttrs are the per-row attributes of a movie relation.
type RelationAttrs struct {
	IsPrimary bool
	Position  int
	Character string
}

// RelationRow is one join row as stored.
type RelationRow struct {
	EntityID uint
	RelationAttrs
}

// Relations manages the join rows of one list category.
type Relations interface {
	ExistsForMovie(movieID uint) (bool, error)
	// ListForMovie returns the rows ordered by position.
	ListForMovie(movieID uint) ([]RelationRow, error)
	DeleteAllForMovie(movieID uint) error
	CreateRelation(movieID, entityID uint, attrs RelationAttrs) error
}

// PersonService finds and creates cast and crew members.
type PersonService interface {
	GetByIMDbID(imdbID string) (*model.Person, error)
	GetByNormalizedName(normalized string) (*model.Person, error)
	Create(p *model.Person) error
	SetIMDbID(personID uint, imdbID string) error
}

// Store groups the services. Implementations bound to a transaction are
// handed to processors by Transaction.
type Store interface {
	Movies() MovieRepository
	Lookup(c Category) Lookup
	Relations(c Category) Relations
	People() PersonService
	Transaction(fn func(tx Store) error) error
}

// ImageStore keeps downloaded posters and person photos.
type ImageStore interface {
	Exists(dir, name string) bool
	Download(ctx context.Context, url, dir, preferredName string) (path string, name string, err error)
}

// Searcher resolves a title to a reference page URL. An empty URL with a nil
// error means "no match".
type Searcher interface {
	Search(ctx context.Context, query, kind string) (string, error)
}

// ReferenceSite knows the reference site's URL scheme.
type ReferenceSite interface {
	PageURL(id string) string
	CreditsURL(pageURL string) string
	IDFromURL(raw string) (string, bool)
}
