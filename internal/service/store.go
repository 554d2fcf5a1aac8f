package service

import (
	"github.com/pokerjest/movieAutoTool/internal/db"
	"github.com/pokerjest/movieAutoTool/internal/updater"
	"gorm.io/gorm"
)

// Store is the gorm-backed updater.Store. A Store created inside Transaction
// is bound to that transaction.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps conn, defaulting to the global database.
func NewStore(conn *gorm.DB) *Store {
	if conn == nil {
		conn = db.DB
	}
	return &Store{DB: conn}
}

func (s *Store) Movies() updater.MovieRepository {
	return NewMovieService(s.DB)
}

func (s *Store) Lookup(c updater.Category) updater.Lookup {
	return newLookupService(s.DB, c)
}

func (s *Store) Relations(c updater.Category) updater.Relations {
	return newRelationService(s.DB, c)
}

func (s *Store) People() updater.PersonService {
	return NewPersonService(s.DB)
}

// Transaction runs fn in a database transaction; any error rolls back.
func (s *Store) Transaction(fn func(tx updater.Store) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{DB: tx})
	})
}
