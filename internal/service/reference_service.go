package service

import (
	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/parser"
	"github.com/pokerjest/movieAutoTool/internal/updater"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lookupService serves one name-keyed table (genres, countries, ...).
type lookupService struct {
	db     *gorm.DB
	model  interface{}
	create func(tx *gorm.DB, name string) (uint, error)
}

func newLookupService(conn *gorm.DB, c updater.Category) updater.Lookup {
	switch c {
	case updater.CategoryGenre:
		return &lookupService{db: conn, model: &model.Genre{}, create: func(tx *gorm.DB, name string) (uint, error) {
			row := model.Genre{Name: name}
			err := tx.Create(&row).Error
			return row.ID, err
		}}
	case updater.CategoryCountry:
		return &lookupService{db: conn, model: &model.Country{}, create: func(tx *gorm.DB, name string) (uint, error) {
			row := model.Country{Name: name}
			err := tx.Create(&row).Error
			return row.ID, err
		}}
	case updater.CategoryLanguage:
		return &lookupService{db: conn, model: &model.Language{}, create: func(tx *gorm.DB, name string) (uint, error) {
			row := model.Language{Name: name}
			err := tx.Create(&row).Error
			return row.ID, err
		}}
	case updater.CategoryContentRating:
		return &lookupService{db: conn, model: &model.ContentRating{}, create: func(tx *gorm.DB, name string) (uint, error) {
			row := model.ContentRating{Name: name}
			err := tx.Create(&row).Error
			return row.ID, err
		}}
	}
	return nil
}

// GetByName matches on the folded name, so case differences outside ASCII
// match too.
func (s *lookupService) GetByName(name string) (uint, bool, error) {
	var ids []uint
	err := s.db.Model(s.model).
		Where("name_key = ?", parser.FoldName(name)).
		Order("id").Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

func (s *lookupService) Create(name string) (uint, error) {
	return s.create(s.db, name)
}

// relationService manages the join rows of one list category.
type relationService struct {
	db    *gorm.DB
	model interface{}
	// columns read back by ListForMovie
	columns string
	build   func(movieID, entityID uint, a updater.RelationAttrs) interface{}
}

func newRelationService(conn *gorm.DB, c updater.Category) updater.Relations {
	switch c {
	case updater.CategoryGenre:
		return &relationService{db: conn, model: &model.MovieGenre{}, columns: "genre_id AS entity_id, is_primary, position", build: func(movieID, id uint, a updater.RelationAttrs) interface{} {
			return &model.MovieGenre{MovieID: movieID, GenreID: id, IsPrimary: a.IsPrimary, Position: a.Position}
		}}
	case updater.CategoryCountry:
		return &relationService{db: conn, model: &model.MovieCountry{}, columns: "country_id AS entity_id, is_primary, position", build: func(movieID, id uint, a updater.RelationAttrs) interface{} {
			return &model.MovieCountry{MovieID: movieID, CountryID: id, IsPrimary: a.IsPrimary, Position: a.Position}
		}}
	case updater.CategoryLanguage:
		return &relationService{db: conn, model: &model.MovieLanguage{}, columns: "language_id AS entity_id, is_primary, position", build: func(movieID, id uint, a updater.RelationAttrs) interface{} {
			return &model.MovieLanguage{MovieID: movieID, LanguageID: id, IsPrimary: a.IsPrimary, Position: a.Position}
		}}
	case updater.CategoryCast:
		return &relationService{db: conn, model: &model.MovieActor{}, columns: "person_id AS entity_id, position, `character`", build: func(movieID, id uint, a updater.RelationAttrs) interface{} {
			return &model.MovieActor{MovieID: movieID, PersonID: id, Character: a.Character, Position: a.Position}
		}}
	case updater.CategoryCrew:
		return &relationService{db: conn, model: &model.MovieDirector{}, columns: "person_id AS entity_id, is_primary, position", build: func(movieID, id uint, a updater.RelationAttrs) interface{} {
			return &model.MovieDirector{MovieID: movieID, PersonID: id, IsPrimary: a.IsPrimary, Position: a.Position}
		}}
	}
	return nil
}

func (s *relationService) ExistsForMovie(movieID uint) (bool, error) {
	var n int64
	if err := s.db.Model(s.model).Where("movie_id = ?", movieID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *relationService) ListForMovie(movieID uint) ([]updater.RelationRow, error) {
	var rows []struct {
		EntityID  uint
		IsPrimary bool
		Position  int
		Character string
	}
	err := s.db.Model(s.model).
		Select(s.columns).
		Where("movie_id = ?", movieID).
		Order("position, id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]updater.RelationRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, updater.RelationRow{EntityID: r.EntityID, RelationAttrs: updater.RelationAttrs{
			IsPrimary: r.IsPrimary,
			Position:  r.Position,
			Character: r.Character,
		}})
	}
	return out, nil
}

func (s *relationService) DeleteAllForMovie(movieID uint) error {
	return s.db.Where("movie_id = ?", movieID).Delete(s.model).Error
}

func (s *relationService) CreateRelation(movieID, entityID uint, attrs updater.RelationAttrs) error {
	// the referenced row already exists
	return s.db.Omit(clause.Associations).Create(s.build(movieID, entityID, attrs)).Error
}
