package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/updater"
	"gorm.io/gorm"
)

type MovieService struct {
	DB *gorm.DB
}

func NewMovieService(conn *gorm.DB) *MovieService {
	return &MovieService{DB: conn}
}

// Get loads a movie without its relations.
func (s *MovieService) Get(id uint) (*model.Movie, error) {
	var m model.Movie
	if err := s.DB.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("movie %d: %w", id, updater.ErrMovieNotFound)
		}
		return nil, err
	}
	return &m, nil
}

// Update writes the given columns. A nil value clears a nullable column.
func (s *MovieService) Update(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := s.DB.Model(&model.Movie{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movie %d: %w", id, updater.ErrMovieNotFound)
	}
	return nil
}

// Find returns the ids of the batch candidates in id order.
func (s *MovieService) Find(filter updater.MovieFilter) ([]uint, error) {
	q := s.DB.Model(&model.Movie{})
	if filter.SyncedBefore != nil {
		q = q.Where("synced_at IS NULL OR synced_at < ?", *filter.SyncedBefore)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at <= ?", *filter.CreatedTo)
	}

	var ids []uint
	if err := q.Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Detail loads a movie with every relation, for display.
func (s *MovieService) Detail(id uint) (*model.Movie, error) {
	var m model.Movie
	err := s.DB.
		Preload("ContentRating").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Genres.Genre").
		Preload("Countries", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Countries.Country").
		Preload("Languages", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Languages.Language").
		Preload("Actors", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Actors.Person").
		Preload("Directors", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Directors.Person").
		First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("movie %d: %w", id, updater.ErrMovieNotFound)
		}
		return nil, err
	}
	return &m, nil
}

// List pages through the catalog, newest first.
func (s *MovieService) List(offset, limit int) ([]model.Movie, int64, error) {
	var total int64
	if err := s.DB.Model(&model.Movie{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50 // 默认值
	}
	var movies []model.Movie
	err := s.DB.Preload("ContentRating").Order("id desc").Offset(offset).Limit(limit).Find(&movies).Error
	return movies, total, err
}

// Create adds a catalog entry; an imdbID of "" leaves the reference unresolved.
func (s *MovieService) Create(title, filePath, imdbID string) (*model.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	m := &model.Movie{Title: title, FilePath: filePath}
	if imdbID != "" {
		m.IMDbID = &imdbID
	}
	if err := s.DB.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}
