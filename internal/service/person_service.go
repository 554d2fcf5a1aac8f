package service

import (
	"errors"

	"github.com/pokerjest/movieAutoTool/internal/model"
	"gorm.io/gorm"
)

type PersonService struct {
	DB *gorm.DB
}

func NewPersonService(conn *gorm.DB) *PersonService {
	return &PersonService{DB: conn}
}

// GetByIMDbID returns nil when nobody carries the id.
func (s *PersonService) GetByIMDbID(imdbID string) (*model.Person, error) {
	return s.first("imdb_id = ?", imdbID)
}

// GetByNormalizedName returns the oldest match, or nil.
func (s *PersonService) GetByNormalizedName(normalized string) (*model.Person, error) {
	return s.first("normalized_name = ?", normalized)
}

func (s *PersonService) Create(p *model.Person) error {
	return s.DB.Create(p).Error
}

func (s *PersonService) SetIMDbID(personID uint, imdbID string) error {
	return s.DB.Model(&model.Person{}).Where("id = ?", personID).Update("imdb_id", imdbID).Error
}

func (s *PersonService) first(query string, arg interface{}) (*model.Person, error) {
	var p model.Person
	err := s.DB.Where(query, arg).Order("id").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
