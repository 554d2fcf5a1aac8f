package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/pokerjest/movieAutoTool/internal/parser"
)

// Movie 代表本地片库中的一部电影
type Movie struct {
	gorm.Model
	IMDbID          *string        `json:"imdb_id" gorm:"column:imdb_id;uniqueIndex"` // 参考页标识 (tt1234567)
	Title           string         `json:"title" form:"title"`
	OriginalTitle   string         `json:"original_title"`
	ProductionYear  *int           `json:"production_year"`
	Rating          *float64       `json:"rating"`
	CriticScore     *int           `json:"critic_score"`
	Runtime         *int           `json:"runtime"` // minutes
	Storyline       string         `json:"storyline" gorm:"type:text"`
	Poster          string         `json:"poster"` // file name under storage.poster_dir
	ContentRatingID *uint          `json:"content_rating_id" gorm:"index"`
	ContentRating   *ContentRating `json:"content_rating,omitempty"`
	FilePath        string         `json:"file_path"`
	SyncedAt        *time.Time     `json:"synced_at" gorm:"index"` // 最近一次元数据同步时间

	Genres    []MovieGenre    `json:"genres,omitempty"`
	Countries []MovieCountry  `json:"countries,omitempty"`
	Languages []MovieLanguage `json:"languages,omitempty"`
	Actors    []MovieActor    `json:"actors,omitempty"`
	Directors []MovieDirector `json:"directors,omitempty"`
}

// Genre, Country, Language and ContentRating are name-keyed lookup rows.
// NameKey is the case-folded name used for matching.
type Genre struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	NameKey string `json:"-" gorm:"index"`
}

func (r *Genre) BeforeSave(*gorm.DB) error {
	r.NameKey = parser.FoldName(r.Name)
	return nil
}

type Country struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	NameKey string `json:"-" gorm:"index"`
}

func (r *Country) BeforeSave(*gorm.DB) error {
	r.NameKey = parser.FoldName(r.Name)
	return nil
}

type Language struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	NameKey string `json:"-" gorm:"index"`
}

func (r *Language) BeforeSave(*gorm.DB) error {
	r.NameKey = parser.FoldName(r.Name)
	return nil
}

type ContentRating struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"uniqueIndex;not null"`
	NameKey string `json:"-" gorm:"index"`
}

func (r *ContentRating) BeforeSave(*gorm.DB) error {
	r.NameKey = parser.FoldName(r.Name)
	return nil
}

// MovieGenre 电影-类型关联，第一条为主类型
type MovieGenre struct {
	ID        uint  `json:"-" gorm:"primaryKey"`
	MovieID   uint  `json:"-" gorm:"index;not null"`
	GenreID   uint  `json:"-" gorm:"index;not null"`
	Genre     Genre `json:"genre"`
	IsPrimary bool  `json:"is_primary"`
	Position  int   `json:"position"`
}

type MovieCountry struct {
	ID        uint    `json:"-" gorm:"primaryKey"`
	MovieID   uint    `json:"-" gorm:"index;not null"`
	CountryID uint    `json:"-" gorm:"index;not null"`
	Country   Country `json:"country"`
	IsPrimary bool    `json:"is_primary"`
	Position  int     `json:"position"`
}

type MovieLanguage struct {
	ID         uint     `json:"-" gorm:"primaryKey"`
	MovieID    uint     `json:"-" gorm:"index;not null"`
	LanguageID uint     `json:"-" gorm:"index;not null"`
	Language   Language `json:"language"`
	IsPrimary  bool     `json:"is_primary"`
	Position   int      `json:"position"`
}

// Person 演员/导演
type Person struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IMDbID         *string   `json:"imdb_id" gorm:"column:imdb_id;uniqueIndex"` // nm1234567
	Name           string    `json:"name" gorm:"not null"`
	NormalizedName string    `json:"-" gorm:"index"`
	Photo          string    `json:"photo"` // file name under storage.photo_dir
}

type MovieActor struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	MovieID   uint   `json:"-" gorm:"index;not null"`
	PersonID  uint   `json:"-" gorm:"index;not null"`
	Person    Person `json:"person"`
	Character string `json:"character"`
	Position  int    `json:"position"`
}

type MovieDirector struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	MovieID   uint   `json:"-" gorm:"index;not null"`
	PersonID  uint   `json:"-" gorm:"index;not null"`
	Person    Person `json:"person"`
	IsPrimary bool   `json:"is_primary"`
	Position  int    `json:"position"`
}

// AllModels is the migration list.
func AllModels() []interface{} {
	return []interface{}{
		&Genre{}, &Country{}, &Language{}, &ContentRating{}, &Person{},
		&Movie{},
		&MovieGenre{}, &MovieCountry{}, &MovieLanguage{}, &MovieActor{}, &MovieDirector{},
	}
}
