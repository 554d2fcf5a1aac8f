package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pokerjest/movieAutoTool/internal/db"
	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/updater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "movies.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestMovieService_GetUpdate(t *testing.T) {
	conn := openTestDB(t)
	svc := NewMovieService(conn)

	m, err := svc.Create("Heat", "/movies/Heat.1995.mkv", "")
	require.NoError(t, err)

	_, err = svc.Get(m.ID + 100)
	assert.True(t, errors.Is(err, updater.ErrMovieNotFound))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, svc.Update(m.ID, map[string]interface{}{
		"rating":    7.5,
		"imdb_id":   "tt0113277",
		"synced_at": now,
	}))

	got, err := svc.Get(m.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 7.5, *got.Rating)
	require.NotNil(t, got.IMDbID)
	assert.Equal(t, "tt0113277", *got.IMDbID)
	require.NotNil(t, got.SyncedAt)
	assert.True(t, now.Equal(got.SyncedAt.UTC()))

	// clearing a nullable column
	require.NoError(t, svc.Update(m.ID, map[string]interface{}{"imdb_id": nil}))
	got, err = svc.Get(m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.IMDbID)
}

func TestMovieService_Find(t *testing.T) {
	conn := openTestDB(t)
	svc := NewMovieService(conn)

	now := time.Now()
	old := now.Add(-40 * 24 * time.Hour)
	recent := now.Add(-2 * 24 * time.Hour)

	never, _ := svc.Create("Never Synced", "", "")
	stale, _ := svc.Create("Stale", "", "")
	fresh, _ := svc.Create("Fresh", "", "")
	require.NoError(t, svc.Update(stale.ID, map[string]interface{}{"synced_at": old}))
	require.NoError(t, svc.Update(fresh.ID, map[string]interface{}{"synced_at": recent}))

	cutoff := now.Add(-30 * 24 * time.Hour)
	ids, err := svc.Find(updater.MovieFilter{SyncedBefore: &cutoff})
	require.NoError(t, err)
	assert.Equal(t, []uint{never.ID, stale.ID}, ids)

	ids, err = svc.Find(updater.MovieFilter{})
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	// creation window
	require.NoError(t, conn.Model(&model.Movie{}).Where("id = ?", never.ID).
		Update("created_at", now.Add(-100*24*time.Hour)).Error)
	from := now.Add(-50 * 24 * time.Hour)
	ids, err = svc.Find(updater.MovieFilter{CreatedFrom: &from})
	require.NoError(t, err)
	assert.Equal(t, []uint{stale.ID, fresh.ID}, ids)
}

func TestLookupService_CaseInsensitive(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	genres := store.Lookup(updater.CategoryGenre)
	require.NotNil(t, genres)

	_, found, err := genres.GetByName("Drama")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := genres.Create("Drama")
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, found, err := genres.GetByName("drama")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	assert.Nil(t, store.Lookup(updater.CategoryRating))
}

func TestLookupService_FoldsNonASCII(t *testing.T) {
	conn := openTestDB(t)
	countries := NewStore(conn).Lookup(updater.CategoryCountry)

	id, err := countries.Create("États-Unis")
	require.NoError(t, err)

	got, found, err := countries.GetByName("ÉTATS-UNIS")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	_, found, err = countries.GetByName("Etats-Unis")
	require.NoError(t, err)
	assert.False(t, found, "accents are kept")
}

func TestRelationService_ListForMovie(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	m, err := NewMovieService(conn).Create("Heat", "", "")
	require.NoError(t, err)
	pacino := &model.Person{Name: "Al Pacino", NormalizedName: "al pacino"}
	deniro := &model.Person{Name: "Robert De Niro", NormalizedName: "robert de niro"}
	require.NoError(t, conn.Create(pacino).Error)
	require.NoError(t, conn.Create(deniro).Error)

	rels := store.Relations(updater.CategoryCast)
	rows, err := rels.ListForMovie(m.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, rels.CreateRelation(m.ID, deniro.ID, updater.RelationAttrs{Position: 1, Character: "Neil McCauley"}))
	require.NoError(t, rels.CreateRelation(m.ID, pacino.ID, updater.RelationAttrs{Position: 0, Character: "Vincent Hanna"}))

	rows, err = rels.ListForMovie(m.ID)
	require.NoError(t, err)
	assert.Equal(t, []updater.RelationRow{
		{EntityID: pacino.ID, RelationAttrs: updater.RelationAttrs{Position: 0, Character: "Vincent Hanna"}},
		{EntityID: deniro.ID, RelationAttrs: updater.RelationAttrs{Position: 1, Character: "Neil McCauley"}},
	}, rows)
}

func TestRelationService(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	m, err := NewMovieService(conn).Create("Heat", "", "")
	require.NoError(t, err)

	genreID, err := store.Lookup(updater.CategoryGenre).Create("Crime")
	require.NoError(t, err)

	rels := store.Relations(updater.CategoryGenre)
	has, err := rels.ExistsForMovie(m.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, rels.CreateRelation(m.ID, genreID, updater.RelationAttrs{IsPrimary: true}))
	has, err = rels.ExistsForMovie(m.ID)
	require.NoError(t, err)
	assert.True(t, has)

	var count int64
	conn.Model(&model.Genre{}).Count(&count)
	assert.Equal(t, int64(1), count, "creating a relation must not duplicate the genre")

	require.NoError(t, rels.DeleteAllForMovie(m.ID))
	has, err = rels.ExistsForMovie(m.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestPersonService(t *testing.T) {
	conn := openTestDB(t)
	people := NewStore(conn).People()

	p, err := people.GetByIMDbID("nm0000199")
	require.NoError(t, err)
	assert.Nil(t, p)

	al := &model.Person{Name: "Al Pacino", NormalizedName: "al pacino"}
	require.NoError(t, people.Create(al))

	p, err = people.GetByNormalizedName("al pacino")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, al.ID, p.ID)

	require.NoError(t, people.SetIMDbID(al.ID, "nm0000199"))
	p, err = people.GetByIMDbID("nm0000199")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Al Pacino", p.Name)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	m, err := NewMovieService(conn).Create("Heat", "", "")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Transaction(func(tx updater.Store) error {
		id, err := tx.Lookup(updater.CategoryGenre).Create("Crime")
		if err != nil {
			return err
		}
		if err := tx.Relations(updater.CategoryGenre).CreateRelation(m.ID, id, updater.RelationAttrs{}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	has, err := store.Relations(updater.CategoryGenre).ExistsForMovie(m.ID)
	require.NoError(t, err)
	assert.False(t, has)
	_, found, err := store.Lookup(updater.CategoryGenre).GetByName("Crime")
	require.NoError(t, err)
	assert.False(t, found)
}
