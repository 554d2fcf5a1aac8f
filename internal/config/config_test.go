package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// empty dir, no config.yaml
	require.NoError(t, LoadConfig(t.TempDir()))
	require.NotNil(t, AppConfig)

	assert.Equal(t, 8306, AppConfig.Server.Port)
	assert.Equal(t, "release", AppConfig.Server.Mode)
	assert.Equal(t, "data/movies.db", AppConfig.Database.Path)
	assert.Equal(t, 30, AppConfig.Updater.IntervalDays)
	assert.Equal(t, "@daily", AppConfig.Updater.Schedule)
	assert.Equal(t, "https://www.imdb.com", AppConfig.Scraper.BaseURL)
	assert.Equal(t, 15*time.Second, AppConfig.Scraper.Timeout)
	assert.Equal(t, "data/posters", AppConfig.Storage.PosterDir)

	enabled, err := AppConfig.EnabledCategories()
	require.NoError(t, err)
	assert.Len(t, enabled, len(updater.AllCategories()))
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("MOVIE_SERVER_PORT", "9999")
	t.Setenv("MOVIE_UPDATER_CATEGORIES_POSTER", "false")

	require.NoError(t, LoadConfig(t.TempDir()))
	assert.Equal(t, 9999, AppConfig.Server.Port)

	enabled, err := AppConfig.EnabledCategories()
	require.NoError(t, err)
	assert.False(t, enabled.Has(updater.CategoryPoster))
	assert.True(t, enabled.Has(updater.CategoryRating))
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
updater:
  interval_days: 7
  schedule: ""
  categories:
    cast: false
    crew: false
scraper:
  requests_per_second: 0.5
tmdb:
  token: abc
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	require.NoError(t, LoadConfig(dir))

	assert.Equal(t, 7, AppConfig.Updater.IntervalDays)
	assert.Empty(t, AppConfig.Updater.Schedule)
	assert.Equal(t, 0.5, AppConfig.Scraper.RequestsPerSecond)
	assert.Equal(t, "abc", AppConfig.TMDB.Token)

	settings, err := AppConfig.UpdaterSettings()
	require.NoError(t, err)
	assert.Equal(t, 7, settings.IntervalDays)
	assert.False(t, settings.Enabled.Has(updater.CategoryCast))
	assert.False(t, settings.Enabled.Has(updater.CategoryCrew))
	assert.True(t, settings.Enabled.Has(updater.CategoryGenre))
}

func TestLoadConfig_UnknownCategory(t *testing.T) {
	dir := t.TempDir()
	yaml := "updater:\n  categories:\n    soundtrack: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	err := LoadConfig(dir)
	var cfgErr *updater.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
