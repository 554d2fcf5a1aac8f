// Package app wires the updater and its collaborators from configuration.
// Both binaries build through here so they sync movies the same way.
package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pokerjest/movieAutoTool/internal/config"
	"github.com/pokerjest/movieAutoTool/internal/imagestore"
	"github.com/pokerjest/movieAutoTool/internal/imdb"
	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/service"
	"github.com/pokerjest/movieAutoTool/internal/tmdb"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

type App struct {
	Updater *updater.Updater
	Movies  *service.MovieService
	Site    imdb.Site
}

// Build assembles the updater over conn. Registry wiring mistakes come back
// as *updater.ConfigError.
func Build(cfg *config.Config, conn *gorm.DB) (*App, error) {
	settings, err := cfg.UpdaterSettings()
	if err != nil {
		return nil, err
	}

	site := imdb.NewSite(cfg.Scraper.BaseURL)
	client := imdb.NewClient(imdb.Options{
		UserAgent:         cfg.Scraper.UserAgent,
		AcceptLanguage:    cfg.Scraper.AcceptLanguage,
		Proxy:             cfg.Scraper.Proxy,
		Timeout:           cfg.Scraper.Timeout,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
	})

	chains, err := imdb.NewChainRegistry()
	if err != nil {
		return nil, fmt.Errorf("extraction chains: %w", err)
	}
	images := imagestore.New(cfg.Scraper.UserAgent, cfg.Scraper.Proxy)
	processors, err := updater.DefaultProcessors(images, cfg.Storage.PosterDir, cfg.Storage.PhotoDir)
	if err != nil {
		return nil, fmt.Errorf("processors: %w", err)
	}

	// IMDb 自带搜索优先, TMDB 作为后备
	searchers := updater.Searchers{imdb.NewSearcher(client, site, cfg.Scraper.SearchURL)}
	if cfg.TMDB.Token != "" {
		searchers = append(searchers, tmdb.NewClient(cfg.TMDB.Token, cfg.TMDB.Proxy))
		logging.Info().Msg("App: TMDB search fallback enabled")
	}

	u := updater.New(
		service.NewStore(conn),
		updater.NewFetcher(client, chains, site.CreditsURL),
		processors,
		searchers,
		site,
		settings,
	)
	return &App{
		Updater: u,
		Movies:  service.NewMovieService(conn),
		Site:    site,
	}, nil
}
