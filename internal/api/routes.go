package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/service"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// MovieUpdater syncs one movie.
type MovieUpdater interface {
	UpdateMovie(ctx context.Context, movieID uint, opts updater.Options) (bool, error)
}

// BatchRunner runs a batch unless one is already running.
type BatchRunner interface {
	RunBatch(ctx context.Context, opts updater.BatchOptions) (updater.Counts, error)
}

// Handler carries the collaborators of every route.
type Handler struct {
	Updater MovieUpdater
	Batches BatchRunner
	Movies  *service.MovieService
	Site    updater.ReferenceSite
	Bus     event.Bus
}

func InitRoutes(r *gin.Engine, h *Handler) {
	r.Use(RequestLogger())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Updater
	up := r.Group("/updater")
	{
		up.PATCH("/update_all", h.UpdateAllHandler)
		up.PATCH("/:id", h.UpdateMovieHandler)
	}

	// API
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/movies", h.ListMoviesHandler)
		apiGroup.POST("/movies", h.CreateMovieHandler)
		apiGroup.GET("/movies/:id", h.GetMovieHandler)
		apiGroup.GET("/events", h.SSEHandler)
	}
}
