package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/logging"
	"github.com/pokerjest/movieAutoTool/internal/scheduler"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// UpdateMovieHandler PATCH /updater/:id
func (h *Handler) UpdateMovieHandler(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := parseUpdateRequest(body, false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Updater.UpdateMovie(c.Request.Context(), id, req.Options)
	if h.Bus != nil {
		payload := event.MovieUpdated{MovieID: id, Updated: updated}
		if err != nil {
			payload.Error = err.Error()
		}
		h.Bus.Publish(event.EventMovieUpdated, payload)
	}
	if err != nil {
		status, msg := updateErrorStatus(err)
		if status >= 500 {
			logging.Error().Err(err).Uint("movie_id", id).Msg("API: movie update failed")
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// UpdateAllHandler PATCH /updater/update_all
func (h *Handler) UpdateAllHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := parseUpdateRequest(body, true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := updater.BatchOptions{
		Options:     req.Options,
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
	}
	// 客户端断开不应中断已开始的批量任务
	ctx := context.WithoutCancel(c.Request.Context())
	counts, err := h.Batches.RunBatch(ctx, opts)
	if errors.Is(err, scheduler.ErrBatchRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, counts)
}

func updateErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, updater.ErrMovieNotFound):
		return http.StatusNotFound, "movie not found"
	case errors.Is(err, updater.ErrReferenceNotFound):
		return http.StatusNotFound, "reference page not found"
	case errors.Is(err, updater.ErrInvalidReferenceURL):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, updater.ErrRemote):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
