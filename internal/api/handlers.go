package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/model"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

type MovieListResponse struct {
	Total int64         `json:"total"`
	Items []model.Movie `json:"items"`
}

type CreateMovieRequest struct {
	Title    string `json:"title" binding:"required"`
	FilePath string `json:"file_path"`
	URL      string `json:"url"` // optional reference page
}

// === Movies ===

func (h *Handler) ListMoviesHandler(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit > 500 {
		limit = 500
	}

	movies, total, err := h.Movies.List(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, MovieListResponse{Total: total, Items: movies})
}

func (h *Handler) GetMovieHandler(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.Movies.Detail(id)
	if errors.Is(err, updater.ErrMovieNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMovieHandler(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imdbID := ""
	if strings.TrimSpace(req.URL) != "" {
		id, ok := h.Site.IDFromURL(req.URL)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reference url"})
			return
		}
		imdbID = id
	}

	m, err := h.Movies.Create(req.Title, req.FilePath, imdbID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.Bus != nil {
		// worker 负责首次同步
		h.Bus.Publish(event.EventMovieCreated, event.MovieCreated{MovieID: m.ID})
	}
	c.JSON(http.StatusCreated, m)
}
