package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/pokerjest/movieAutoTool/internal/parser"
	"github.com/pokerjest/movieAutoTool/internal/updater"
)

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// updateRequest is the body of the updater endpoints: one bool per category
// plus a few options.
type updateRequest struct {
	Options     updater.Options
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// parseUpdateRequest decodes the request body. Category flags that are
// omitted stay enabled; unknown keys are rejected.
func parseUpdateRequest(body []byte, batch bool) (updateRequest, error) {
	var req updateRequest
	if len(strings.TrimSpace(string(body))) == 0 {
		return req, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, fmt.Errorf("invalid body: %w", err)
	}

	cats := updater.AllCategorySet()
	filtered := false
	for key, val := range raw {
		switch key {
		case "force":
			if err := json.Unmarshal(val, &req.Options.Force); err != nil {
				return req, fmt.Errorf("force: %w", err)
			}
		case "url":
			if batch {
				return req, fmt.Errorf("url is not supported for batch updates")
			}
			if err := json.Unmarshal(val, &req.Options.URL); err != nil {
				return req, fmt.Errorf("url: %w", err)
			}
		case "created_from", "created_to":
			if !batch {
				return req, fmt.Errorf("%s is only supported for batch updates", key)
			}
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return req, fmt.Errorf("%s: %w", key, err)
			}
			t, err := parser.ParseDate(s, key == "created_to")
			if err != nil {
				return req, err
			}
			if key == "created_from" {
				req.CreatedFrom = t
			} else {
				req.CreatedTo = t
			}
		default:
			cat, err := updater.ParseCategory(key)
			if err != nil {
				return req, fmt.Errorf("unknown field %q", key)
			}
			var on bool
			if err := json.Unmarshal(val, &on); err != nil {
				return req, fmt.Errorf("%s: %w", key, err)
			}
			if !on {
				delete(cats, cat)
				filtered = true
			}
		}
	}
	if filtered {
		req.Options.Categories = cats
	}
	return req, nil
}
