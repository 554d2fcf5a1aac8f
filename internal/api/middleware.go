package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pokerjest/movieAutoTool/internal/logging"
)

// RequestLogger logs one line per request. Server errors log at error level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := logging.Debug()
		switch {
		case status >= 500:
			evt = logging.Error()
		case status >= 400:
			evt = logging.Info()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("HTTP: request")
	}
}
