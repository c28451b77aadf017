package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"hv-analyzer/internal/shared/server/respond"
	"hv-analyzer/internal/shared/telemetry"
)

// Recovery turns a panic in a handler into a 500 "internal" error. The log
// line carries the submission's role and chapter when the handler had
// already read them, so a crashing evaluation can be replayed.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}
			for logKey, ctxKey := range map[string]string{
				"role":          RoleKey,
				"chapter":       ChapterKey,
				"evaluation_id": EvaluationIDKey,
			} {
				if v := c.GetString(ctxKey); v != "" {
					fields[logKey] = v
				}
			}
			telemetry.Error("http.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "unexpected server error", nil)
		}()
		c.Next()
	}
}
