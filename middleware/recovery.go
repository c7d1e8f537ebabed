package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery converts handler panics into a 500 response. The log line carries
// the same trace fields as the access log so a panic can be tied back to the
// acting user and record.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)

				attrs := []any{
					"error", err,
					"request_id", requestID,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				}
				if actor := GetUsername(c); actor != "" {
					attrs = append(attrs, "actor", actor)
				}
				if recordID := c.Param("id"); recordID != "" {
					attrs = append(attrs, "record_id", recordID)
				}
				attrs = append(attrs, "stack", string(debug.Stack()))
				slog.Error("panic recovered", attrs...)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}()

		c.Next()
	}
}
