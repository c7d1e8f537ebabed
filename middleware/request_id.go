package middleware

import (
	"context"

	"github.com/agropack/artworkflow/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID middleware generates a unique request ID for each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if request ID already exists in header
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// Set request ID in response header
		c.Header("X-Request-ID", requestID)

		// Store in gin context
		c.Set("request_id", requestID)

		// Seed the request context for logger.WithContext; routes carrying a
		// record id get it threaded through as well.
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		if recordID := c.Param("id"); recordID != "" {
			ctx = context.WithValue(ctx, logger.RecordIDKey, recordID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID gets the request ID from gin context
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		return requestID.(string)
	}
	return ""
}
