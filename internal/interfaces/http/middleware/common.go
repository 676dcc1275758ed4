package middleware

import (
	"net/http"
	"time"

	"github.com/erp/supplychain/internal/infrastructure/config"
	"github.com/erp/supplychain/internal/infrastructure/logger"
	"github.com/erp/supplychain/internal/interfaces/http/dto"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID in and out
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key for the request ID
	RequestIDKey = "request_id"
	// MaxRequestIDLength bounds client-supplied request IDs
	MaxRequestIDLength = 128
)

// RequestID adds a request ID to each request, reusing a sane client value
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestIDValue(c.Request.Context(), requestID))
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// CORS builds the gin-contrib/cors middleware from HTTP settings.
// Without configured origins cross-origin requests get no CORS headers.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	cc := cors.DefaultConfig()
	switch {
	case len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*":
		cc.AllowAllOrigins = true
	case len(cfg.CORSAllowOrigins) > 0:
		cc.AllowOrigins = cfg.CORSAllowOrigins
	default:
		cc.AllowOriginFunc = func(string) bool { return false }
	}
	if len(cfg.CORSAllowMethods) > 0 {
		cc.AllowMethods = cfg.CORSAllowMethods
	}
	cc.AddAllowHeaders(RequestIDHeader, IdempotencyKeyHeader)
	cc.AddAllowHeaders(cfg.CORSAllowHeaders...)
	cc.AddExposeHeaders(RequestIDHeader, IdempotentReplayHeader)
	cc.MaxAge = 12 * time.Hour
	return cors.New(cc)
}

// Secure sets conservative response headers for a JSON API
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// BodyLimit rejects request bodies larger than maxBytes
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}
		// streaming bodies without a Content-Length fail at read time
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
