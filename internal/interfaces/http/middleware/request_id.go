package middleware

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the context key and header name for the request ID
const RequestIDKey = "X-Request-ID"

// RequestID attaches a request ID to every request.
// An incoming X-Request-ID header is trusted so upstream proxies can
// correlate; otherwise a fresh one is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDKey)
		if id == "" {
			id = generateRequestID()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDKey, id)

		c.Next()
	}
}

func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
