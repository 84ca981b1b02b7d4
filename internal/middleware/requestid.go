package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequestIDHeader carries the request correlation id
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
// on the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader) // From proxy or client
		if id == "" {
			id = uuid.New().String() // Generate new UUID if not present
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the id set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger returns a logrus entry tagged with the request id
func Logger(c *gin.Context) *logrus.Entry {
	return logrus.WithField(requestIDKey, GetRequestID(c))
}

// AccessLog logs one line per request after the handler ran
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := Logger(c).WithFields(logrus.Fields{
			"method":  c.Request.Method,                                   // HTTP method
			"path":    c.FullPath(),                                       // Route pattern
			"status":  c.Writer.Status(),                                  // Response status
			"latency": time.Since(start).Round(time.Microsecond).String(), // Handling time
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
