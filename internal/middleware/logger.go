package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ids
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequestIDHeader carries the request id back to the client
const RequestIDHeader = "X-Request-ID"

// loggerKey is where the request-scoped logger is stored in the context
const loggerKey = "logger"

// RequestLogger tags each request with an id and logs its outcome
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString() // Fresh id per request
		start := time.Now()           // Latency start
		entry := log.WithFields(logrus.Fields{
			"http.req.path":   c.Request.URL.Path, // Request path
			"http.req.method": c.Request.Method,   // HTTP method
			"http.req.id":     requestID,          // Request id
		})
		c.Set(loggerKey, entry)              // Expose logger to handlers
		c.Header(RequestIDHeader, requestID) // Echo id to the client
		entry.Debug("request started")       // Log request start
		c.Next()                             // Run handlers
		entry.WithFields(logrus.Fields{
			"http.resp.took_ms": time.Since(start).Milliseconds(), // Latency
			"http.resp.status":  c.Writer.Status(),                // Status code
			"http.resp.bytes":   c.Writer.Size(),                  // Body size
		}).Info("request complete")
	}
}

// Logger returns the request-scoped logger, or the standard logger outside RequestLogger
func Logger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.StandardLogger()
}
