package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const loggerKey = "logger"

// Logging attaches a request-scoped logger carrying the trace context and
// logs one line per completed request.
func Logging(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		logger := base.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Set(loggerKey, logger)

		c.Next()

		logger.Info("request handled",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// GetLogger returns the request logger, or the process default when the
// logging middleware is not installed (tests).
func GetLogger(c *gin.Context) *slog.Logger {
	if logger, exists := c.Get(loggerKey); exists {
		return logger.(*slog.Logger)
	}
	return slog.Default()
}
