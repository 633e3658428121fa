package app

import (
	"io"
	"os"
	"time"

	"Tracker/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewLogger builds the application logger: pretty console output in dev,
// JSON everywhere else.
func NewLogger(cfg config.Config) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	level := zerolog.InfoLevel
	w := io.Writer(os.Stdout)
	if cfg.App.Env == "dev" {
		level = zerolog.DebugLevel
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "task-tracker").
		Str("version", cfg.App.Version).
		Logger()
}

// requestLogger tags every request with an id and logs method, path, status
// and duration once the handler chain finishes.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
