package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"taskmint/internal/config"
)

// NewLogger builds the process logger. Local runs get a console writer
// at debug level; everything else gets JSON at info level.
func NewLogger(env string) zerolog.Logger {
	level := zerolog.InfoLevel
	w := io.Writer(os.Stdout)

	if env == config.EnvLocal {
		level = zerolog.DebugLevel
		console := zerolog.NewConsoleWriter()
		console.TimeFormat = time.DateTime
		console.Out = os.Stdout
		w = console
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
