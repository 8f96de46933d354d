// Package logging configures the zerolog logger used across the engine.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// New creates a logger with the given configuration.
func New(config Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(config.Level))

	var output io.Writer = os.Stdout
	if config.Output == "stderr" {
		output = os.Stderr
	}

	if config.Format == "pretty" || config.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// NewDefault creates a logger with default settings.
func NewDefault() zerolog.Logger {
	return New(Config{Level: "info", Format: "json", Output: "stdout"})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithPlayer adds the member ID to the logger context.
func WithPlayer(logger zerolog.Logger, playerID string) zerolog.Logger {
	return logger.With().Str("player_id", playerID).Logger()
}

// WithGame adds the game type to the logger context.
func WithGame(logger zerolog.Logger, game string) zerolog.Logger {
	return logger.With().Str("game", game).Logger()
}
