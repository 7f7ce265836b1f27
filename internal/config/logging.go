package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Validate rejects an unknown LOG_LEVEL or LOG_FORMAT.
func (cfg LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err != nil || cfg.Level == "" {
		return fmt.Errorf("無效的 LOG_LEVEL: %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("無效的 LOG_FORMAT: %q", cfg.Format)
}

// NewLogger builds the process logger and installs it as zerolog's global logger.
// An invalid level falls back to info so commands that never call Load still log.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
