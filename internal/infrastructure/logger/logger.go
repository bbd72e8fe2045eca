// Package logger owns the process-wide zerolog instance. Components
// receive their logger through wire; GetLogger covers the few paths
// that run before injection, such as config loading at startup.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "coursegpt-server"

var (
	global zerolog.Logger
	once   sync.Once
)

// GetLogger returns the process logger, initializing a console logger
// at info level on first use.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		global = build("console").Level(zerolog.InfoLevel)
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return global
}

// New builds the process logger from the configured level and format
// ("json" or "console") and installs it as the global instance.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level: %w", err)
	}

	format = strings.ToLower(format)
	switch format {
	case "json", "console":
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", format)
	}

	zerolog.SetGlobalLevel(lvl)
	global = build(format).Level(lvl)
	return global, nil
}

func build(format string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Str("service", serviceName).Logger()
}
