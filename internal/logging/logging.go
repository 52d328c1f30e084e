// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log records go.
type Options struct {
	Level string // debug, info, warn, error
	File  string // optional JSON log file, rotated by size
}

// Setup replaces the global logger. The returned closer flushes and closes
// the log file, if any.
func Setup(opts Options) io.Closer {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006/01/02 15:04:05"}

	if opts.File == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, file)).With().Timestamp().Logger()
	return file
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
