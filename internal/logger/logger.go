// Package logger builds the slog.Logger shared by both binaries.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options настройки логгера
type Options struct {
	Level      string
	Format     string // Format text | json
	File       string // File путь к файлу лога, пусто - вывод в out
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Значения ротации по умолчанию
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// New creates a logger writing to out, or to a rotated file when opts.File is set.
// The returned closer releases the file and must be called on shutdown.
func New(opts Options, out io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, DefaultMaxAgeDays),
		}
		out = rotated
		closer = rotated
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(handler), closer, nil
}

// ParseLevel maps debug, info, warn and error to slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
