package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction. Directory empty means stdout only;
// otherwise JSON lines also go to a size-rotated file.
type Options struct {
	Level         string
	Directory     string
	FileName      string
	RotationMB    int
	RetentionDays int
}

// New builds a JSON slog logger from the given options.
func New(opts Options) *slog.Logger {
	var out io.Writer = os.Stdout

	if opts.Directory != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   filepath.Join(opts.Directory, opts.FileName),
			MaxSize:    opts.RotationMB,
			MaxAge:     opts.RetentionDays,
			MaxBackups: 10,
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})
	return slog.New(handler)
}

// ParseLevel maps a config level string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
