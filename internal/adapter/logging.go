package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SetupLogger builds the JSON slog logger described by cfg. The returned
// closer releases the log file and must be called on shutdown.
//
// File "" or level "OFF" discards everything; file "-" writes to stderr,
// which is only sensible in batch mode where no TUI owns the terminal.
func SetupLogger(cfg *LoggingConfig) (*slog.Logger, io.Closer, error) {
	level, enabled := parseLogLevel(cfg.Level)
	if cfg.File == "" || !enabled {
		return NullLogger(), nopCloser{}, nil
	}

	var out io.WriteCloser
	if cfg.File == "-" {
		out = nopWriteCloser{os.Stderr}
	} else {
		logPath := expandHome(cfg.File)
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), out, nil
}

// parseLogLevel converts a string log level to slog.Level. The second
// result is false for "OFF".
func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	case "OFF", "NONE":
		return slog.LevelError, false
	default:
		return slog.LevelInfo, true
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
