package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Logger is the process logger: text records on a terminal stream and JSON
// records in a log file. The terminal threshold can be raised while a TUI
// owns the screen.
type Logger struct {
	*slog.Logger
	stderrLevel *slog.LevelVar
	close       func() error
}

// SetupLogger logs text to stderr and JSON to logFile. If logFile cannot be
// opened, only stderr is used.
func SetupLogger(logFile string, level slog.Level) *Logger {
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l := NewLogger(os.Stderr, nil, level)
		l.Warn("failed to open log file, using stderr only", "error", err, "file", logFile)
		return l
	}

	l := NewLogger(os.Stderr, file, level)
	l.close = file.Close
	return l
}

// NewLogger builds a Logger over arbitrary writers; file may be nil.
func NewLogger(stderr, file io.Writer, level slog.Level) *Logger {
	stderrLevel := new(slog.LevelVar)
	stderrLevel.Set(level)

	handler := slog.Handler(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: stderrLevel}))
	if file != nil {
		handler = slogmulti.Fanout(handler, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	}

	return &Logger{
		Logger:      slog.New(handler),
		stderrLevel: stderrLevel,
		close:       func() error { return nil },
	}
}

// MuteStderr drops terminal records below ERROR until restore is called.
// The log file still receives everything.
func (l *Logger) MuteStderr() (restore func()) {
	prev := l.stderrLevel.Level()
	l.stderrLevel.Set(max(prev, slog.LevelError))
	return func() { l.stderrLevel.Set(prev) }
}

// Close closes the log file, if one is open.
func (l *Logger) Close() error {
	return l.close()
}
