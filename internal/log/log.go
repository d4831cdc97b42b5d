// Package log provides a leveled logging interface.
// The log messages are intended to be user-facing
// similar to the standard library's log package.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Level specifies the level of logging.
type Level = slog.Level

// Supported log levels.
const (
	Debug = slog.LevelDebug
	Info  = slog.LevelInfo
	Error = slog.LevelError

	// discard is above every level a caller may log at.
	discard = Error + 4
)

// Logger posts leveled, printf-style messages.
// Loggers derived from one another with WithName, WithLevel, or With
// share the underlying writer and are safe to use concurrently.
type Logger struct {
	sl *slog.Logger
	h  *handler
}

// New builds a logger that writes to the given writer.
// The logger defaults to level Info.
//
// Output is colored only if w is a terminal.
func New(w io.Writer) *Logger {
	return newLogger(&handler{
		W:     w,
		Level: Info,
		Color: isTerminal(w),
		mu:    new(sync.Mutex),
	})
}

func newLogger(h *handler) *Logger {
	return &Logger{sl: slog.New(h), h: h}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Level reports the minimum level of messages posted by this logger.
func (l *Logger) Level() Level {
	return l.h.Level
}

// WithLevel builds a copy of this logger that posts messages at or above
// the provided level.
func (l *Logger) WithLevel(lvl Level) *Logger {
	h := *l.h
	h.Level = lvl
	return newLogger(&h)
}

// WithName builds a new logger with the provided name. Names nest:
// a logger named "foo" asked for "bar" is named "foo.bar".
func (l *Logger) WithName(name string) *Logger {
	h := *l.h
	if len(h.name) > 0 {
		h.name += "."
	}
	h.name += name
	return newLogger(&h)
}

// With builds a logger that includes the given key-value pairs
// with every message.
//
//	logger.With("step", 3).Debugf("rebuilt")
func (l *Logger) With(args ...any) *Logger {
	sl := l.sl.With(args...)
	return &Logger{sl: sl, h: sl.Handler().(*handler)}
}

// Debugf posts a message at Debug level.
func (l *Logger) Debugf(msg string, args ...any) {
	l.Logf(Debug, msg, args...)
}

// Infof posts a message at Info level.
func (l *Logger) Infof(msg string, args ...any) {
	l.Logf(Info, msg, args...)
}

// Errorf posts a message at Error level.
func (l *Logger) Errorf(msg string, args ...any) {
	l.Logf(Error, msg, args...)
}

// Logf posts a message at the given level.
func (l *Logger) Logf(lvl Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.sl.Enabled(ctx, lvl) {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.sl.Log(ctx, lvl, strings.TrimRight(msg, "\n"))
}
