// Package log provides the process-wide leveled logger used throughout
// ndncore. It wraps the standard library's log/slog instead of pulling in
// a third-party logging framework, matching the teacher's own dependency
// graph (no logging library appears there either).
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFatal Level = 12
)

// Parses a string representation of a log level (TRACE, DEBUG, INFO, WARN, ERROR, FATAL)
// into a Level value, returning an error for invalid inputs.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	}
	return LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

func (level Level) String() string {
	switch level {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (level Level) slog() slog.Level {
	return slog.Level(level)
}

var (
	mu      sync.Mutex
	level   atomic.Int64
	handler atomic.Value // slog.Handler
)

func init() {
	level.Store(int64(LevelInfo))
	handler.Store(slog.Handler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(LevelInfo),
	})))
}

// SetLevel changes the process-wide minimum level shown by the default logger.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level.Store(int64(l))
	handler.Store(slog.Handler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: l.slog(),
	})))
}

func logger() *slog.Logger {
	return slog.New(handler.Load().(slog.Handler))
}

func logf(l Level, msg string, args ...any) {
	if Level(level.Load()) > l {
		return
	}
	logger().Log(context.Background(), l.slog(), msg, args...)
}

func Trace(msg string, args ...any) { logf(LevelTrace, msg, args...) }
func Debug(msg string, args ...any) { logf(LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { logf(LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { logf(LevelWarn, msg, args...) }
func Error(msg string, args ...any) { logf(LevelError, msg, args...) }

// Fatal logs at FATAL and aborts the process: matches the teacher's
// programmer-error convention (spec.md §7) of failing loudly on bugs,
// not runtime conditions.
func Fatal(msg string, args ...any) {
	logf(LevelFatal, msg, args...)
	os.Exit(1)
}
