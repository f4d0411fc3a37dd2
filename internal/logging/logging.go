package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"
)

type Config struct {
	Level  slog.Level
	Output io.Writer
}

// LevelFor maps the command line switches to a log level. Debug implies
// verbose, so both enable at least info output.
func LevelFor(verbose, debug bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func New(cfg *Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Logger{log: slog.New(NewConsoleHandler(out, cfg.Level))}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(&Config{Level: slog.LevelError + 1, Output: io.Discard})
}

type Logger struct {
	log *slog.Logger
}

func (l *Logger) Error(msg string) {
	l.doLog(slog.LevelError, msg) //nolint:govet
}

func (l *Logger) Errorf(format string, a ...any) {
	l.doLog(slog.LevelError, format, a...)
}

func (l *Logger) Info(msg string) {
	l.doLog(slog.LevelInfo, msg) //nolint:govet
}

func (l *Logger) Infof(format string, a ...any) {
	l.doLog(slog.LevelInfo, format, a...)
}

func (l *Logger) Debug(msg string) {
	l.doLog(slog.LevelDebug, msg) //nolint:govet
}

func (l *Logger) Debugf(format string, a ...any) {
	l.doLog(slog.LevelDebug, format, a...)
}

func (l *Logger) Warn(msg string) {
	l.doLog(slog.LevelWarn, msg) //nolint:govet
}

func (l *Logger) Warnf(format string, a ...any) {
	l.doLog(slog.LevelWarn, format, a...)
}

func (l *Logger) IsEnabled(lvl slog.Level) bool {
	return l.log.Handler().Enabled(context.Background(), lvl)
}

// Verbose reports whether info output is enabled, which is the case for
// both --verbose and --debug.
func (l *Logger) Verbose() bool {
	return l.IsEnabled(slog.LevelInfo)
}

func (l *Logger) doLog(lvl slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !l.log.Handler().Enabled(ctx, lvl) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	r := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	_ = l.log.Handler().Handle(ctx, r) //nolint:contextcheck
}

func (l *Logger) WithField(k, v string) *Logger {
	return &Logger{log: l.log.With(slog.String(k, v))}
}
