// Package logger wraps gookit/slog behind a small interface so that the
// content layer and the workspace client can be handed any logger, including
// a silent one in tests.
package logger

import (
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging surface used across folio.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields are structured key/value pairs attached to a log line.
type Fields map[string]any

// NewLogger builds a JSON console logger that emits level and above.
// Unknown level names fall back to info.
func NewLogger(level string) Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	logLevel := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= logLevel {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	formatter := slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
			slog.FieldKeyData,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "time",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "msg",
		}
		f.TimeFormat = "2006-01-02T15:04:05Z07:00"
	})
	h.SetFormatter(formatter)

	return slog.NewWithHandlers(h)
}

// WithFields returns a logger that adds fields to every line. Loggers that are
// not backed by gookit/slog are returned unchanged.
func WithFields(l Logger, fields Fields) Logger {
	switch lg := l.(type) {
	case *slog.Logger:
		return lg.WithFields(slog.M(fields))
	case *slog.Record:
		return lg.WithFields(slog.M(fields))
	default:
		return l
	}
}

// Discard returns a logger that drops everything.
func Discard() Logger { return discard{} }

type discard struct{}

func (discard) Debug(...any)          {}
func (discard) Info(...any)           {}
func (discard) Warn(...any)           {}
func (discard) Error(...any)          {}
func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
