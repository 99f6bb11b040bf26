// Package kithlog is the ambient logging layer of the CardDAV server
// (cmd/kith-carddavd and internal/carddav). It keeps the teacher's Logger shape — Debug / Info /
// Warn / Error plus With for attaching fields — but backs it with
// log/slog and a charmbracelet/log handler instead of a hand-rolled
// writer, matching how the rest of the corpus wires structured logging.
package kithlog

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the logging capability the rest of the module consumes.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	// With returns a new logger with additional key-value pairs attached
	// to every subsequent line.
	With(keyvals ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New builds a Logger that writes structured, leveled output to w via
// charmbracelet/log's slog.Handler.
func New(w io.Writer, level charmlog.Level, prefix string) Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return &slogLogger{l: slog.New(handler)}
}

// NewStd builds a Logger writing to stderr at level, prefixed with name —
// the logger cmd/kith-carddavd uses.
func NewStd(name string, level charmlog.Level) Logger {
	return New(os.Stderr, level, name)
}

func (s *slogLogger) Debug(msg string, keyvals ...any) { s.l.Debug(msg, keyvals...) }
func (s *slogLogger) Info(msg string, keyvals ...any)  { s.l.Info(msg, keyvals...) }
func (s *slogLogger) Warn(msg string, keyvals ...any)  { s.l.Warn(msg, keyvals...) }
func (s *slogLogger) Error(msg string, keyvals ...any) { s.l.Error(msg, keyvals...) }

func (s *slogLogger) With(keyvals ...any) Logger {
	return &slogLogger{l: s.l.With(keyvals...)}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)  {}
func (nopLogger) Info(string, ...any)   {}
func (nopLogger) Warn(string, ...any)   {}
func (nopLogger) Error(string, ...any)  {}
func (n nopLogger) With(...any) Logger  { return n }

// Nop returns a Logger that discards everything, for tests.
func Nop() Logger { return nopLogger{} }
