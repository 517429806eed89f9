// Package logger wraps logrus behind a small structured-logging interface
// shared by the HTTP API, the Telegram connector and the CLI.
package logger

import (
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
)

// LogField is a single structured key/value pair. Values are pre-rendered
// strings so every sink sees the same representation.
type LogField struct {
	Key   string
	Value string
}

// Logger is the logging surface used across the concierge.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, fields ...LogField)
	WithFields(fields ...LogField) Logger
	WithCorrelationID(id string) Logger
	HTTPMiddleware(next http.Handler) http.Handler
}

// Config controls how a Logger renders entries.
type Config struct {
	Level   Level
	Format  string // "json" (default) or "text"
	Service string
	Output  io.Writer
}

type logger struct {
	entry  *logrus.Logger
	fields []LogField
}

// NewLogger builds a logrus-backed Logger.
func NewLogger(cfg Config) Logger {
	l := logrus.New()

	if cfg.Format == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)
	l.SetLevel(cfg.Level.logrus())

	var base []LogField
	if cfg.Service != "" {
		base = append(base, StringField("service", cfg.Service))
	}

	return &logger{entry: l, fields: base}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return NewLogger(Config{Level: ErrorLevel, Output: io.Discard})
}

func (l *logger) WithFields(fields ...LogField) Logger {
	merged := make([]LogField, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &logger{entry: l.entry, fields: merged}
}

func (l *logger) WithCorrelationID(id string) Logger {
	return l.WithFields(CorrelationIDField(id))
}

func (l *logger) Debug(msg string, fields ...LogField) { l.log(logrus.DebugLevel, msg, fields) }
func (l *logger) Info(msg string, fields ...LogField)  { l.log(logrus.InfoLevel, msg, fields) }
func (l *logger) Warn(msg string, fields ...LogField)  { l.log(logrus.WarnLevel, msg, fields) }
func (l *logger) Error(msg string, fields ...LogField) { l.log(logrus.ErrorLevel, msg, fields) }

func (l *logger) log(level logrus.Level, msg string, fields []LogField) {
	if !l.entry.IsLevelEnabled(level) {
		return
	}

	data := make(logrus.Fields, len(l.fields)+len(fields))
	for _, f := range l.fields {
		data[f.Key] = f.Value
	}
	// call-site fields win over inherited ones
	for _, f := range fields {
		data[f.Key] = f.Value
	}

	l.entry.WithFields(data).Log(level, msg)
}
