// Package logger provides structured logging for the cybersentinel application
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level logrus.Level) *Logger {
	logger := logrus.New()
	logger.SetLevel(level)

	// JSON in production, text everywhere else
	if os.Getenv("ENV") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	return &Logger{Logger: logger}
}

// NewDiscardLogger returns a logger that drops everything. Used by tests.
func NewDiscardLogger() *Logger {
	l := NewLogger(logrus.PanicLevel)
	l.SetOutput(io.Discard)
	return l
}

// WithContext adds context-specific fields to the logger
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Logger.WithContext(ctx)

	if sessionID := ctx.Value(SessionIDKey); sessionID != nil {
		entry = entry.WithField("session_id", sessionID)
	}

	return entry
}

type contextKey string

// SessionIDKey carries the dashboard session id on request contexts.
const SessionIDKey contextKey = "session_id"

// WithTarget adds the analyzed URL to the logger
func (l *Logger) WithTarget(url string) *logrus.Entry {
	return l.Logger.WithField("target_url", url)
}

// WithError adds error context to the logger
func (l *Logger) WithError(err error) *logrus.Entry {
	return l.Logger.WithError(err)
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// LogAnalysis logs the start and end of one backend analysis
func (l *Logger) LogAnalysis(url string, fn func() error) error {
	start := time.Now()

	l.WithFields(Fields{
		"target_url": url,
		"action":     "start",
	}).Debug("Analysis started")

	err := fn()
	duration := time.Since(start)

	fields := Fields{
		"target_url": url,
		"action":     "complete",
		"duration":   duration.String(),
	}

	if err != nil {
		fields["error"] = err.Error()
		l.WithFields(fields).Error("Analysis failed")
	} else {
		l.WithFields(fields).Info("Analysis completed")
	}

	return err
}

var defaultLogger = NewLogger(logrus.InfoLevel)

// Default returns the process-wide logger
func Default() *Logger {
	return defaultLogger
}

// SetLevel sets the log level for the default logger
func SetLevel(level logrus.Level) {
	defaultLogger.SetLevel(level)
}
