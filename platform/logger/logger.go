// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// JobIDKey is the context key for a scheduled job or task ID
	JobIDKey contextKey = "job_id"
	// TraceIDKey is the context key for trace ID
	TraceIDKey contextKey = "trace_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment. Output goes to stderr so
// command output on stdout stays machine readable.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext returns a logger with context values extracted.
// Supports request_id, job_id, and trace_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if jobID, ok := ctx.Value(JobIDKey).(string); ok && jobID != "" {
		newLogger = newLogger.WithJobID(jobID)
	}

	if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("trace_id", traceID)),
		}
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// WithJobID returns a logger with job ID
func (l *Logger) WithJobID(jobID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("job_id", jobID)),
	}
}

// LeadPromoted logs a NEW lead crossing the HOT threshold
func (l *Logger) LeadPromoted(leadID string, score int) {
	l.Info("lead_promoted",
		slog.String("lead_id", leadID),
		slog.Int("score", score),
	)
}

// FunnelAnalyzed logs the outcome of a funnel run
func (l *Logger) FunnelAnalyzed(total, promoted int, averageScore float64) {
	l.Info("funnel_analyzed",
		slog.Int("total", total),
		slog.Int("promoted", promoted),
		slog.Float64("average_score", averageScore),
	)
}

// StoreError logs persistence errors
func (l *Logger) StoreError(operation string, err error) {
	l.Error("store_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// TaskFailed logs a failed scheduled task
func (l *Logger) TaskFailed(taskType string, err error) {
	l.Error("task_failed",
		slog.String("task_type", taskType),
		slog.String("error", err.Error()),
	)
}
