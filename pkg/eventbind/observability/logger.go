// Package observability provides logging, metrics and tracing for event
// dispatch.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EnrichLogger adds event context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, evt.ID(), evt.Type(), evt.CorrelationID())
//	enriched.Info("handling") // includes event_id, event_type, correlation_id
func EnrichLogger(logger *slog.Logger, eventID, eventType, correlationID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event_id", eventID),
		slog.String("event_type", eventType),
		slog.String("correlation_id", correlationID),
	)
}

// LogDispatchStart logs the start of an event dispatch.
func LogDispatchStart(logger *slog.Logger, eventID, eventType string, handlers int) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch starting",
		slog.String("event_id", eventID),
		slog.String("event_type", eventType),
		slog.Int("handlers", handlers),
	)
}

// LogDispatchComplete logs a dispatch in which every handler succeeded.
func LogDispatchComplete(logger *slog.Logger, eventID string, durationMs float64, invoked int) {
	if logger == nil {
		return
	}
	logger.Info("dispatch completed",
		slog.String("event_id", eventID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("handlers_invoked", invoked),
	)
}

// LogDispatchError logs a dispatch in which at least one handler failed.
func LogDispatchError(logger *slog.Logger, eventID string, err error, durationMs float64, failed int) {
	if logger == nil {
		return
	}
	logger.Error("dispatch failed",
		slog.String("event_id", eventID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.Int("handlers_failed", failed),
	)
}

// LogInvokeStart logs handler invocation start.
func LogInvokeStart(logger *slog.Logger, handler string) {
	if logger == nil {
		return
	}
	logger.Debug("handler starting",
		slog.String("handler", handler),
	)
}

// LogInvokeComplete logs successful handler completion.
func LogInvokeComplete(logger *slog.Logger, handler string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("handler completed",
		slog.String("handler", handler),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogInvokeError logs a handler failure. The diagnostic report, when the
// error carries one, is logged as its own attribute.
func LogInvokeError(logger *slog.Logger, handler string, err error, report string) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("handler", handler),
		slog.String("error", err.Error()),
	}
	if report != "" && report != err.Error() {
		attrs = append(attrs, slog.String("report", report))
	}
	logger.Error("handler failed", attrs...)
}

// LogScopeBound logs that a scoped attribute store was bound for an event.
func LogScopeBound(logger *slog.Logger, eventID string) {
	if logger == nil {
		return
	}
	logger.Debug("bound event attributes",
		slog.String("event_id", eventID),
	)
}

// LogScopeCleared logs that the scoped attribute store was cleared.
func LogScopeCleared(logger *slog.Logger, eventID string) {
	if logger == nil {
		return
	}
	logger.Debug("cleared event attributes",
		slog.String("event_id", eventID),
	)
}

// LogJournalError logs a failure to record a journal entry (non-fatal).
func LogJournalError(logger *slog.Logger, handler string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal record failed",
		slog.String("handler", handler),
		slog.String("error", err.Error()),
	)
}

// WithLevel returns a logger that emits records at level and above,
// overriding the minimum level of logger's handler in both directions.
func WithLevel(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slog.New(&levelHandler{next: logger.Handler(), level: level})
}

type levelHandler struct {
	next  slog.Handler
	level slog.Level
}

func (h *levelHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{next: h.next.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{next: h.next.WithGroup(name), level: h.level}
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
