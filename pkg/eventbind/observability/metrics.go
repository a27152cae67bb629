package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records one dispatched event with its duration and
	// error status.
	RecordDispatch(ctx context.Context, eventType string, duration time.Duration, err error)

	// RecordInvocation records one handler invocation.
	RecordInvocation(ctx context.Context, handler, eventType string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatchEvents  metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	invocations     metric.Int64Counter
	invokeLatency   metric.Float64Histogram
	invokeErrors    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventbind")

	dispatchEvents, err := meter.Int64Counter("eventbind.dispatch.events",
		metric.WithDescription("Number of dispatched events"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("eventbind.dispatch.latency_ms",
		metric.WithDescription("Event dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	invocations, err := meter.Int64Counter("eventbind.handler.invocations",
		metric.WithDescription("Number of handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	invokeLatency, err := meter.Float64Histogram("eventbind.handler.latency_ms",
		metric.WithDescription("Handler invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	invokeErrors, err := meter.Int64Counter("eventbind.handler.errors",
		metric.WithDescription("Number of failed handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatchEvents:  dispatchEvents,
		dispatchLatency: dispatchLatency,
		invocations:     invocations,
		invokeLatency:   invokeLatency,
		invokeErrors:    invokeErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records a dispatched event.
func (m *otelMetrics) RecordDispatch(ctx context.Context, eventType string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.Bool("success", err == nil),
	}
	m.dispatchEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordInvocation records a handler invocation.
func (m *otelMetrics) RecordInvocation(ctx context.Context, handler, eventType string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("handler", handler),
		attribute.String("event_type", eventType),
	}

	m.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.invokeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.invokeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
