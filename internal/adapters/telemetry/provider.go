// Package telemetry implements the tracer port on OpenTelemetry. Spans wrap
// task execution so a run can be inspected with any OTel-compatible backend.
package telemetry

import (
	"context"
	"fmt"

	"github.com/EricSDavis/MicroC/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// OTelTracer implements ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// NewOTelTracer installs an SDK tracer provider and returns a tracer with the
// given instrumentation name. Finished spans are bridged to the logger, so a
// run's spans surface in the log stream rather than being dropped.
func NewOTelTracer(name string, log ports.Logger) *OTelTracer {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(log)),
	)
	otel.SetTracerProvider(provider)

	return &OTelTracer{
		tracer:   otel.Tracer(name),
		provider: provider,
	}
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &OTelSpan{span: span}
}

// Shutdown flushes and stops the tracer provider.
func (t *OTelTracer) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

// OTelSpan wraps an OTel span behind the ports.Span interface.
type OTelSpan struct {
	span trace.Span
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records the error and marks the span's status.
func (s *OTelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}
