package telemetry

import (
	"context"

	"github.com/EricSDavis/MicroC/internal/core/ports"
)

// NoopTracer is a ports.Tracer that records nothing. It is the default when
// telemetry is disabled and keeps tests quiet.
type NoopTracer struct{}

// NewNoopTracer creates a NoopTracer.
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

// Start returns a span that does nothing.
func (t *NoopTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

// Shutdown is a no-op.
func (t *NoopTracer) Shutdown(_ context.Context) error {
	return nil
}

type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) SetAttribute(string, any) {}
