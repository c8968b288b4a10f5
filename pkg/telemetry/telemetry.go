// ABOUTME: Core telemetry abstraction over OpenTelemetry and the per-component recorder
// ABOUTME: Components record through a Recorder that names and labels their instruments

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry records metrics and spans without exposing OpenTelemetry types
// beyond attributes and spans.
type Telemetry interface {
	RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue)
	RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue)
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)

	// Shutdown flushes pending data and stops the exporters.
	Shutdown(ctx context.Context) error
}

// Attribute keys shared by every component.
const (
	AttrComponent     = "component"
	AttrOperationType = "operation.type"
	AttrStatus        = "status"
)

// Status values for AttrStatus.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusRejected = "rejected"
)

// Recorder scopes instruments to one component: names are prefixed with
// "interop.<component>." and every measurement carries the component attribute.
type Recorder struct {
	tel       Telemetry
	prefix    string
	component attribute.KeyValue
}

// NewRecorder binds tel to component. A nil tel records nothing.
func NewRecorder(tel Telemetry, component string) Recorder {
	if tel == nil {
		tel = NewNoop()
	}
	return Recorder{
		tel:       tel,
		prefix:    "interop." + component + ".",
		component: attribute.String(AttrComponent, component),
	}
}

// Count adds n to the component counter name.
func (r Recorder) Count(ctx context.Context, name string, n int64, attrs ...attribute.KeyValue) {
	r.tel.RecordCounter(ctx, r.prefix+name, n, r.with(attrs)...)
}

// ObserveSince records the seconds elapsed since start in the histogram name.
func (r Recorder) ObserveSince(ctx context.Context, name string, start time.Time, attrs ...attribute.KeyValue) {
	r.tel.RecordHistogram(ctx, r.prefix+name, time.Since(start).Seconds(), r.with(attrs)...)
}

func (r Recorder) with(attrs []attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs)+1)
	out = append(out, r.component)
	return append(out, attrs...)
}

// Status maps an operation error to StatusSuccess or failure.
func Status(err error, failure string) string {
	if err != nil {
		return failure
	}
	return StatusSuccess
}

// NoopTelemetry discards everything; it is what a disabled config yields.
type NoopTelemetry struct{}

// NewNoop creates a new no-operation telemetry instance.
func NewNoop() Telemetry {
	return &NoopTelemetry{}
}

func (n *NoopTelemetry) RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
}

func (n *NoopTelemetry) RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue) {
}

// StartSpan returns ctx (or Background for nil) and the span already in it.
func (n *NoopTelemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, trace.SpanFromContext(ctx)
}

func (n *NoopTelemetry) Shutdown(ctx context.Context) error {
	return nil
}
