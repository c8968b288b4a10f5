package typed

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KevoDB/interop/pkg/convert"
	"github.com/KevoDB/interop/pkg/stats"
	"github.com/KevoDB/interop/pkg/telemetry"
)

const component = "typed"

// Attribute keys specific to adapters
const (
	attrAdapter      = "adapter"
	attrExpectedType = "type.expected"
	attrActualType   = "type.actual"
)

// Metrics defines the instrumentation hooks of the typed adapters.
// All metrics are optional - implementations can safely be no-op.
type Metrics interface {
	// RecordConversion records one crossing from an untyped value to expected.
	// err is nil on success.
	RecordConversion(ctx context.Context, adapter, expected string, err error)

	// RecordIterate records a new iterator opened by adapter
	RecordIterate(ctx context.Context, adapter string)

	// RecordUnsupported records a capability the backing source lacks
	RecordUnsupported(ctx context.Context, adapter, op string)

	Close() error
}

type adapterMetrics struct {
	rec       telemetry.Recorder
	collector stats.Collector
}

// NewMetrics creates adapter metrics. Either argument may be nil; with both
// nil a no-op implementation is returned.
func NewMetrics(tel telemetry.Telemetry, collector stats.Collector) Metrics {
	if tel == nil && collector == nil {
		return &noopMetrics{}
	}
	return &adapterMetrics{rec: telemetry.NewRecorder(tel, component), collector: collector}
}

// NewNoopMetrics creates a no-op implementation
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *adapterMetrics) RecordConversion(ctx context.Context, adapter, expected string, err error) {
	m.rec.Count(ctx, "conversions.total", 1,
		attribute.String(attrAdapter, adapter),
		attribute.String(attrExpectedType, expected),
		attribute.String(telemetry.AttrStatus, telemetry.Status(err, telemetry.StatusError)),
	)
	if m.collector != nil {
		m.collector.TrackOperation(stats.OpConvert)
	}

	mm := convert.AsTypeMismatch(err)
	if mm == nil {
		return
	}
	m.rec.Count(ctx, "mismatches.total", 1,
		attribute.String(attrAdapter, adapter),
		attribute.String(attrExpectedType, mm.Expected),
		attribute.String(attrActualType, mm.Actual),
	)
	if m.collector != nil {
		m.collector.TrackError(stats.ErrTypeMismatch)
	}
}

func (m *adapterMetrics) RecordIterate(ctx context.Context, adapter string) {
	m.rec.Count(ctx, "iterators.total", 1, attribute.String(attrAdapter, adapter))
	if m.collector != nil {
		m.collector.TrackOperation(stats.OpIterate)
	}
}

func (m *adapterMetrics) RecordUnsupported(ctx context.Context, adapter, op string) {
	m.rec.Count(ctx, "unsupported.total", 1,
		attribute.String(attrAdapter, adapter),
		attribute.String(telemetry.AttrOperationType, op),
	)
	if m.collector != nil {
		m.collector.TrackError(stats.ErrUnsupported)
	}
}

func (m *adapterMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (n *noopMetrics) RecordConversion(ctx context.Context, adapter, expected string, err error) {}

func (n *noopMetrics) RecordIterate(ctx context.Context, adapter string) {}

func (n *noopMetrics) RecordUnsupported(ctx context.Context, adapter, op string) {}

func (n *noopMetrics) Close() error {
	return nil
}
