package buffer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KevoDB/interop/pkg/stats"
	"github.com/KevoDB/interop/pkg/telemetry"
)

const component = "buffer"

// Buffer operation names reported as telemetry.AttrOperationType
const (
	opAcquire    = "acquire"
	opRelease    = "release"
	opCompress   = "compress"
	opDecompress = "decompress"
)

// Attribute keys specific to buffers
const (
	attrFlags    = "buffer.flags"
	attrMutable  = "buffer.mutable"
	attrWritable = "buffer.writable"
	attrCodec    = "buffer.codec"
)

// Metrics defines the instrumentation hooks of buffer sources, views and compressors.
// All metrics are optional - implementations can safely be no-op.
type Metrics interface {
	// RecordAcquire records one acquisition. err is non-nil when rejected.
	RecordAcquire(ctx context.Context, flags Flags, mutable, writable bool, err error)

	// RecordRelease records a view being released for the first time.
	RecordRelease(ctx context.Context)

	// RecordInvalidOperation records a write attempted through a read-only view.
	RecordInvalidOperation(ctx context.Context, op string)

	// RecordCodec records a compress or decompress call.
	RecordCodec(ctx context.Context, op string, codec Codec, in, out int, start time.Time, err error)

	Close() error
}

type bufferMetrics struct {
	rec       telemetry.Recorder
	collector stats.Collector
}

// NewMetrics creates buffer metrics. Either argument may be nil; with both
// nil a no-op implementation is returned.
func NewMetrics(tel telemetry.Telemetry, collector stats.Collector) Metrics {
	if tel == nil && collector == nil {
		return &noopMetrics{}
	}
	return &bufferMetrics{rec: telemetry.NewRecorder(tel, component), collector: collector}
}

// NewNoopMetrics creates a no-op implementation
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *bufferMetrics) RecordAcquire(ctx context.Context, flags Flags, mutable, writable bool, err error) {
	m.rec.Count(ctx, "acquisitions.total", 1,
		attribute.String(telemetry.AttrOperationType, opAcquire),
		attribute.String(attrFlags, flags.String()),
		attribute.Bool(attrMutable, mutable),
		attribute.Bool(attrWritable, writable),
		attribute.String(telemetry.AttrStatus, telemetry.Status(err, telemetry.StatusRejected)),
	)

	if m.collector == nil {
		return
	}
	m.collector.TrackOperation(stats.OpAcquire)
	m.collector.TrackView(err == nil, writable)
	if err != nil {
		m.collector.TrackError(stats.ErrNotWritable)
	}
}

func (m *bufferMetrics) RecordRelease(ctx context.Context) {
	m.rec.Count(ctx, "releases.total", 1, attribute.String(telemetry.AttrOperationType, opRelease))
	if m.collector != nil {
		m.collector.TrackOperation(stats.OpRelease)
	}
}

func (m *bufferMetrics) RecordInvalidOperation(ctx context.Context, op string) {
	m.rec.Count(ctx, "invalid_operations.total", 1, attribute.String(telemetry.AttrOperationType, op))
	if m.collector != nil {
		m.collector.TrackError(stats.ErrInvalidOperation)
	}
}

func (m *bufferMetrics) RecordCodec(ctx context.Context, op string, codec Codec, in, out int, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(telemetry.AttrOperationType, op),
		attribute.String(attrCodec, codec.String()),
		attribute.String(telemetry.AttrStatus, telemetry.Status(err, telemetry.StatusError)),
	}
	m.rec.ObserveSince(ctx, "codec.duration.seconds", start, attrs...)
	m.rec.Count(ctx, "codec.bytes.in", int64(in), attrs...)
	m.rec.Count(ctx, "codec.bytes.out", int64(out), attrs...)

	if m.collector == nil {
		return
	}
	statOp := stats.OpCompress
	if op == opDecompress {
		statOp = stats.OpDecompress
	}
	m.collector.TrackOperationWithLatency(statOp, uint64(time.Since(start).Nanoseconds()))
	m.collector.TrackBytes(false, uint64(in))
	m.collector.TrackBytes(true, uint64(out))
}

func (m *bufferMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (n *noopMetrics) RecordAcquire(ctx context.Context, flags Flags, mutable, writable bool, err error) {
}

func (n *noopMetrics) RecordRelease(ctx context.Context) {}

func (n *noopMetrics) RecordInvalidOperation(ctx context.Context, op string) {}

func (n *noopMetrics) RecordCodec(ctx context.Context, op string, codec Codec, in, out int, start time.Time, err error) {
}

func (n *noopMetrics) Close() error {
	return nil
}
