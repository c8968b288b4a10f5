package typed

import (
	"context"
	"fmt"

	"github.com/KevoDB/interop/pkg/convert"
	"github.com/KevoDB/interop/pkg/untyped"
)

// Adapter names reported to Metrics
const (
	AdapterIterator = "iterator"
	AdapterSequence = "sequence"
	AdapterList     = "list"
	AdapterMap      = "map"
)

// Option configures an adapter
type Option func(*options)

type options struct {
	metrics Metrics
	ctx     context.Context
}

// WithMetrics reports every conversion to m
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithContext sets the context metrics are recorded under
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		metrics: NewNoopMetrics(),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// convertValue converts v to T and reports the outcome
func convertValue[T any](o *options, adapter string, v any) (T, error) {
	t, err := convert.To[T](v)
	o.metrics.RecordConversion(o.ctx, adapter, convert.TypeName[T](), err)
	return t, err
}

// resetCursor restarts cursor when it supports it and reports the
// capability error otherwise
func resetCursor(o *options, adapter string, cursor any) error {
	if r, ok := cursor.(untyped.Resetter); ok {
		return r.Reset()
	}
	o.metrics.RecordUnsupported(o.ctx, adapter, "reset")
	return &UnsupportedOperationError{Op: "reset", Source: fmt.Sprintf("%T", cursor)}
}
