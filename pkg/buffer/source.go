package buffer

import (
	"context"

	"github.com/KevoDB/interop/pkg/common/log"
)

// Source hands out views over one Memory region. It holds no mutable state
// of its own, so concurrent Acquire calls are safe.
type Source struct {
	mem     Memory
	logger  log.Logger
	metrics Metrics
}

// Option configures a Source
type Option func(*Source)

// WithLogger sets the logger used for rejected acquisitions
func WithLogger(logger log.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics sink
func WithMetrics(metrics Metrics) Option {
	return func(s *Source) {
		s.metrics = metrics
	}
}

// NewSource creates a source over m
func NewSource(m Memory, opts ...Option) *Source {
	s := &Source{
		mem:     m,
		logger:  log.GetDefaultLogger(),
		metrics: NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", component)
	return s
}

// Memory returns the wrapped region
func (s *Source) Memory() Memory {
	return s.mem
}

// Acquire grants a view for flags or rejects the request.
//
// A writable request over read-only memory fails here with
// *BufferNotWritableError, so no caller ever holds a view it cannot honor.
// A request without FlagWritable always yields a read-only view, even over
// mutable memory. ctx only carries instrumentation.
func (s *Source) Acquire(ctx context.Context, flags Flags) (*View, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	wantWrite := flags.Has(FlagWritable)
	if wantWrite && !s.mem.IsMutable() {
		err := &BufferNotWritableError{Requested: flags, Len: s.mem.Len()}
		s.logger.Debug("rejected %s acquisition over %s", flags, s.mem)
		s.metrics.RecordAcquire(ctx, flags, false, true, err)
		return nil, err
	}

	v := &View{
		mem:      s.mem,
		flags:    flags,
		readOnly: !wantWrite,
		metrics:  s.metrics,
	}
	s.metrics.RecordAcquire(ctx, flags, s.mem.IsMutable(), wantWrite, nil)
	return v, nil
}

// WithView acquires a view, passes it to fn and releases it afterwards.
func (s *Source) WithView(ctx context.Context, flags Flags, fn func(*View) error) error {
	v, err := s.Acquire(ctx, flags)
	if err != nil {
		return err
	}
	defer v.Release()
	return fn(v)
}
