package stats

import (
	"maps"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// OperationType names an adapter or buffer operation.
type OperationType string

const (
	OpIterate    OperationType = "iterate"
	OpConvert    OperationType = "convert"
	OpAcquire    OperationType = "acquire"
	OpRelease    OperationType = "release"
	OpCompress   OperationType = "compress"
	OpDecompress OperationType = "decompress"
)

// Error categories passed to TrackError.
const (
	ErrTypeMismatch     = "type_mismatch"
	ErrNotWritable      = "buffer_not_writable"
	ErrInvalidOperation = "invalid_operation"
	ErrUnsupported      = "unsupported_operation"
)

type viewOutcome int

const (
	viewWritable viewOutcome = iota
	viewReadOnly
	viewRejected
	numViewOutcomes
)

var viewKeys = [numViewOutcomes]string{
	viewWritable: "views_writable",
	viewReadOnly: "views_read_only",
	viewRejected: "views_rejected",
}

// AtomicCollector counts operations, errors, bytes and view outcomes.
// Entries are created lazily in sync.Maps; all counting is lock-free.
type AtomicCollector struct {
	ops    sync.Map // OperationType -> *opStats
	errors sync.Map // string -> *atomic.Uint64

	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64

	views [numViewOutcomes]atomic.Uint64
}

type opStats struct {
	count    atomic.Uint64
	lastNano atomic.Int64
	latency  LatencyTracker
}

// LatencyTracker keeps running latency figures in nanoseconds.
// min stays 0 until the first sample arrives.
type LatencyTracker struct {
	count atomic.Uint64
	sum   atomic.Uint64
	max   atomic.Uint64
	min   atomic.Uint64
}

func (l *LatencyTracker) observe(ns uint64) {
	l.count.Add(1)
	l.sum.Add(ns)

	for cur := l.max.Load(); ns > cur; cur = l.max.Load() {
		if l.max.CompareAndSwap(cur, ns) {
			break
		}
	}
	for cur := l.min.Load(); cur == 0 || ns < cur; cur = l.min.Load() {
		if l.min.CompareAndSwap(cur, ns) {
			break
		}
	}
}

func (l *LatencyTracker) summary() (map[string]interface{}, bool) {
	count := l.count.Load()
	if count == 0 {
		return nil, false
	}
	out := map[string]interface{}{
		"count":  count,
		"avg_ns": l.sum.Load() / count,
	}
	if v := l.min.Load(); v != 0 {
		out["min_ns"] = v
	}
	if v := l.max.Load(); v != 0 {
		out["max_ns"] = v
	}
	return out, true
}

// NewAtomicCollector creates an empty collector.
func NewAtomicCollector() *AtomicCollector {
	return &AtomicCollector{}
}

// TrackOperation counts op and stamps its last occurrence.
func (c *AtomicCollector) TrackOperation(op OperationType) {
	s := loadOrCreate[opStats](&c.ops, op)
	s.count.Add(1)
	s.lastNano.Store(time.Now().UnixNano())
}

// TrackOperationWithLatency counts op and folds latencyNs into its tracker.
func (c *AtomicCollector) TrackOperationWithLatency(op OperationType, latencyNs uint64) {
	c.TrackOperation(op)
	loadOrCreate[opStats](&c.ops, op).latency.observe(latencyNs)
}

func (c *AtomicCollector) TrackError(errorType string) {
	loadOrCreate[atomic.Uint64](&c.errors, errorType).Add(1)
}

func (c *AtomicCollector) TrackBytes(isWrite bool, bytes uint64) {
	if isWrite {
		c.bytesWritten.Add(bytes)
		return
	}
	c.bytesRead.Add(bytes)
}

func (c *AtomicCollector) TrackView(granted, writable bool) {
	switch {
	case !granted:
		c.views[viewRejected].Add(1)
	case writable:
		c.views[viewWritable].Add(1)
	default:
		c.views[viewReadOnly].Add(1)
	}
}

// GetStats flattens the collector into <op>_ops, last_<op>_time,
// <op>_latency, views_*, total_bytes_* and an "errors" sub-map.
func (c *AtomicCollector) GetStats() map[string]interface{} {
	out := map[string]interface{}{
		"total_bytes_read":    c.bytesRead.Load(),
		"total_bytes_written": c.bytesWritten.Load(),
	}
	for i, key := range viewKeys {
		out[key] = c.views[i].Load()
	}

	c.ops.Range(func(k, v any) bool {
		op, s := string(k.(OperationType)), v.(*opStats)
		out[op+"_ops"] = s.count.Load()
		out["last_"+op+"_time"] = s.lastNano.Load()
		if lat, ok := s.latency.summary(); ok {
			out[op+"_latency"] = lat
		}
		return true
	})

	errs := make(map[string]uint64)
	c.errors.Range(func(k, v any) bool {
		errs[k.(string)] = v.(*atomic.Uint64).Load()
		return true
	})
	out["errors"] = errs

	return out
}

func (c *AtomicCollector) GetStatsFiltered(prefix string) map[string]interface{} {
	all := c.GetStats()
	maps.DeleteFunc(all, func(k string, _ interface{}) bool {
		return !strings.HasPrefix(k, prefix)
	})
	return all
}

func loadOrCreate[V any, K comparable](m *sync.Map, key K) *V {
	if v, ok := m.Load(key); ok {
		return v.(*V)
	}
	v, _ := m.LoadOrStore(key, new(V))
	return v.(*V)
}
