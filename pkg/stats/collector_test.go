package stats

import (
	"sync"
	"testing"
	"time"
)

func TestOperationCountsAndTimestamps(t *testing.T) {
	c := NewAtomicCollector()
	before := time.Now().UnixNano()

	c.TrackOperation(OpConvert)
	c.TrackOperation(OpConvert)
	c.TrackOperation(OpAcquire)

	s := c.GetStats()
	if got := s["convert_ops"].(uint64); got != 2 {
		t.Errorf("convert_ops = %d, want 2", got)
	}
	if got := s["acquire_ops"].(uint64); got != 1 {
		t.Errorf("acquire_ops = %d, want 1", got)
	}
	if ts := s["last_convert_time"].(int64); ts < before {
		t.Errorf("last_convert_time %d predates the first call %d", ts, before)
	}
	if _, ok := s["release_ops"]; ok {
		t.Error("release_ops should be absent before any release")
	}
	if _, ok := s["convert_latency"]; ok {
		t.Error("convert_latency should be absent without latency samples")
	}
}

func TestLatencySummary(t *testing.T) {
	c := NewAtomicCollector()
	for _, ns := range []uint64{300, 100, 200} {
		c.TrackOperationWithLatency(OpCompress, ns)
	}

	lat, ok := c.GetStats()["compress_latency"].(map[string]interface{})
	if !ok {
		t.Fatal("compress_latency missing")
	}
	want := map[string]uint64{"count": 3, "avg_ns": 200, "min_ns": 100, "max_ns": 300}
	for k, v := range want {
		if got := lat[k].(uint64); got != v {
			t.Errorf("%s = %d, want %d", k, got, v)
		}
	}
	if got := c.GetStats()["compress_ops"].(uint64); got != 3 {
		t.Errorf("compress_ops = %d, want 3", got)
	}
}

func TestBytesAndViews(t *testing.T) {
	c := NewAtomicCollector()
	c.TrackBytes(false, 64)
	c.TrackBytes(true, 16)
	c.TrackBytes(false, 36)

	c.TrackView(true, true)
	c.TrackView(true, false)
	c.TrackView(true, false)
	c.TrackView(false, true)

	s := c.GetStats()
	tests := map[string]uint64{
		"total_bytes_read":    100,
		"total_bytes_written": 16,
		"views_writable":      1,
		"views_read_only":     2,
		"views_rejected":      1,
	}
	for key, want := range tests {
		if got := s[key].(uint64); got != want {
			t.Errorf("%s = %d, want %d", key, got, want)
		}
	}
}

func TestErrorsSubMap(t *testing.T) {
	c := NewAtomicCollector()
	if errs := c.GetStats()["errors"].(map[string]uint64); len(errs) != 0 {
		t.Errorf("expected empty errors map, got %v", errs)
	}

	c.TrackError(ErrNotWritable)
	c.TrackError(ErrInvalidOperation)
	c.TrackError(ErrInvalidOperation)

	errs := c.GetStats()["errors"].(map[string]uint64)
	if errs[ErrNotWritable] != 1 || errs[ErrInvalidOperation] != 2 {
		t.Errorf("unexpected error counts %v", errs)
	}
}

func TestGetStatsFiltered(t *testing.T) {
	c := NewAtomicCollector()
	c.TrackOperation(OpConvert)
	c.TrackOperation(OpRelease)
	c.TrackError(ErrUnsupported)

	got := c.GetStatsFiltered("release")
	if len(got) != 1 {
		t.Errorf("expected only release_ops, got %v", got)
	}
	if _, ok := got["release_ops"]; !ok {
		t.Error("release_ops missing from filtered stats")
	}

	views := c.GetStatsFiltered("views_")
	if len(views) != 3 {
		t.Errorf("expected three view counters, got %v", views)
	}
	if _, ok := c.GetStatsFiltered("err")["errors"]; !ok {
		t.Error("errors missing from err-filtered stats")
	}
}

func TestConcurrentTracking(t *testing.T) {
	c := NewAtomicCollector()
	const workers = 8
	const perWorker = 600

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				switch i % 3 {
				case 0:
					c.TrackOperation(OpIterate)
				case 1:
					c.TrackError(ErrTypeMismatch)
				case 2:
					c.TrackOperationWithLatency(OpAcquire, uint64(i))
					c.TrackView(true, i%2 == 0)
				}
			}
		}()
	}
	wg.Wait()

	s := c.GetStats()
	third := uint64(workers * perWorker / 3)
	if got := s["iterate_ops"].(uint64); got != third {
		t.Errorf("iterate_ops = %d, want %d", got, third)
	}
	if got := s["acquire_ops"].(uint64); got != third {
		t.Errorf("acquire_ops = %d, want %d", got, third)
	}
	if got := s["errors"].(map[string]uint64)[ErrTypeMismatch]; got != third {
		t.Errorf("type_mismatch = %d, want %d", got, third)
	}
	views := s["views_writable"].(uint64) + s["views_read_only"].(uint64)
	if views != third {
		t.Errorf("granted views = %d, want %d", views, third)
	}
	lat := s["acquire_latency"].(map[string]interface{})
	if lat["min_ns"].(uint64) != 2 || lat["max_ns"].(uint64) != perWorker-1 {
		t.Errorf("unexpected latency bounds %v", lat)
	}
}
