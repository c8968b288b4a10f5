package stats

// Provider exposes a point-in-time view of collected counters.
type Provider interface {
	// GetStats returns every counter keyed by its flat name
	GetStats() map[string]interface{}

	// GetStatsFiltered returns only keys starting with prefix
	GetStatsFiltered(prefix string) map[string]interface{}
}

// Collector receives adapter and buffer events.
type Collector interface {
	Provider

	TrackOperation(op OperationType)
	TrackOperationWithLatency(op OperationType, latencyNs uint64)
	TrackError(errorType string)

	// TrackBytes counts bytes consumed (isWrite false) or produced (isWrite true)
	TrackBytes(isWrite bool, bytes uint64)

	// TrackView records whether a buffer acquisition was granted and as what
	TrackView(granted, writable bool)
}

var _ Collector = (*AtomicCollector)(nil)
