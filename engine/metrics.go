package engine

import (
	"sort"
	"sync"
	"time"
)

// TickTracker keeps a bounded ring of poll-pass durations for percentile
// estimates shown in the detail pane.
type TickTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	count   int
	idx     int
	ticks   uint64
}

func NewTickTracker(size int) *TickTracker {
	if size <= 0 {
		size = 256
	}
	return &TickTracker{samples: make([]time.Duration, size)}
}

func (t *TickTracker) Observe(d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.samples[t.idx] = d
	t.idx = (t.idx + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
	t.ticks++
	t.mu.Unlock()
}

// TickSnapshot summarizes recent poll-pass latency.
type TickSnapshot struct {
	P50   time.Duration
	P99   time.Duration
	N     int
	Ticks uint64
}

func (t *TickTracker) Snapshot() TickSnapshot {
	if t == nil {
		return TickSnapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return TickSnapshot{Ticks: t.ticks}
	}
	values := make([]time.Duration, t.count)
	copy(values, t.samples[:t.count])
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return TickSnapshot{
		P50:   values[t.count/2],
		P99:   values[int(float64(t.count-1)*0.99)],
		N:     t.count,
		Ticks: t.ticks,
	}
}
