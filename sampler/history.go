package sampler

import "sync"

// HistoryCap is the fixed capacity of every sampler's rolling history.
const HistoryCap = 24

// History keeps a bounded drop-oldest ring of recent sample values for
// sparkline-style secondary display.
type History struct {
	mu      sync.Mutex
	samples []float64
	idx     int
	count   int
}

func NewHistory() *History {
	return &History{samples: make([]float64, HistoryCap)}
}

func (h *History) Push(v float64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.samples[h.idx] = v
	h.idx = (h.idx + 1) % len(h.samples)
	if h.count < len(h.samples) {
		h.count++
	}
	h.mu.Unlock()
}

// Values returns the retained samples oldest first.
func (h *History) Values() []float64 {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]float64, 0, h.count)
	start := h.idx - h.count
	if start < 0 {
		start += len(h.samples)
	}
	for i := 0; i < h.count; i++ {
		out = append(out, h.samples[(start+i)%len(h.samples)])
	}
	return out
}
