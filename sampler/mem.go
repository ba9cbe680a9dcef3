package sampler

// MemCounters is one reading of the host memory statistics. Used should be
// the active+wired style working set; Total is the physical memory size.
type MemCounters struct {
	Used  uint64
	Total uint64
}

// MemReading is the derived usage view.
type MemReading struct {
	Used    uint64
	Total   uint64
	Percent float64
}

// MemProbe reads the host memory statistics.
type MemProbe func() (MemCounters, error)

// MemSampler derives memory usage. No delta is involved; the total is cached
// after the first successful read since physical memory does not change for
// the life of the process.
type MemSampler struct {
	probe   MemProbe
	total   uint64
	history *History
}

func NewMemSampler(probe MemProbe) *MemSampler {
	return &MemSampler{probe: probe, history: NewHistory()}
}

// Sample reads memory statistics. ok is false only when the probe fails or
// reports a zero total.
func (s *MemSampler) Sample() (MemReading, bool, error) {
	c, err := s.probe()
	if err != nil {
		return MemReading{}, false, err
	}
	if s.total == 0 {
		s.total = c.Total
	}
	if s.total == 0 {
		return MemReading{}, false, nil
	}
	used := c.Used
	if used > s.total {
		used = s.total
	}
	r := MemReading{
		Used:    used,
		Total:   s.total,
		Percent: clampPercent(float64(used) / float64(s.total) * 100),
	}
	s.history.Push(r.Percent)
	return r, true, nil
}

// History returns the rolling used% samples, oldest first.
func (s *MemSampler) History() []float64 { return s.history.Values() }
