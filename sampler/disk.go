package sampler

import "time"

// DiskFloorInterval is the minimum gap between filesystem stat calls. Disk
// capacity rarely changes and the syscall is comparatively expensive, so the
// sampler serves a cached reading between polls regardless of scheduler tick.
const DiskFloorInterval = 5 * time.Second

// DiskCounters is one reading of the monitored volume's capacity.
type DiskCounters struct {
	Total uint64
	Free  uint64
}

// DiskReading is the derived capacity view.
type DiskReading struct {
	Used    uint64
	Free    uint64
	Total   uint64
	Percent float64
}

// DiskProbe reads the monitored volume's capacity.
type DiskProbe func() (DiskCounters, error)

// DiskSampler polls filesystem capacity at its own floor interval.
type DiskSampler struct {
	probe    DiskProbe
	floor    time.Duration
	last     DiskReading
	lastOK   bool
	lastPoll time.Time
	history  *History
}

func NewDiskSampler(probe DiskProbe, floor time.Duration) *DiskSampler {
	if floor <= 0 {
		floor = DiskFloorInterval
	}
	return &DiskSampler{probe: probe, floor: floor, history: NewHistory()}
}

// Sample returns the cached reading when the floor interval has not elapsed,
// otherwise it polls the filesystem. ok is false until a poll has succeeded.
func (s *DiskSampler) Sample(now time.Time) (DiskReading, bool, error) {
	if !s.lastPoll.IsZero() && now.Sub(s.lastPoll) < s.floor {
		return s.last, s.lastOK, nil
	}
	s.lastPoll = now
	c, err := s.probe()
	if err != nil {
		s.lastOK = false
		return DiskReading{}, false, err
	}
	if c.Total == 0 {
		s.lastOK = false
		return DiskReading{}, false, nil
	}
	free := c.Free
	if free > c.Total {
		free = c.Total
	}
	used := c.Total - free
	s.last = DiskReading{
		Used:    used,
		Free:    free,
		Total:   c.Total,
		Percent: clampPercent(float64(used) / float64(c.Total) * 100),
	}
	s.lastOK = true
	s.history.Push(s.last.Percent)
	return s.last, true, nil
}

// History returns the rolling used% samples, oldest first.
func (s *DiskSampler) History() []float64 { return s.history.Values() }
