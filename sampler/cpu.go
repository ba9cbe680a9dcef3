package sampler

import "time"

// CPUTicks is one cumulative reading of the scheduler tick counters.
type CPUTicks struct {
	User   uint64
	Nice   uint64
	System uint64
	Idle   uint64
}

// Total sums all tick buckets.
func (t CPUTicks) Total() uint64 {
	return t.User + t.Nice + t.System + t.Idle
}

// CPUReading is the percentage breakdown computed from two tick snapshots.
type CPUReading struct {
	UsedPercent   float64
	UserPercent   float64
	SystemPercent float64
	IdlePercent   float64
}

// CPUProbe reads the aggregate tick counters.
type CPUProbe func() (CPUTicks, error)

// CPUCoreProbe reads one tick set per logical core.
type CPUCoreProbe func() ([]CPUTicks, error)

// Snapshot value layout for the aggregate CPU sampler.
const (
	cpuSlotUserNice = iota
	cpuSlotSystem
	cpuSlotIdle
	cpuSlotTotal
	cpuSlotCount
)

// CPUSampler computes CPU usage percentages from tick counter deltas.
type CPUSampler struct {
	probe     CPUProbe
	coreProbe CPUCoreProbe
	prev      *CounterSnapshot
	prevCores []CPUTicks
	history   *History
}

func NewCPUSampler(probe CPUProbe, coreProbe CPUCoreProbe) *CPUSampler {
	return &CPUSampler{probe: probe, coreProbe: coreProbe, history: NewHistory()}
}

// Sample reads the tick counters and computes the usage breakdown against the
// previous snapshot. ok is false on the warm-up call, when the probe fails,
// and when no ticks elapsed between reads.
func (s *CPUSampler) Sample(now time.Time) (CPUReading, bool, error) {
	ticks, err := s.probe()
	if err != nil {
		return CPUReading{}, false, err
	}
	next := &CounterSnapshot{
		Values: []uint64{ticks.User + ticks.Nice, ticks.System, ticks.Idle, ticks.Total()},
		At:     now,
	}
	prev := s.prev
	s.prev = next
	if prev == nil || len(prev.Values) != cpuSlotCount {
		return CPUReading{}, false, nil
	}

	dTotal := Delta(next.Values[cpuSlotTotal], prev.Values[cpuSlotTotal])
	if dTotal == 0 {
		return CPUReading{}, false, nil
	}
	dUser := Delta(next.Values[cpuSlotUserNice], prev.Values[cpuSlotUserNice])
	dSystem := Delta(next.Values[cpuSlotSystem], prev.Values[cpuSlotSystem])
	dIdle := Delta(next.Values[cpuSlotIdle], prev.Values[cpuSlotIdle])

	r := CPUReading{
		UsedPercent:   clampPercent(float64(dTotal-min64(dIdle, dTotal)) / float64(dTotal) * 100),
		UserPercent:   clampPercent(float64(dUser) / float64(dTotal) * 100),
		SystemPercent: clampPercent(float64(dSystem) / float64(dTotal) * 100),
		IdlePercent:   clampPercent(float64(dIdle) / float64(dTotal) * 100),
	}
	s.history.Push(r.UsedPercent)
	return r, true, nil
}

// SampleCores computes per-core used percentages. A core-count change between
// polls (hot-plug) re-keys the previous snapshot array and reports warm-up
// instead of crashing or mixing cores.
func (s *CPUSampler) SampleCores() ([]float64, bool, error) {
	if s.coreProbe == nil {
		return nil, false, nil
	}
	cores, err := s.coreProbe()
	if err != nil {
		return nil, false, err
	}
	prev := s.prevCores
	s.prevCores = cores
	if prev == nil || len(prev) != len(cores) {
		return nil, false, nil
	}

	out := make([]float64, len(cores))
	for i, cur := range cores {
		dTotal := Delta(cur.Total(), prev[i].Total())
		if dTotal == 0 {
			out[i] = 0
			continue
		}
		dIdle := Delta(cur.Idle, prev[i].Idle)
		out[i] = clampPercent(float64(dTotal-min64(dIdle, dTotal)) / float64(dTotal) * 100)
	}
	return out, true, nil
}

// History returns the rolling used% samples, oldest first.
func (s *CPUSampler) History() []float64 {
	return s.history.Values()
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
