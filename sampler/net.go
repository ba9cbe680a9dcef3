package sampler

import "time"

// NetCounters is one cumulative byte-counter reading for the primary
// interface. The interface can disappear (sleep, cable pull) and is
// re-resolved by the probe on every read.
type NetCounters struct {
	Interface string
	BytesIn   uint64
	BytesOut  uint64
}

// NetReading is the throughput computed between two counter readings.
type NetReading struct {
	Interface string
	InPerSec  float64
	OutPerSec float64
}

// NetProbe resolves the primary interface and reads its cumulative counters.
type NetProbe func() (NetCounters, error)

const (
	netSlotIn = iota
	netSlotOut
	netSlotCount
)

// NetSampler converts interface byte counters into bytes/sec.
type NetSampler struct {
	probe     NetProbe
	prev      *CounterSnapshot
	prevIface string
	histIn    *History
	histOut   *History
}

func NewNetSampler(probe NetProbe) *NetSampler {
	return &NetSampler{probe: probe, histIn: NewHistory(), histOut: NewHistory()}
}

// Sample reads the counters and computes throughput over the elapsed
// wall-clock time. ok is false on warm-up, on probe failure, and when the
// primary interface changed since the previous read (counters from different
// interfaces are not comparable).
func (s *NetSampler) Sample(now time.Time) (NetReading, bool, error) {
	cur, err := s.probe()
	if err != nil {
		s.prev = nil
		return NetReading{}, false, err
	}
	next := &CounterSnapshot{Values: []uint64{cur.BytesIn, cur.BytesOut}, At: now}
	prev := s.prev
	sameIface := cur.Interface == s.prevIface
	s.prev = next
	s.prevIface = cur.Interface
	if prev == nil || len(prev.Values) != netSlotCount || !sameIface {
		return NetReading{}, false, nil
	}

	sec := elapsedSeconds(now, prev.At)
	r := NetReading{
		Interface: cur.Interface,
		InPerSec:  float64(Delta(next.Values[netSlotIn], prev.Values[netSlotIn])) / sec,
		OutPerSec: float64(Delta(next.Values[netSlotOut], prev.Values[netSlotOut])) / sec,
	}
	s.histIn.Push(r.InPerSec)
	s.histOut.Push(r.OutPerSec)
	return r, true, nil
}

// HistoryIn returns the rolling download rates, oldest first.
func (s *NetSampler) HistoryIn() []float64 { return s.histIn.Values() }

// HistoryOut returns the rolling upload rates, oldest first.
func (s *NetSampler) HistoryOut() []float64 { return s.histOut.Values() }
