// Package engine runs the single background polling loop: it updates every
// enabled module sequentially each tick, coalesces their changes into one
// notification, and adapts the tick interval to the fastest enabled cadence.
package engine

import (
	"sync"
	"time"

	"statbar/module"
)

// Tick intervals by the fastest enabled cadence.
const (
	realtimeInterval = time.Second
	fastInterval     = 5 * time.Second
	slowInterval     = 10 * time.Second
)

// Source supplies the current enabled module set. The scheduler re-reads it
// every tick, so add/remove/reorder take effect without a restart.
type Source interface {
	EnabledModules() []module.Module
}

// Scheduler is the update engine. Start and Stop are idempotent; Stop
// interrupts the inter-tick sleep and returns once the loop has exited.
type Scheduler struct {
	source          Source
	onValuesChanged func()
	metrics         *TickTracker
	now             func() time.Time

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

func New(source Source, onValuesChanged func()) *Scheduler {
	return &Scheduler{
		source:          source,
		onValuesChanged: onValuesChanged,
		metrics:         NewTickTracker(256),
		now:             time.Now,
	}
}

// Metrics exposes the poll-pass latency tracker.
func (s *Scheduler) Metrics() *TickTracker {
	return s.metrics
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.quit, s.done)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	quit, done := s.quit, s.done
	s.mu.Unlock()

	close(quit)
	<-done
}

func (s *Scheduler) run(quit, done chan struct{}) {
	defer close(done)
	for {
		interval := s.tick(quit)
		if interval == 0 {
			return
		}
		timer := time.NewTimer(interval)
		select {
		case <-quit:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// tick polls every enabled module once, sequentially, and fires a single
// coalesced notification when any display value changed. It returns the next
// tick interval, or 0 when quit was closed mid-pass.
func (s *Scheduler) tick(quit <-chan struct{}) time.Duration {
	start := time.Now()
	mods := s.source.EnabledModules()
	changed := false
	for _, m := range mods {
		if quit != nil {
			select {
			case <-quit:
				return 0
			default:
			}
		}
		if m.Update(s.now()) {
			changed = true
		}
	}
	s.metrics.Observe(time.Since(start))
	if changed && s.onValuesChanged != nil {
		s.onValuesChanged()
	}
	return Interval(mods)
}

// Interval maps the enabled module set onto a tick interval: 1s when any
// realtime module (CPU, network, seconds clock) is enabled, 5s when only
// fast modules are, 10s otherwise. The empty set still ticks so newly
// enabled modules are picked up.
func Interval(mods []module.Module) time.Duration {
	interval := slowInterval
	for _, m := range mods {
		switch m.Cadence() {
		case module.CadenceRealtime:
			return realtimeInterval
		case module.CadenceFast:
			interval = fastInterval
		}
	}
	return interval
}
