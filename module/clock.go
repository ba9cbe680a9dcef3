package module

import (
	"time"

	"statbar/clock"
)

// Clock displays one or more timezone clocks driven by a clock.Engine. The
// engine's bucket logic means Update is cheap whenever the displayed minute
// or second has not rolled over.
type Clock struct {
	base
	engine *clock.Engine
}

func NewClock(id string, settings clock.Settings) *Clock {
	c := &Clock{
		base:   newBase(id, KindClock, "Clock", "◴"),
		engine: clock.NewEngine(settings),
	}
	c.base.enabled = settings.Enabled
	return c
}

// Settings returns the engine's current (clamped) settings.
func (c *Clock) Settings() clock.Settings {
	return c.engine.Settings()
}

// ApplySettings pushes new settings into the engine and keeps the module's
// enabled flag in sync so the two can never drift apart.
func (c *Clock) ApplySettings(s clock.Settings) {
	c.engine.ApplySettings(s)
	c.base.SetEnabled(s.Enabled)
}

// SetEnabled propagates enablement into the engine's settings.
func (c *Clock) SetEnabled(v bool) {
	c.base.SetEnabled(v)
	s := c.engine.Settings()
	if s.Enabled != v {
		s.Enabled = v
		c.engine.ApplySettings(s)
	}
}

// MarkDirty invalidates the engine's caches after a system timezone or
// locale change.
func (c *Clock) MarkDirty() {
	c.engine.MarkDirty()
}

func (c *Clock) Cadence() Cadence {
	if c.engine.Settings().ShowSeconds {
		return CadenceRealtime
	}
	return CadenceFast
}

func (c *Clock) Update(now time.Time) bool {
	text, ok := c.engine.Next(now)
	if !ok {
		return false
	}
	return c.setOutput(text, c.engine.Detail(now))
}
