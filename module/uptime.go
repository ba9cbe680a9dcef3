package module

import (
	"time"

	"statbar/sampler"
)

// Uptime displays host uptime. Its value moves slowly, which puts it in the
// scheduler's slow cadence tier.
type Uptime struct {
	base
	sampler *sampler.UptimeSampler
}

func NewUptime(s *sampler.UptimeSampler) *Uptime {
	u := &Uptime{
		base:    newBase("uptime", KindUptime, "Uptime", "↑"),
		sampler: s,
	}
	// Off by default; uptime is the least interesting module.
	u.enabled = false
	return u
}

func (u *Uptime) Cadence() Cadence { return CadenceSlow }

func (u *Uptime) Update(now time.Time) bool {
	d, ok, err := u.sampler.Sample()
	if err != nil {
		return u.setOutput(Placeholder, "Uptime: "+err.Error())
	}
	if !ok {
		return u.setOutput(Placeholder, "Uptime: no data")
	}
	text := sampler.FormatUptime(d)
	return u.setOutput(text, "Booted "+now.Add(-d).Format("Mon Jan 2 15:04"))
}
