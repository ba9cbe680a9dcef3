package module

import (
	"fmt"
	"strings"
	"time"

	"statbar/sampler"
)

// CPUConfig holds the CPU module's secondary display toggles.
type CPUConfig struct {
	ShowBreakdown bool `json:"showBreakdown" plist:"showBreakdown"`
	ShowPerCore   bool `json:"showPerCore" plist:"showPerCore"`
}

// CPU displays overall processor usage with an optional user/system
// breakdown and per-core detail in the hover text.
type CPU struct {
	base
	sampler *sampler.CPUSampler
	config  CPUConfig
}

func NewCPU(s *sampler.CPUSampler) *CPU {
	return &CPU{
		base:    newBase("cpu", KindCPU, "CPU", "⚙"),
		sampler: s,
		config:  CPUConfig{ShowBreakdown: true},
	}
}

func (c *CPU) Config() CPUConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

func (c *CPU) SetConfig(cfg CPUConfig) {
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()
}

func (c *CPU) Cadence() Cadence { return CadenceRealtime }

func (c *CPU) Update(now time.Time) bool {
	r, ok, err := c.sampler.Sample(now)
	if err != nil {
		return c.setOutput(Placeholder, "CPU: "+err.Error())
	}
	if !ok {
		return c.setOutput(Placeholder, "CPU: gathering first sample")
	}
	cfg := c.Config()

	var hover strings.Builder
	fmt.Fprintf(&hover, "CPU %.0f%%", r.UsedPercent)
	if cfg.ShowBreakdown {
		fmt.Fprintf(&hover, "\nuser %.0f%%  sys %.0f%%  idle %.0f%%",
			r.UserPercent, r.SystemPercent, r.IdlePercent)
	}
	if cfg.ShowPerCore {
		if cores, coresOK, coreErr := c.sampler.SampleCores(); coreErr == nil && coresOK {
			parts := make([]string, len(cores))
			for i, pct := range cores {
				parts[i] = fmt.Sprintf("%.0f%%", pct)
			}
			hover.WriteString("\ncores: " + strings.Join(parts, " "))
		}
	}
	if spark := sampler.Sparkline(c.sampler.History()); spark != "" {
		hover.WriteString("\n" + spark)
	}
	return c.setOutput(fmt.Sprintf("%.0f%%", r.UsedPercent), hover.String())
}
