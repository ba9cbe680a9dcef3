package module

import (
	"fmt"
	"time"

	"statbar/sampler"
)

// MemoryConfig holds the memory module's secondary display toggles.
type MemoryConfig struct {
	// ShowAbsolute switches the bar text from a percentage to used bytes.
	ShowAbsolute bool `json:"showAbsolute" plist:"showAbsolute"`
}

// Memory displays physical memory usage.
type Memory struct {
	base
	sampler *sampler.MemSampler
	config  MemoryConfig
}

func NewMemory(s *sampler.MemSampler) *Memory {
	return &Memory{
		base:    newBase("memory", KindMemory, "Memory", "▦"),
		sampler: s,
	}
}

func (m *Memory) Config() MemoryConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

func (m *Memory) SetConfig(cfg MemoryConfig) {
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
}

func (m *Memory) Cadence() Cadence { return CadenceFast }

func (m *Memory) Update(now time.Time) bool {
	r, ok, err := m.sampler.Sample()
	if err != nil {
		return m.setOutput(Placeholder, "Memory: "+err.Error())
	}
	if !ok {
		return m.setOutput(Placeholder, "Memory: no data")
	}
	display := fmt.Sprintf("%.0f%%", r.Percent)
	if m.Config().ShowAbsolute {
		display = sampler.FormatBytes(r.Used)
	}
	hover := fmt.Sprintf("Memory %s of %s (%.0f%%)",
		sampler.FormatBytes(r.Used), sampler.FormatBytes(r.Total), r.Percent)
	if spark := sampler.Sparkline(m.sampler.History()); spark != "" {
		hover += "\n" + spark
	}
	return m.setOutput(display, hover)
}
