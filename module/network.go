package module

import (
	"fmt"
	"time"

	"statbar/sampler"
)

// NetworkConfig holds the network module's secondary display toggles.
type NetworkConfig struct {
	// Unit fixes the displayed throughput unit; empty or "auto" walks the
	// B → KB → MB → GB ladder.
	Unit sampler.RateUnit `json:"unit" plist:"unit"`
	// Interface pins the monitored interface; empty re-resolves the primary
	// interface on every poll.
	Interface string `json:"interface" plist:"interface"`
}

// Network displays throughput of the primary (or pinned) interface.
type Network struct {
	base
	sampler *sampler.NetSampler
	config  NetworkConfig
}

func NewNetwork(s *sampler.NetSampler) *Network {
	return &Network{
		base:    newBase("network", KindNetwork, "Network", "⇅"),
		sampler: s,
		config:  NetworkConfig{Unit: sampler.UnitAuto},
	}
}

func (n *Network) Config() NetworkConfig {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.config
}

func (n *Network) SetConfig(cfg NetworkConfig) {
	if cfg.Unit == "" {
		cfg.Unit = sampler.UnitAuto
	}
	n.mu.Lock()
	n.config = cfg
	n.mu.Unlock()
}

func (n *Network) Cadence() Cadence { return CadenceRealtime }

func (n *Network) Update(now time.Time) bool {
	r, ok, err := n.sampler.Sample(now)
	if err != nil {
		return n.setOutput(Placeholder, "Network: "+err.Error())
	}
	if !ok {
		return n.setOutput(Placeholder, "Network: gathering first sample")
	}
	unit := n.Config().Unit
	display := fmt.Sprintf("↓%s ↑%s",
		sampler.FormatRate(r.InPerSec, unit), sampler.FormatRate(r.OutPerSec, unit))
	hover := fmt.Sprintf("Network (%s)\ndown %s\nup   %s",
		r.Interface,
		sampler.FormatRate(r.InPerSec, unit),
		sampler.FormatRate(r.OutPerSec, unit))
	if spark := sampler.Sparkline(n.sampler.HistoryIn()); spark != "" {
		hover += "\n" + spark
	}
	return n.setOutput(display, hover)
}
