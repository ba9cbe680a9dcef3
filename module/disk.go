package module

import (
	"fmt"
	"time"

	"statbar/sampler"
)

// DiskConfig holds the disk module's secondary display toggles.
type DiskConfig struct {
	// ShowFree switches the bar text from used% to free bytes.
	ShowFree bool `json:"showFree" plist:"showFree"`
}

// Disk displays root volume capacity. The underlying sampler enforces its
// own floor interval, so this module tolerates any scheduler cadence.
type Disk struct {
	base
	sampler *sampler.DiskSampler
	config  DiskConfig
}

func NewDisk(s *sampler.DiskSampler) *Disk {
	return &Disk{
		base:    newBase("disk", KindDisk, "Disk", "◔"),
		sampler: s,
	}
}

func (d *Disk) Config() DiskConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

func (d *Disk) SetConfig(cfg DiskConfig) {
	d.mu.Lock()
	d.config = cfg
	d.mu.Unlock()
}

func (d *Disk) Cadence() Cadence { return CadenceFast }

func (d *Disk) Update(now time.Time) bool {
	r, ok, err := d.sampler.Sample(now)
	if err != nil {
		return d.setOutput(Placeholder, "Disk: "+err.Error())
	}
	if !ok {
		return d.setOutput(Placeholder, "Disk: no data")
	}
	display := fmt.Sprintf("%.0f%%", r.Percent)
	if d.Config().ShowFree {
		display = sampler.FormatBytes(r.Free) + " free"
	}
	hover := fmt.Sprintf("Disk %s used of %s · %s free",
		sampler.FormatBytes(r.Used), sampler.FormatBytes(r.Total), sampler.FormatBytes(r.Free))
	return d.setOutput(display, hover)
}
