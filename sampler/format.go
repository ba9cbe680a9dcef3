package sampler

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// RateUnit fixes the unit a throughput figure is displayed in. UnitAuto walks
// the B → KB → MB → GB ladder.
type RateUnit string

const (
	UnitAuto RateUnit = "auto"
	UnitKB   RateUnit = "KB"
	UnitMB   RateUnit = "MB"
	UnitGB   RateUnit = "GB"
)

// FormatRate renders a bytes/sec figure in the requested unit.
func FormatRate(perSec float64, unit RateUnit) string {
	if perSec < 0 {
		perSec = 0
	}
	switch unit {
	case UnitKB:
		return fmt.Sprintf("%.1f KB/s", perSec/1000)
	case UnitMB:
		return fmt.Sprintf("%.1f MB/s", perSec/1e6)
	case UnitGB:
		return fmt.Sprintf("%.2f GB/s", perSec/1e9)
	default:
		return humanize.Bytes(uint64(perSec)) + "/s"
	}
}

// FormatBytes renders a byte count for hover text.
func FormatBytes(n uint64) string {
	return humanize.IBytes(n)
}

// FormatUptime renders an uptime duration as the largest two units.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("up %dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("up %dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("up %dm", minutes)
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as block runes scaled to the observed maximum.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if max > 0 && v > 0 {
			idx = int(v / max * float64(len(sparkRunes)-1))
			if idx >= len(sparkRunes) {
				idx = len(sparkRunes) - 1
			}
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
