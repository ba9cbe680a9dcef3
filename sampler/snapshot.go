// Package sampler converts raw, monotonically increasing OS counters into
// rates and percentages. Every sampler follows the same contract: the first
// read stores a snapshot and reports "warming up"; later reads compute
// wraparound-safe deltas against the stored snapshot and replace it.
package sampler

import "time"

// CounterSnapshot is one read of a counter set plus the wall-clock moment it
// was taken. A snapshot is owned by exactly one sampler and replaced whole on
// every poll.
type CounterSnapshot struct {
	Values []uint64
	At     time.Time
}

// Delta computes current-previous with wraparound protection: a counter that
// reset or overflowed yields 0 rather than underflowing to a huge value.
func Delta(current, previous uint64) uint64 {
	if current < previous {
		return 0
	}
	return current - previous
}

// elapsedSeconds returns the wall-clock gap between two snapshots, clamped to
// a small positive floor so a stalled or stepped clock never divides by zero.
func elapsedSeconds(now, previous time.Time) float64 {
	const minElapsed = 0.001
	sec := now.Sub(previous).Seconds()
	if sec < minElapsed {
		return minElapsed
	}
	return sec
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
