// Package module defines the unit of telemetry shown in the bar: a stable
// identity plus enablement, a last computed display value, and an Update
// method the scheduler drives. Each module guards its mutable fields with its
// own mutex so the scheduler and the settings surface never race.
package module

import (
	"sync"
	"time"
)

// Kind identifies what a module measures.
type Kind string

const (
	KindCPU     Kind = "cpu"
	KindMemory  Kind = "memory"
	KindDisk    Kind = "disk"
	KindNetwork Kind = "network"
	KindUptime  Kind = "uptime"
	KindClock   Kind = "clock"
)

// Cadence buckets modules by how quickly their values move; the scheduler
// picks its tick interval from the fastest enabled cadence.
type Cadence int

const (
	// CadenceRealtime wants 1s ticks (CPU, network, clocks showing seconds).
	CadenceRealtime Cadence = iota
	// CadenceFast is fine with 5s ticks (memory, disk, minute clocks).
	CadenceFast
	// CadenceSlow is fine with 10s ticks (uptime and similar).
	CadenceSlow
)

// Placeholder is shown until a module produces its first real value.
const Placeholder = "—"

// Module is the capability set the scheduler, store, and layout engine need.
type Module interface {
	ID() string
	Kind() Kind
	Title() string
	Symbol() string

	Enabled() bool
	SetEnabled(bool)
	ShowsValue() bool
	SetShowsValue(bool)

	Cadence() Cadence

	// Update polls the underlying source and recomputes the display text,
	// returning true when the display text changed. Called only from the
	// scheduler goroutine, one module at a time.
	Update(now time.Time) bool

	DisplayValue() string
	HoverText() string
}

// base carries the fields and locking shared by all module kinds.
type base struct {
	mu         sync.Mutex
	id         string
	kind       Kind
	title      string
	symbol     string
	enabled    bool
	showsValue bool
	display    string
	hover      string
}

func newBase(id string, kind Kind, title, symbol string) base {
	return base{
		id:         id,
		kind:       kind,
		title:      title,
		symbol:     symbol,
		enabled:    true,
		showsValue: true,
		display:    Placeholder,
	}
}

func (b *base) ID() string     { return b.id }
func (b *base) Kind() Kind     { return b.kind }
func (b *base) Title() string  { return b.title }
func (b *base) Symbol() string { return b.symbol }

func (b *base) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

func (b *base) SetEnabled(v bool) {
	b.mu.Lock()
	b.enabled = v
	b.mu.Unlock()
}

func (b *base) ShowsValue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.showsValue
}

func (b *base) SetShowsValue(v bool) {
	b.mu.Lock()
	b.showsValue = v
	b.mu.Unlock()
}

func (b *base) DisplayValue() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.display
}

func (b *base) HoverText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hover
}

// setOutput stores the freshly computed texts and reports whether the
// display value changed. Hover-only changes do not count as a change because
// only the display text drives bar redraws.
func (b *base) setOutput(display, hover string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := b.display != display
	b.display = display
	b.hover = hover
	return changed
}
