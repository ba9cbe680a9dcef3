// Package store owns the ordered module list and the per-clock settings map,
// enforces the data-model invariants after every mutation, and persists a
// flattened snapshot of the whole state.
package store

import (
	"log"
	"strconv"
	"strings"
	"sync"

	"statbar/clock"
	"statbar/module"
)

// DefaultClockID is the permanent default clock module. It always exists and
// is never removable.
const DefaultClockID = "clock"

// maxClockModules caps the default plus generated clocks.
const maxClockModules = 3

const generatedIDPrefix = DefaultClockID + "."

// Store is the single authority over module ordering, enablement, and clock
// settings. One instance is constructed at process start and shared by the
// scheduler (reads) and the settings surface (reads and writes).
type Store struct {
	mu            sync.Mutex
	modules       []module.Module
	clockSettings map[string]clock.Settings

	persister       *Persister
	onLayoutChanged func()
}

// Options configures a Store.
type Options struct {
	// Persister is optional; a nil persister keeps all state in memory.
	Persister *Persister
	// OnLayoutChanged is invoked (outside the store lock) after any
	// mutation that can change which modules are visible.
	OnLayoutChanged func()
}

// New builds a store over the given modules, guarantees the default clock
// exists, loads and normalizes any persisted snapshot, and re-persists when
// normalization had to repair it.
func New(mods []module.Module, opts Options) *Store {
	s := &Store{
		modules:         append([]module.Module(nil), mods...),
		clockSettings:   make(map[string]clock.Settings),
		persister:       opts.Persister,
		onLayoutChanged: opts.OnLayoutChanged,
	}
	for _, m := range s.modules {
		if c, ok := m.(*module.Clock); ok {
			s.clockSettings[c.ID()] = c.Settings()
		}
	}

	s.mu.Lock()
	s.normalizeLocked()
	if s.persister != nil {
		snap, found, err := s.persister.Load()
		if err != nil {
			log.Printf("State: falling back to defaults: %v", err)
		}
		if found {
			s.applySnapshotLocked(snap)
		}
		s.normalizeLocked()
		if err := s.persister.Save(s.snapshotLocked()); err != nil {
			log.Printf("State: persist failed: %v", err)
		}
	}
	s.mu.Unlock()
	return s
}

// Modules returns a copy of the ordered module list.
func (s *Store) Modules() []module.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]module.Module(nil), s.modules...)
}

// EnabledModules returns the ordered enabled modules. The scheduler calls
// this once per tick.
func (s *Store) EnabledModules() []module.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]module.Module, 0, len(s.modules))
	for _, m := range s.modules {
		if m.Enabled() {
			out = append(out, m)
		}
	}
	return out
}

// Get returns the module with the given id.
func (s *Store) Get(id string) (module.Module, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, _, ok := s.findLocked(id)
	return m, ok
}

// SetModuleEnabled toggles a module. For clock modules the settings map is
// kept in sync so enablement never drifts between the two.
func (s *Store) SetModuleEnabled(id string, enabled bool) {
	s.mu.Lock()
	m, _, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return
	}
	m.SetEnabled(enabled)
	if c, isClock := m.(*module.Clock); isClock {
		s.clockSettings[c.ID()] = c.Settings()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.notifyLayout()
}

// SetShowsValue toggles whether a module renders its text next to the icon.
func (s *Store) SetShowsValue(id string, shows bool) {
	s.mu.Lock()
	m, _, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return
	}
	m.SetShowsValue(shows)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.notifyLayout()
}

// MoveModule reorders a module to the given index. The next normalization
// pass may move the default clock back to the front.
func (s *Store) MoveModule(id string, index int) {
	s.mu.Lock()
	m, at, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.modules = append(s.modules[:at], s.modules[at+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(s.modules) {
		index = len(s.modules)
	}
	s.modules = append(s.modules[:index], append([]module.Module{m}, s.modules[index:]...)...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.notifyLayout()
}

// AddClockModule creates a generated clock copying the settings of the clock
// at afterID (the default clock when afterID is absent or not a clock),
// inserts it immediately after its source, and returns the new id. It is a
// no-op returning ok=false when the clock budget is exhausted.
func (s *Store) AddClockModule(afterID string) (string, bool) {
	s.mu.Lock()
	if s.clockCountLocked() >= maxClockModules {
		s.mu.Unlock()
		return "", false
	}

	srcIdx := -1
	if afterID != "" {
		if m, at, ok := s.findLocked(afterID); ok {
			if _, isClock := m.(*module.Clock); isClock {
				srcIdx = at
			}
		}
	}
	if srcIdx == -1 {
		_, at, ok := s.findLocked(DefaultClockID)
		if !ok {
			s.mu.Unlock()
			return "", false
		}
		srcIdx = at
	}

	settings := s.clockSettings[s.modules[srcIdx].ID()]
	id := s.nextGeneratedIDLocked()
	c := module.NewClock(id, settings)
	s.modules = append(s.modules[:srcIdx+1], append([]module.Module{c}, s.modules[srcIdx+1:]...)...)
	s.clockSettings[id] = c.Settings()
	s.normalizeLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.notifyLayout()
	return id, true
}

// RemoveClockModule deletes a generated clock and its settings entry. The
// default clock and non-clock ids are never removed.
func (s *Store) RemoveClockModule(id string) bool {
	if _, ok := parseGeneratedID(id); !ok {
		return false
	}
	s.mu.Lock()
	_, at, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.modules = append(s.modules[:at], s.modules[at+1:]...)
	delete(s.clockSettings, id)
	s.normalizeLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.notifyLayout()
	return true
}

// UpdateClockSettings applies mutate to a copy of the clock's settings,
// clamps the result, re-derives the enabled flag from the module, and
// persists. Returns false when id is not a clock module.
func (s *Store) UpdateClockSettings(id string, mutate func(*clock.Settings)) bool {
	s.mu.Lock()
	m, _, ok := s.findLocked(id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	c, isClock := m.(*module.Clock)
	if !isClock {
		s.mu.Unlock()
		return false
	}
	settings := s.clockSettings[id]
	mutate(&settings)
	settings = settings.Clamped()
	settings.Enabled = c.Enabled()
	s.clockSettings[id] = settings
	c.ApplySettings(settings)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	return true
}

// ClockSettings returns the settings for a clock module id.
func (s *Store) ClockSettings(id string) (clock.Settings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.clockSettings[id]
	return settings, ok
}

// MarkClocksDirty invalidates every clock engine's caches. Called when the
// system timezone or locale changes.
func (s *Store) MarkClocksDirty() {
	for _, m := range s.Modules() {
		if c, ok := m.(*module.Clock); ok {
			c.MarkDirty()
		}
	}
}

// Flush writes the current snapshot regardless of pending notifications.
// Called once during shutdown.
func (s *Store) Flush() error {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	return s.persister.Save(snap)
}

// Close flushes and releases the persister.
func (s *Store) Close() error {
	if err := s.Flush(); err != nil {
		log.Printf("State: final persist failed: %v", err)
	}
	return s.persister.Close()
}

func (s *Store) findLocked(id string) (module.Module, int, bool) {
	for i, m := range s.modules {
		if m.ID() == id {
			return m, i, true
		}
	}
	return nil, -1, false
}

func (s *Store) clockCountLocked() int {
	n := 0
	for _, m := range s.modules {
		if m.Kind() == module.KindClock {
			n++
		}
	}
	return n
}

// nextGeneratedIDLocked allocates the lowest unused clock.<n> id.
func (s *Store) nextGeneratedIDLocked() string {
	for n := 1; ; n++ {
		id := generatedIDPrefix + strconv.Itoa(n)
		if _, _, exists := s.findLocked(id); !exists {
			return id
		}
	}
}

// parseGeneratedID reports whether id matches clock.<positive integer>
// with no leading zero.
func parseGeneratedID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, generatedIDPrefix)
	if !ok || rest == "" || rest[0] == '0' {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (s *Store) persist(snap Snapshot) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(snap); err != nil {
		log.Printf("State: persist failed: %v", err)
	}
}

func (s *Store) notifyLayout() {
	if s.onLayoutChanged != nil {
		s.onLayoutChanged()
	}
}
