package store

import (
	"statbar/clock"
	"statbar/module"
)

// normalizeLocked restores the data-model invariants after load or after a
// structural mutation: unique ids, the default clock present and at position
// 0, the clock budget respected, and a one-to-one correspondence between
// clock modules and settings entries. It is idempotent and reports whether
// anything had to change, which callers use to decide on a re-persist.
func (s *Store) normalizeLocked() bool {
	changed := false

	// Duplicate ids: first occurrence wins.
	seen := make(map[string]bool, len(s.modules))
	deduped := make([]module.Module, 0, len(s.modules))
	for _, m := range s.modules {
		if seen[m.ID()] {
			changed = true
			continue
		}
		seen[m.ID()] = true
		deduped = append(deduped, m)
	}

	// Clock budget: the default clock never counts against removal; excess
	// generated clocks are dropped in order.
	generated := 0
	kept := deduped[:0]
	for _, m := range deduped {
		if m.Kind() == module.KindClock && m.ID() != DefaultClockID {
			if generated >= maxClockModules-1 {
				changed = true
				continue
			}
			generated++
		}
		kept = append(kept, m)
	}
	s.modules = kept

	// The default clock always exists.
	if _, _, ok := s.findLocked(DefaultClockID); !ok {
		settings, have := s.clockSettings[DefaultClockID]
		if !have {
			settings = clock.DefaultSettings()
		}
		s.modules = append([]module.Module{module.NewClock(DefaultClockID, settings)}, s.modules...)
		changed = true
	}

	// The default clock sits at position 0 after normalization.
	if _, at, _ := s.findLocked(DefaultClockID); at != 0 {
		c := s.modules[at]
		s.modules = append(s.modules[:at], s.modules[at+1:]...)
		s.modules = append([]module.Module{c}, s.modules...)
		changed = true
	}

	// Every clock module has exactly one settings entry, clamped, with the
	// enabled flag derived from the module.
	clockIDs := make(map[string]bool, maxClockModules)
	for _, m := range s.modules {
		c, ok := m.(*module.Clock)
		if !ok {
			continue
		}
		clockIDs[c.ID()] = true
		settings, have := s.clockSettings[c.ID()]
		if !have {
			settings = clock.DefaultSettings()
			changed = true
		}
		clamped := settings.Clamped()
		clamped.Enabled = c.Enabled()
		if have && !clamped.Equal(settings) {
			changed = true
		}
		s.clockSettings[c.ID()] = clamped
		c.ApplySettings(clamped)
	}

	// No settings entry without a matching clock module.
	for id := range s.clockSettings {
		if !clockIDs[id] {
			delete(s.clockSettings, id)
			changed = true
		}
	}

	return changed
}

// snapshotLocked flattens the current state into its persisted form.
func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		ModuleOrder:             make([]string, 0, len(s.modules)),
		ModuleEnabled:           make(map[string]bool, len(s.modules)),
		ModuleShowsValue:        make(map[string]bool, len(s.modules)),
		ClockSettingsByModuleID: make(map[string]clock.Settings, len(s.clockSettings)),
		CPUConfigByModuleID:     make(map[string]module.CPUConfig),
		MemoryConfigByModuleID:  make(map[string]module.MemoryConfig),
		DiskConfigByModuleID:    make(map[string]module.DiskConfig),
		NetworkConfigByModuleID: make(map[string]module.NetworkConfig),
	}
	for _, m := range s.modules {
		id := m.ID()
		snap.ModuleOrder = append(snap.ModuleOrder, id)
		snap.ModuleEnabled[id] = m.Enabled()
		snap.ModuleShowsValue[id] = m.ShowsValue()
		switch k := m.(type) {
		case *module.CPU:
			snap.CPUConfigByModuleID[id] = k.Config()
		case *module.Memory:
			snap.MemoryConfigByModuleID[id] = k.Config()
		case *module.Disk:
			snap.DiskConfigByModuleID[id] = k.Config()
		case *module.Network:
			snap.NetworkConfigByModuleID[id] = k.Config()
		}
	}
	for id, settings := range s.clockSettings {
		snap.ClockSettingsByModuleID[id] = settings
	}
	return snap
}

// applySnapshotLocked overlays a decoded snapshot onto the built-in modules:
// known ids are reordered and reconfigured, persisted generated-clock ids are
// recreated, and unknown ids are ignored. The caller normalizes afterwards.
func (s *Store) applySnapshotLocked(snap Snapshot) {
	existing := make(map[string]module.Module, len(s.modules))
	for _, m := range s.modules {
		existing[m.ID()] = m
	}

	ordered := make([]module.Module, 0, len(s.modules))
	placed := make(map[string]bool, len(s.modules))
	for _, id := range snap.ModuleOrder {
		if placed[id] {
			continue
		}
		m, ok := existing[id]
		if !ok {
			if _, isGenerated := parseGeneratedID(id); !isGenerated {
				continue
			}
			settings, have := snap.ClockSettingsByModuleID[id]
			if !have {
				settings = clock.DefaultSettings()
			}
			m = module.NewClock(id, settings)
		}
		ordered = append(ordered, m)
		placed[id] = true
	}
	// Built-ins absent from the persisted order keep their default position
	// at the end.
	for _, m := range s.modules {
		if !placed[m.ID()] {
			ordered = append(ordered, m)
			placed[m.ID()] = true
		}
	}
	s.modules = ordered

	for id, settings := range snap.ClockSettingsByModuleID {
		if _, _, ok := s.findLocked(id); ok {
			s.clockSettings[id] = settings
		}
	}

	for _, m := range s.modules {
		id := m.ID()
		if enabled, ok := snap.ModuleEnabled[id]; ok {
			m.SetEnabled(enabled)
		}
		if shows, ok := snap.ModuleShowsValue[id]; ok {
			m.SetShowsValue(shows)
		}
		switch k := m.(type) {
		case *module.CPU:
			if cfg, ok := snap.CPUConfigByModuleID[id]; ok {
				k.SetConfig(cfg)
			}
		case *module.Memory:
			if cfg, ok := snap.MemoryConfigByModuleID[id]; ok {
				k.SetConfig(cfg)
			}
		case *module.Disk:
			if cfg, ok := snap.DiskConfigByModuleID[id]; ok {
				k.SetConfig(cfg)
			}
		case *module.Network:
			if cfg, ok := snap.NetworkConfigByModuleID[id]; ok {
				k.SetConfig(cfg)
			}
		}
	}
}
