package store

import (
	"testing"
	"time"

	"statbar/clock"
	"statbar/module"
	"statbar/sampler"
)

func builtinModules() []module.Module {
	cpuS := sampler.NewCPUSampler(func() (sampler.CPUTicks, error) {
		return sampler.CPUTicks{User: 1, Idle: 9}, nil
	}, nil)
	memS := sampler.NewMemSampler(func() (sampler.MemCounters, error) {
		return sampler.MemCounters{Used: 1, Total: 2}, nil
	})
	diskS := sampler.NewDiskSampler(func() (sampler.DiskCounters, error) {
		return sampler.DiskCounters{Total: 10, Free: 5}, nil
	}, time.Second)
	netS := sampler.NewNetSampler(func() (sampler.NetCounters, error) {
		return sampler.NetCounters{Interface: "en0"}, nil
	})
	upS := sampler.NewUptimeSampler(func() (time.Duration, error) {
		return time.Hour, nil
	})
	return []module.Module{
		module.NewCPU(cpuS),
		module.NewMemory(memS),
		module.NewDisk(diskS),
		module.NewNetwork(netS),
		module.NewUptime(upS),
	}
}

func checkInvariants(t *testing.T, s *Store) {
	t.Helper()
	mods := s.Modules()
	seen := make(map[string]bool)
	clocks := 0
	for _, m := range mods {
		if seen[m.ID()] {
			t.Fatalf("duplicate module id %q", m.ID())
		}
		seen[m.ID()] = true
		if m.Kind() == module.KindClock {
			clocks++
			if _, ok := s.ClockSettings(m.ID()); !ok {
				t.Fatalf("clock %q has no settings entry", m.ID())
			}
		}
	}
	if !seen[DefaultClockID] {
		t.Fatal("default clock missing")
	}
	if clocks < 1 || clocks > maxClockModules {
		t.Fatalf("clock count %d outside [1,%d]", clocks, maxClockModules)
	}
}

func TestDefaultClockSynthesizedAtFront(t *testing.T) {
	s := New(builtinModules(), Options{})
	mods := s.Modules()
	if mods[0].ID() != DefaultClockID {
		t.Fatalf("first module = %q, want default clock", mods[0].ID())
	}
	checkInvariants(t, s)
}

func TestAddClockModuleSequence(t *testing.T) {
	s := New(builtinModules(), Options{})

	id1, ok := s.AddClockModule(DefaultClockID)
	if !ok || id1 != "clock.1" {
		t.Fatalf("first add = %q, %v; want clock.1", id1, ok)
	}
	id2, ok := s.AddClockModule(DefaultClockID)
	if !ok || id2 != "clock.2" {
		t.Fatalf("second add = %q, %v; want clock.2", id2, ok)
	}
	// Each generated clock lands immediately after its source.
	mods := s.Modules()
	if mods[0].ID() != DefaultClockID || mods[1].ID() != "clock.2" || mods[2].ID() != "clock.1" {
		got := []string{mods[0].ID(), mods[1].ID(), mods[2].ID()}
		t.Fatalf("order = %v, want [clock clock.2 clock.1]", got)
	}

	if id, ok := s.AddClockModule(DefaultClockID); ok {
		t.Fatalf("third add must be a no-op at the budget, got %q", id)
	}
	checkInvariants(t, s)
}

func TestAddClockCopiesSourceSettings(t *testing.T) {
	s := New(builtinModules(), Options{})
	s.UpdateClockSettings(DefaultClockID, func(cs *clock.Settings) {
		cs.Mode = clock.ModeUTC
		cs.ShowSeconds = true
	})
	id, ok := s.AddClockModule(DefaultClockID)
	if !ok {
		t.Fatal("add failed")
	}
	settings, ok := s.ClockSettings(id)
	if !ok || settings.Mode != clock.ModeUTC || !settings.ShowSeconds {
		t.Fatalf("generated clock settings = %+v, want copy of source", settings)
	}
}

func TestRemoveClockModule(t *testing.T) {
	s := New(builtinModules(), Options{})
	id, _ := s.AddClockModule("")

	if s.RemoveClockModule(DefaultClockID) {
		t.Fatal("default clock must never be removable")
	}
	if s.RemoveClockModule("cpu") {
		t.Fatal("non-clock ids must never be removable")
	}
	if !s.RemoveClockModule(id) {
		t.Fatalf("failed to remove generated clock %q", id)
	}
	if _, ok := s.ClockSettings(id); ok {
		t.Fatal("removed clock left an orphan settings entry")
	}
	if s.RemoveClockModule(id) {
		t.Fatal("double remove must report false")
	}
	checkInvariants(t, s)
}

func TestClockChurnPreservesInvariants(t *testing.T) {
	s := New(builtinModules(), Options{})
	var generated []string
	for i := 0; i < 10; i++ {
		if id, ok := s.AddClockModule(DefaultClockID); ok {
			generated = append(generated, id)
		}
		checkInvariants(t, s)
		if len(generated) > 1 && i%3 == 0 {
			s.RemoveClockModule(generated[0])
			generated = generated[1:]
			checkInvariants(t, s)
		}
	}
}

func TestLowestUnusedGeneratedID(t *testing.T) {
	s := New(builtinModules(), Options{})
	id1, _ := s.AddClockModule("")
	s.AddClockModule("")
	s.RemoveClockModule(id1)
	id, ok := s.AddClockModule("")
	if !ok || id != "clock.1" {
		t.Fatalf("reallocated id = %q, want the lowest unused clock.1", id)
	}
}

func TestUpdateClockSettingsDerivesEnabled(t *testing.T) {
	s := New(builtinModules(), Options{})
	s.SetModuleEnabled(DefaultClockID, false)

	// The mutator lies about enablement; the module flag wins.
	s.UpdateClockSettings(DefaultClockID, func(cs *clock.Settings) {
		cs.Enabled = true
		cs.Mode = clock.ModeWorld
		cs.Zones = []string{"Asia/Tokyo", "Europe/London", "America/New_York", "Asia/Seoul", "Pacific/Auckland"}
	})
	settings, _ := s.ClockSettings(DefaultClockID)
	if settings.Enabled {
		t.Fatal("settings enablement must derive from the module flag")
	}
	if len(settings.Zones) != clock.MaxWorldZones {
		t.Fatalf("zones = %d, want clamped to %d", len(settings.Zones), clock.MaxWorldZones)
	}
}

func TestSetModuleEnabledSyncsClockSettings(t *testing.T) {
	s := New(builtinModules(), Options{})
	s.SetModuleEnabled(DefaultClockID, false)
	settings, _ := s.ClockSettings(DefaultClockID)
	if settings.Enabled {
		t.Fatal("disabling the module must disable its settings")
	}
	s.SetModuleEnabled(DefaultClockID, true)
	settings, _ = s.ClockSettings(DefaultClockID)
	if !settings.Enabled {
		t.Fatal("enabling the module must enable its settings")
	}
}

func TestMoveModuleRenormalizedLater(t *testing.T) {
	s := New(builtinModules(), Options{})
	s.MoveModule(DefaultClockID, 3)
	// Live reorder is accepted as-is...
	if s.Modules()[0].ID() == DefaultClockID {
		t.Fatal("move should displace the default clock until renormalization")
	}
	// ...until the next structural mutation renormalizes.
	s.AddClockModule("")
	if s.Modules()[0].ID() != DefaultClockID {
		t.Fatal("structural mutation must renormalize the default clock to front")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := New(builtinModules(), Options{})
	s.AddClockModule("")
	s.mu.Lock()
	changed := s.normalizeLocked()
	s.mu.Unlock()
	if changed {
		t.Fatal("normalizing an already-normalized store must change nothing")
	}
}

func TestLayoutChangeNotifications(t *testing.T) {
	notified := 0
	s := New(builtinModules(), Options{OnLayoutChanged: func() { notified++ }})
	s.SetModuleEnabled("cpu", false)
	s.AddClockModule("")
	s.SetShowsValue("memory", false)
	if notified != 3 {
		t.Fatalf("layout notifications = %d, want 3", notified)
	}
}
