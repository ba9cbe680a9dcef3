package store

import (
	"os"
	"path/filepath"
	"testing"

	"statbar/clock"
	"statbar/module"
)

func tempPersister(t *testing.T) *Persister {
	t.Helper()
	p, err := OpenPersister(filepath.Join(t.TempDir(), "state.db"), "")
	if err != nil {
		t.Fatalf("open persister: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPersistRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.db")

	p, err := OpenPersister(path, "")
	if err != nil {
		t.Fatalf("open persister: %v", err)
	}
	s := New(builtinModules(), Options{Persister: p})
	s.AddClockModule(DefaultClockID)
	s.UpdateClockSettings("clock.1", func(cs *clock.Settings) {
		cs.Mode = clock.ModeWorld
		cs.Zones = []string{"Asia/Tokyo", "Europe/London"}
	})
	s.SetModuleEnabled("uptime", true)
	s.mu.Lock()
	want := s.snapshotLocked()
	s.mu.Unlock()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	p2, err := OpenPersister(path, "")
	if err != nil {
		t.Fatalf("reopen persister: %v", err)
	}
	s2 := New(builtinModules(), Options{Persister: p2})
	defer s2.Close()
	s2.mu.Lock()
	got := s2.snapshotLocked()
	changed := s2.normalizeLocked()
	s2.mu.Unlock()

	if changed {
		t.Fatal("reloaded normalized state must be a fixed point")
	}
	wantJSON, _ := encodeSnapshot(want)
	gotJSON, _ := encodeSnapshot(got)
	if string(wantJSON) != string(gotJSON) {
		t.Fatalf("round trip mismatch:\nwant %s\ngot  %s", wantJSON, gotJSON)
	}

	mods := s2.Modules()
	if mods[0].ID() != DefaultClockID {
		t.Fatalf("reloaded order starts with %q, want default clock", mods[0].ID())
	}
	if m, ok := s2.Get("uptime"); !ok || !m.Enabled() {
		t.Fatal("uptime enablement lost in round trip")
	}
	settings, _ := s2.ClockSettings("clock.1")
	if settings.Mode != clock.ModeWorld || len(settings.Zones) != 2 {
		t.Fatalf("clock.1 settings lost in round trip: %+v", settings)
	}
}

func TestPersistedOrderMissingClock(t *testing.T) {
	// Persisted order ["cpu","memory"] with no clock settings: after load
	// the order starts with the default clock and exactly one clock exists.
	p := tempPersister(t)
	if err := p.Save(Snapshot{ModuleOrder: []string{"cpu", "memory"}}); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	s := New(builtinModules(), Options{Persister: p})
	mods := s.Modules()
	if mods[0].ID() != DefaultClockID {
		t.Fatalf("order starts with %q, want default clock", mods[0].ID())
	}
	if mods[1].ID() != "cpu" || mods[2].ID() != "memory" {
		t.Fatalf("persisted order not honored: %q %q", mods[1].ID(), mods[2].ID())
	}
	clocks := 0
	for _, m := range mods {
		if m.Kind() == module.KindClock {
			clocks++
		}
	}
	if clocks != 1 {
		t.Fatalf("clock count = %d, want 1", clocks)
	}
	checkInvariants(t, s)
}

func TestNormalizeRepairsCorruptSnapshot(t *testing.T) {
	p := tempPersister(t)
	seed := Snapshot{
		ModuleOrder: []string{"cpu", "cpu", "clock.7", "clock.2", "clock.3", "clock.9", "mystery"},
		ClockSettingsByModuleID: map[string]clock.Settings{
			"clock.2":  {Enabled: true, Mode: clock.ModeCustom, Zones: []string{"america/new_york", "Asia/Tokyo"}},
			"orphan.1": {Enabled: true},
		},
	}
	if err := p.Save(seed); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	s := New(builtinModules(), Options{Persister: p})
	checkInvariants(t, s)
	if _, ok := s.ClockSettings("orphan.1"); ok {
		t.Fatal("orphan settings entry survived normalization")
	}
	if _, ok := s.Get("mystery"); ok {
		t.Fatal("unknown id survived normalization")
	}
	// Excess generated clocks beyond the budget are dropped in order.
	if _, ok := s.Get("clock.9"); ok {
		t.Fatal("generated clock beyond budget survived")
	}
	settings, ok := s.ClockSettings("clock.2")
	if !ok {
		t.Fatal("persisted generated clock not recreated")
	}
	if len(settings.Zones) != 1 || settings.Zones[0] != "America/New_York" {
		t.Fatalf("custom zones not clamped/repaired: %v", settings.Zones)
	}
}

func TestUndecodableBlobFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.db")
	p, err := OpenPersister(path, "")
	if err != nil {
		t.Fatalf("open persister: %v", err)
	}
	if _, err := p.db.Exec(
		`INSERT INTO snapshots (key, payload, digest, updated_at) VALUES (?, ?, ?, 0)`,
		snapshotKey, []byte("{not json"), "0"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	s := New(builtinModules(), Options{Persister: p})
	defer s.Close()
	checkInvariants(t, s)
	if s.Modules()[0].ID() != DefaultClockID {
		t.Fatal("corrupt blob must fall back to built-in defaults")
	}
}

func TestSaveSkipsUnchangedPayload(t *testing.T) {
	p := tempPersister(t)
	snap := Snapshot{ModuleOrder: []string{"clock", "cpu"}}
	if err := p.Save(snap); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// Plant a sentinel; an identical save must skip the write and leave it.
	if _, err := p.db.Exec(`UPDATE snapshots SET digest = 'sentinel'`); err != nil {
		t.Fatalf("plant sentinel: %v", err)
	}
	if err := p.Save(snap); err != nil {
		t.Fatalf("second save: %v", err)
	}
	var digest string
	if err := p.db.QueryRow(`SELECT digest FROM snapshots WHERE key = ?`, snapshotKey).Scan(&digest); err != nil {
		t.Fatalf("read digest: %v", err)
	}
	if digest != "sentinel" {
		t.Fatal("unchanged payload was rewritten")
	}

	snap.ModuleOrder = append(snap.ModuleOrder, "memory")
	if err := p.Save(snap); err != nil {
		t.Fatalf("third save: %v", err)
	}
	p.db.QueryRow(`SELECT digest FROM snapshots WHERE key = ?`, snapshotKey).Scan(&digest)
	if digest == "sentinel" {
		t.Fatal("changed payload was not rewritten")
	}
}

func TestLegacyPlistImport(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "defaults.plist")
	const plistXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>moduleOrder</key>
	<array>
		<string>clock</string>
		<string>network</string>
		<string>cpu</string>
	</array>
	<key>moduleEnabled</key>
	<dict>
		<key>network</key><false/>
	</dict>
	<key>clockSettingsByModuleID</key>
	<dict>
		<key>clock</key>
		<dict>
			<key>isEnabled</key><true/>
			<key>use24Hour</key><true/>
			<key>timezoneMode</key><string>utc</string>
			<key>showTimezoneLabel</key><true/>
		</dict>
	</dict>
</dict>
</plist>`
	if err := os.WriteFile(legacy, []byte(plistXML), 0o644); err != nil {
		t.Fatalf("write legacy plist: %v", err)
	}

	p, err := OpenPersister(filepath.Join(dir, "state.db"), legacy)
	if err != nil {
		t.Fatalf("open persister: %v", err)
	}
	s := New(builtinModules(), Options{Persister: p})
	defer s.Close()

	if m, ok := s.Get("network"); !ok || m.Enabled() {
		t.Fatal("legacy enablement not imported")
	}
	settings, _ := s.ClockSettings(DefaultClockID)
	if settings.Mode != clock.ModeUTC || !settings.ShowZoneLabel {
		t.Fatalf("legacy clock settings not imported: %+v", settings)
	}
	mods := s.Modules()
	if mods[1].ID() != "network" || mods[2].ID() != "cpu" {
		t.Fatalf("legacy order not imported: %q %q", mods[1].ID(), mods[2].ID())
	}
}
