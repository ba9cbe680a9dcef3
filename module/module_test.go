package module

import (
	"errors"
	"testing"
	"time"

	"statbar/clock"
	"statbar/sampler"
)

func TestCPUModuleWarmUpShowsPlaceholder(t *testing.T) {
	s := sampler.NewCPUSampler(func() (sampler.CPUTicks, error) {
		return sampler.CPUTicks{User: 100, Idle: 900}, nil
	}, nil)
	m := NewCPU(s)
	if m.DisplayValue() != Placeholder {
		t.Fatalf("initial display = %q, want placeholder", m.DisplayValue())
	}
	m.Update(time.Now())
	if m.DisplayValue() != Placeholder {
		t.Fatalf("warm-up display = %q, want placeholder", m.DisplayValue())
	}
	if m.HoverText() == "" {
		t.Fatal("warm-up must carry descriptive hover text")
	}
}

func TestCPUModuleReportsChangeOnlyWhenDisplayMoves(t *testing.T) {
	ticks := []sampler.CPUTicks{
		{User: 100, Idle: 900},
		{User: 130, Idle: 970}, // used 30%
		{User: 160, Idle: 1040}, // used 30% again
	}
	i := 0
	s := sampler.NewCPUSampler(func() (sampler.CPUTicks, error) {
		tk := ticks[i]
		i++
		return tk, nil
	}, nil)
	m := NewCPU(s)
	now := time.Now()
	m.Update(now)
	if !m.Update(now.Add(time.Second)) {
		t.Fatal("first real value must report a change")
	}
	if m.DisplayValue() != "30%" {
		t.Fatalf("display = %q, want 30%%", m.DisplayValue())
	}
	if m.Update(now.Add(2 * time.Second)) {
		t.Fatal("identical display value must not report a change")
	}
}

func TestModuleProbeFailureDegrades(t *testing.T) {
	s := sampler.NewMemSampler(func() (sampler.MemCounters, error) {
		return sampler.MemCounters{}, errors.New("sysctl failed")
	})
	m := NewMemory(s)
	m.Update(time.Now())
	if m.DisplayValue() != Placeholder {
		t.Fatalf("failed probe display = %q, want placeholder", m.DisplayValue())
	}
	if m.HoverText() != "Memory: sysctl failed" {
		t.Fatalf("hover = %q", m.HoverText())
	}
}

func TestClockModuleSkipsUnchangedBucket(t *testing.T) {
	s := clock.DefaultSettings()
	s.Mode = clock.ModeUTC
	m := NewClock("clock", s)
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if !m.Update(now) {
		t.Fatal("first update must change the display")
	}
	if m.Update(now.Add(10 * time.Second)) {
		t.Fatal("same minute bucket must not report a change")
	}
	if !m.Update(now.Add(time.Minute)) {
		t.Fatal("minute rollover must report a change")
	}
}

func TestClockModuleEnablementSyncsSettings(t *testing.T) {
	m := NewClock("clock", clock.DefaultSettings())
	m.SetEnabled(false)
	if m.Settings().Enabled {
		t.Fatal("settings must track module enablement")
	}
	s := m.Settings()
	s.Enabled = true
	m.ApplySettings(s)
	if !m.Enabled() {
		t.Fatal("module must track settings enablement")
	}
}

func TestClockModuleCadenceFollowsSeconds(t *testing.T) {
	m := NewClock("clock", clock.DefaultSettings())
	if m.Cadence() != CadenceFast {
		t.Fatal("minute clock should be fast cadence")
	}
	s := m.Settings()
	s.ShowSeconds = true
	m.ApplySettings(s)
	if m.Cadence() != CadenceRealtime {
		t.Fatal("seconds clock should be realtime cadence")
	}
}
