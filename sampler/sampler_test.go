package sampler

import (
	"testing"
	"time"
)

func TestMemSamplerCachesTotalAndClamps(t *testing.T) {
	totals := []uint64{16 << 30, 0, 32 << 30}
	call := 0
	s := NewMemSampler(func() (MemCounters, error) {
		c := MemCounters{Used: 8 << 30, Total: totals[call]}
		call++
		return c, nil
	})
	r, ok, err := s.Sample()
	if err != nil || !ok {
		t.Fatalf("sample failed: ok=%v err=%v", ok, err)
	}
	if r.Percent != 50 {
		t.Fatalf("percent = %v, want 50", r.Percent)
	}
	// Total cached from the first read even when later reads report garbage.
	r, _, _ = s.Sample()
	if r.Total != 16<<30 {
		t.Fatalf("total = %d, want cached first read", r.Total)
	}
	r, _, _ = s.Sample()
	if r.Total != 16<<30 {
		t.Fatalf("total changed across reads: %d", r.Total)
	}
}

func TestMemSamplerUsedOverTotalClamped(t *testing.T) {
	s := NewMemSampler(func() (MemCounters, error) {
		return MemCounters{Used: 20 << 30, Total: 16 << 30}, nil
	})
	r, ok, _ := s.Sample()
	if !ok || r.Percent != 100 {
		t.Fatalf("over-total read: ok=%v percent=%v, want clamped 100", ok, r.Percent)
	}
}

func TestDiskSamplerFloorInterval(t *testing.T) {
	polls := 0
	s := NewDiskSampler(func() (DiskCounters, error) {
		polls++
		return DiskCounters{Total: 1000, Free: 400}, nil
	}, 5*time.Second)
	t0 := time.Unix(1000, 0)
	if _, ok, _ := s.Sample(t0); !ok {
		t.Fatal("first disk sample should succeed")
	}
	s.Sample(t0.Add(time.Second))
	s.Sample(t0.Add(4 * time.Second))
	if polls != 1 {
		t.Fatalf("polled %d times inside floor interval, want 1", polls)
	}
	r, ok, _ := s.Sample(t0.Add(6 * time.Second))
	if !ok || polls != 2 {
		t.Fatalf("after floor: ok=%v polls=%d", ok, polls)
	}
	if r.Used != 600 || r.Percent != 60 {
		t.Fatalf("reading = %+v, want used=600 percent=60", r)
	}
}

func TestHistoryDropsOldest(t *testing.T) {
	h := NewHistory()
	for i := 0; i < HistoryCap+10; i++ {
		h.Push(float64(i))
	}
	vals := h.Values()
	if len(vals) != HistoryCap {
		t.Fatalf("history length = %d, want %d", len(vals), HistoryCap)
	}
	if vals[0] != 10 || vals[len(vals)-1] != float64(HistoryCap+9) {
		t.Fatalf("history window = [%v..%v], want [10..%d]", vals[0], vals[len(vals)-1], HistoryCap+9)
	}
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(2048, UnitKB); got != "2.0 KB/s" {
		t.Fatalf("fixed KB rate = %q", got)
	}
	if got := FormatRate(1500000, UnitMB); got != "1.5 MB/s" {
		t.Fatalf("fixed MB rate = %q", got)
	}
	if got := FormatRate(-5, UnitKB); got != "0.0 KB/s" {
		t.Fatalf("negative rate = %q", got)
	}
}

func TestFormatUptime(t *testing.T) {
	if got := FormatUptime(76*time.Hour + 30*time.Minute); got != "up 3d 4h" {
		t.Fatalf("uptime = %q, want %q", got, "up 3d 4h")
	}
	if got := FormatUptime(90 * time.Minute); got != "up 1h 30m" {
		t.Fatalf("uptime = %q, want %q", got, "up 1h 30m")
	}
	if got := FormatUptime(5 * time.Minute); got != "up 5m" {
		t.Fatalf("uptime = %q, want %q", got, "up 5m")
	}
}

func TestSparklineScalesToMax(t *testing.T) {
	line := Sparkline([]float64{0, 50, 100})
	runes := []rune(line)
	if len(runes) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(runes))
	}
	if runes[0] != '▁' || runes[2] != '█' {
		t.Fatalf("sparkline = %q, want min/max at ends", line)
	}
	if Sparkline(nil) != "" {
		t.Fatal("empty history must render empty sparkline")
	}
}
