package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"statbar/clock"
	"statbar/config"
	"statbar/engine"
	"statbar/layout"
	"statbar/module"
	"statbar/sampler"
	"statbar/store"
)

const defaultConfigPath = "data/config.yaml"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showConfig := flag.Bool("show-config", false, "Print the effective configuration and exit")
	listZones := flag.Bool("list-zones", false, "Print the curated timezone ids and exit")
	flag.Parse()

	if *listZones {
		for _, id := range clock.Catalog() {
			fmt.Println(id)
		}
		return
	}

	cfg := loadConfig(*configPath)
	if *showConfig {
		cfg.Print()
		return
	}

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	persister, err := store.OpenPersister(cfg.State.Path, cfg.State.LegacyPlist)
	if err != nil {
		log.Printf("State: running without persistence: %v", err)
		persister = nil
	}

	// The layout callback fires during store construction, before the
	// renderer exists; route it through an indirection.
	var render func()
	st := store.New(buildModules(cfg), store.Options{
		Persister: persister,
		OnLayoutChanged: func() {
			if render != nil {
				render()
			}
		},
	})

	sched := engine.New(st, func() {
		if render != nil {
			render()
		}
	})

	quit := make(chan struct{})
	go watchZoneChanges(quit, st)

	shutdown := func() {
		close(quit)
		sched.Stop()
		if err := st.Close(); err != nil {
			log.Printf("State: close failed: %v", err)
		}
	}

	switch resolveMode(cfg.UI.Mode) {
	case "bar":
		runBar(cfg, st, sched, &render, shutdown)
	default:
		runHeadless(cfg, st, sched, &render, shutdown)
	}
}

// loadConfig resolves the config path from the flag, the STATBAR_CONFIG_PATH
// environment variable, then the default location. A missing default file is
// not an error; an explicitly named file that fails to load is fatal.
func loadConfig(flagPath string) *config.Config {
	path := flagPath
	if path == "" {
		path = os.Getenv("STATBAR_CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// resolveMode maps "auto" onto "bar" when stdout is a terminal. A forced
// "bar" without a terminal degrades to headless.
func resolveMode(mode string) string {
	isTerm := term.IsTerminal(int(os.Stdout.Fd()))
	switch mode {
	case "headless":
		return "headless"
	case "bar":
		if !isTerm {
			log.Printf("UI: stdout is not a terminal, falling back to headless")
			return "headless"
		}
		return "bar"
	default:
		if isTerm {
			return "bar"
		}
		return "headless"
	}
}

// buildModules constructs the built-in module set over the host probes. The
// store synthesizes the default clock when the snapshot lacks one, but
// constructing it here keeps first-run ordering deterministic.
func buildModules(cfg *config.Config) []module.Module {
	return []module.Module{
		module.NewClock(store.DefaultClockID, clock.DefaultSettings()),
		module.NewCPU(sampler.NewCPUSampler(sampler.HostCPU, sampler.HostCPUCores)),
		module.NewMemory(sampler.NewMemSampler(sampler.HostMemory)),
		module.NewDisk(sampler.NewDiskSampler(sampler.HostDisk(cfg.Sampling.DiskPath), sampler.DiskFloorInterval)),
		module.NewNetwork(sampler.NewNetSampler(sampler.HostNet(cfg.Sampling.NetworkInterface))),
		module.NewUptime(sampler.NewUptimeSampler(sampler.HostUptime)),
	}
}

func runBar(cfg *config.Config, st *store.Store, sched *engine.Scheduler, render *func(), shutdown func()) {
	ui := newBarUI(cfg.UI.TargetFPS)
	ui.onQuit = func() {
		shutdown()
		ui.Stop()
	}

	*render = func() {
		width := ui.ScreenWidth()
		ui.SetBar(composeBar(st, width, cfg.Layout))
		ui.SetDetail(composeDetail(st, sched.Metrics()))
	}

	// Logs go to the system pane while the UI owns the terminal.
	if cfg.Logging.File == "" {
		log.SetFlags(log.Ltime)
		log.SetOutput(ui.SystemWriter())
	}

	go func() {
		<-ui.Ready()
		(*render)()
		sched.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		ui.requestQuit()
	}()

	if err := ui.Run(); err != nil {
		log.Fatalf("UI error: %v", err)
	}
}

func runHeadless(cfg *config.Config, st *store.Store, sched *engine.Scheduler, render *func(), shutdown func()) {
	var mu sync.Mutex
	lastLine := ""
	*render = func() {
		width := 100
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
		line := composeBar(st, width, cfg.Layout)
		mu.Lock()
		if line != lastLine {
			lastLine = line
			fmt.Println(line)
		}
		mu.Unlock()
	}

	(*render)()
	sched.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Printf("Shutting down")
	shutdown()
}

// composeBar fits the enabled modules into the width budget and joins the
// visible ones into the status line.
func composeBar(st *store.Store, screenWidth int, lcfg config.LayoutConfig) string {
	mods := st.EnabledModules()
	items := make([]layout.Item, 0, len(mods))
	for _, m := range mods {
		it := layout.Item{ID: m.ID(), Symbol: m.Symbol()}
		if m.ShowsValue() {
			it.Text = m.DisplayValue()
		}
		items = append(items, it)
	}

	budget := layout.Budget(screenWidth, lcfg.BudgetFraction, lcfg.MaxBudget)
	res := layout.Compute(items, budget, layout.Policy{IconOnlyFallback: lcfg.IconOnlyFallback})

	visible := make(map[string]bool, len(res.VisibleIDs))
	for _, id := range res.VisibleIDs {
		visible[id] = true
	}

	parts := make([]string, 0, len(res.VisibleIDs))
	for _, it := range items {
		if !visible[it.ID] {
			continue
		}
		seg := it.Symbol
		if !res.IconOnly && it.Text != "" {
			seg += " " + it.Text
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "  ")
}

// composeDetail expands every enabled module's hover text plus poll latency.
func composeDetail(st *store.Store, metrics *engine.TickTracker) string {
	var b strings.Builder
	for _, m := range st.EnabledModules() {
		fmt.Fprintf(&b, "%s %s\n", m.Symbol(), m.Title())
		if hover := m.HoverText(); hover != "" {
			b.WriteString(hover + "\n")
		}
		b.WriteString("\n")
	}
	if snap := metrics.Snapshot(); snap.N > 0 {
		fmt.Fprintf(&b, "poll p50=%s p99=%s over %d ticks",
			snap.P50.Round(time.Microsecond), snap.P99.Round(time.Microsecond), snap.Ticks)
	}
	return b.String()
}

// watchZoneChanges invalidates clock caches when the system timezone moves,
// so a zone change shows up without waiting for a settings edit.
func watchZoneChanges(quit <-chan struct{}, st *store.Store) {
	name, offset := time.Now().Zone()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			if n, o := time.Now().Zone(); n != name || o != offset {
				name, offset = n, o
				st.MarkClocksDirty()
			}
		}
	}
}
