package main

import (
	"sync"
	"time"

	"github.com/rivo/tview"
)

// frameScheduler coalesces UI updates and caps draw rate. Change
// notifications arrive per scheduler tick; only the latest pending update
// per view survives until the next frame.
type frameScheduler struct {
	app          *tview.Application
	pending      map[string]func()
	mu           sync.Mutex
	quit         chan struct{}
	done         chan struct{}
	frameTime    time.Duration
	drainTimeout time.Duration
}

func newFrameScheduler(app *tview.Application, targetFPS int) *frameScheduler {
	if targetFPS <= 0 {
		targetFPS = 30
	}
	return &frameScheduler{
		app:          app,
		pending:      make(map[string]func()),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		frameTime:    time.Second / time.Duration(targetFPS),
		drainTimeout: 100 * time.Millisecond,
	}
}

func (f *frameScheduler) Start() {
	go f.run()
}

func (f *frameScheduler) Stop() {
	close(f.quit)
	select {
	case <-f.done:
	case <-time.After(f.drainTimeout):
	}
}

// Schedule queues fn to run on the UI thread at the next frame, replacing
// any update already pending for the same id.
func (f *frameScheduler) Schedule(id string, fn func()) {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.pending[id] = fn
	f.mu.Unlock()
}

func (f *frameScheduler) run() {
	defer close(f.done)

	ticker := time.NewTicker(f.frameTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.flush()
		case <-f.quit:
			f.flush()
			return
		}
	}
}

func (f *frameScheduler) flush() {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		return
	}
	batch := make([]func(), 0, len(f.pending))
	for _, fn := range f.pending {
		batch = append(batch, fn)
	}
	for key := range f.pending {
		delete(f.pending, key)
	}
	f.mu.Unlock()

	f.app.QueueUpdateDraw(func() {
		for _, fn := range batch {
			fn()
		}
	})
}
