package main

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// barUI renders three panes: the status bar line itself, a detail pane with
// the hover text of every enabled module, and a system log pane that captures
// log output while the terminal is taken over.
type barUI struct {
	app        *tview.Application
	barView    *tview.TextView
	detailView *tview.TextView
	systemView *tview.TextView
	frames     *frameScheduler

	// onQuit runs once when the user requests exit from inside the UI.
	onQuit func()

	width   atomic.Int64
	closed  atomic.Bool
	quitted atomic.Bool
	ready   chan struct{}
}

func newBarUI(targetFPS int) *barUI {
	u := &barUI{
		app:   tview.NewApplication(),
		ready: make(chan struct{}),
	}
	u.frames = newFrameScheduler(u.app, targetFPS)

	u.barView = tview.NewTextView().SetWrap(false)
	u.barView.SetBorder(true).SetTitle(" statbar ")

	u.detailView = tview.NewTextView().SetWrap(true)
	u.detailView.SetBorder(true).SetTitle(" Modules ")

	u.systemView = tview.NewTextView().SetWrap(true).SetMaxLines(200)
	u.systemView.SetBorder(true).SetTitle(" System ")
	u.systemView.SetChangedFunc(func() {
		if !u.closed.Load() {
			u.app.Draw()
		}
	})

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.barView, 3, 0, false).
		AddItem(u.detailView, 0, 1, false).
		AddItem(u.systemView, 8, 0, false)

	u.app.SetRoot(root, true)

	var once atomic.Bool
	u.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		w, _ := screen.Size()
		u.width.Store(int64(w))
		if once.CompareAndSwap(false, true) {
			close(u.ready)
		}
		return false
	})

	u.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyCtrlC,
			event.Rune() == 'q':
			u.requestQuit()
			return nil
		}
		return event
	})

	return u
}

// Run takes over the terminal until Stop is called. The frame scheduler is
// started here so nothing queues draws before the screen exists.
func (u *barUI) Run() error {
	u.frames.Start()
	return u.app.Run()
}

// Ready is closed after the first draw; the screen width is valid from then on.
func (u *barUI) Ready() <-chan struct{} {
	return u.ready
}

func (u *barUI) Stop() {
	if !u.closed.CompareAndSwap(false, true) {
		return
	}
	u.frames.Stop()
	u.app.Stop()
}

func (u *barUI) requestQuit() {
	if !u.quitted.CompareAndSwap(false, true) {
		return
	}
	if u.onQuit != nil {
		// Shutdown blocks on the scheduler; keep the event loop responsive.
		go u.onQuit()
	}
}

// ScreenWidth returns the terminal width in cells as of the last draw.
func (u *barUI) ScreenWidth() int {
	w := int(u.width.Load())
	if w <= 0 {
		w = 80
	}
	return w
}

// SetBar replaces the status line on the next frame.
func (u *barUI) SetBar(line string) {
	if u.closed.Load() {
		return
	}
	u.frames.Schedule("bar", func() {
		u.barView.SetText(line)
	})
}

// SetDetail replaces the module detail pane on the next frame.
func (u *barUI) SetDetail(text string) {
	if u.closed.Load() {
		return
	}
	u.frames.Schedule("detail", func() {
		u.detailView.SetText(text)
	})
}

// SystemWriter returns a writer that appends to the system log pane. Safe to
// hand to log.SetOutput while the UI owns the terminal.
func (u *barUI) SystemWriter() io.Writer {
	return &systemWriter{ui: u}
}

type systemWriter struct {
	ui *barUI
}

func (w *systemWriter) Write(p []byte) (int, error) {
	if w.ui.closed.Load() {
		return len(p), nil
	}
	fmt.Fprint(tview.ANSIWriter(w.ui.systemView), string(p))
	return len(p), nil
}
