// Package tray shows the resident's notification area icon.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

type Config struct {
	Title  string
	Hotkey string
	// OnCapture runs on a menu click; it must not block.
	OnCapture func()
	// OnExit runs after the tray has been torn down.
	OnExit func()
}

type Tray struct {
	cfg      Config
	mu       sync.Mutex
	ready    bool
	busy     bool
	quitOnce sync.Once
}

func New(cfg Config) *Tray {
	if cfg.Title == "" {
		cfg.Title = "Screen Cropper"
	}
	return &Tray{cfg: cfg}
}

// Run blocks until Quit. On macOS it must be called from the main
// goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) Quit() {
	t.quitOnce.Do(systray.Quit)
}

// SetBusy switches the tooltip while a capture is running.
func (t *Tray) SetBusy(busy bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.busy = busy
	if t.ready {
		systray.SetTooltip(t.tooltip())
	}
}

func (t *Tray) tooltip() string {
	if t.busy {
		return t.cfg.Title + " - capturing..."
	}
	if t.cfg.Hotkey == "" {
		return t.cfg.Title
	}
	return fmt.Sprintf("%s - Press %s to capture", t.cfg.Title, t.cfg.Hotkey)
}

func (t *Tray) onReady() {
	systray.SetIcon(platformIcon())
	systray.SetTitle(t.cfg.Title)

	t.mu.Lock()
	t.ready = true
	systray.SetTooltip(t.tooltip())
	t.mu.Unlock()

	mCapture := systray.AddMenuItem("Capture", "Select a screen region")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				if t.cfg.OnCapture != nil {
					t.cfg.OnCapture()
				}
			case <-mQuit.ClickedCh:
				t.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	if t.cfg.OnExit != nil {
		t.cfg.OnExit()
	}
}
