package overlay

import (
	"context"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/facebookincubator/go-belt/tool/logger"

	"screen-cropper/src/cropper"
)

const (
	AppID       = "io.github.screen-cropper"
	windowTitle = "Screen Cropper"
)

// FyneSelector runs the overlay in a borderless full-screen fyne window.
// fyne runs its event loop once per process, so a FyneSelector serves a
// single Select call.
type FyneSelector struct {
	mu     sync.Mutex
	used   bool
	newApp func() fyne.App
}

var _ Selector = (*FyneSelector)(nil)

func NewSelector() *FyneSelector {
	return &FyneSelector{newApp: func() fyne.App { return app.NewWithID(AppID) }}
}

func (s *FyneSelector) Select(ctx context.Context, sess *cropper.Session) (bool, error) {
	s.mu.Lock()
	if s.used {
		s.mu.Unlock()
		return false, ErrSelectorUsed
	}
	s.used = true
	s.mu.Unlock()

	a := s.newApp()
	w := newOverlayWindow(a)

	// Closing the window any other way counts as a cancel.
	outcome := cropper.OutcomeCancelled
	view := newCropView(ctx, sess, func(o cropper.Outcome) {
		outcome = o
		w.Close()
	})
	w.SetContent(view)
	w.Canvas().SetOnTypedKey(view.KeyTyped)
	w.SetOnClosed(a.Quit)

	lc := a.Lifecycle()
	lc.SetOnEnteredForeground(view.EnteredForeground)
	lc.SetOnExitedForeground(view.ExitedForeground)

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(view.Cancel)
		case <-stop:
		}
	}()

	size := sess.Bounds()
	logger.Debugf(ctx, "overlay: showing %gx%g snapshot", size.W, size.H)
	w.Show()
	a.Run()
	close(stop)

	if outcome == cropper.OutcomeCommitted {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return true, err
	}
	return true, nil
}

func newOverlayWindow(a fyne.App) fyne.Window {
	var w fyne.Window
	if drv, ok := a.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
	} else {
		w = a.NewWindow(windowTitle)
	}
	w.SetTitle(windowTitle)
	w.SetPadded(false)
	w.SetFullScreen(true)
	return w
}
