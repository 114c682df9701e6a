package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/kbinani/screenshot"
	"golang.org/x/sync/errgroup"
)

// Provider captures every display, and the window list when asked to.
type Provider interface {
	CaptureAll(ctx context.Context, includeWindows bool) (*Snapshot, error)
}

// DisplayProvider captures displays through github.com/kbinani/screenshot.
type DisplayProvider struct {
	// Windows lists application windows. Nil disables window metadata.
	Windows WindowLister
	// Parallelism bounds concurrent display reads. Zero means one goroutine
	// per display.
	Parallelism int

	numDisplays   func() int
	displayBounds func(int) image.Rectangle
	captureRect   func(image.Rectangle) (*image.RGBA, error)
}

var _ Provider = (*DisplayProvider)(nil)

// NewProvider returns the platform capture provider.
func NewProvider() *DisplayProvider {
	return &DisplayProvider{
		Windows:       NewWindowLister(),
		numDisplays:   screenshot.NumActiveDisplays,
		displayBounds: screenshot.GetDisplayBounds,
		captureRect:   screenshot.CaptureRect,
	}
}

// CaptureAll reads every active display. The first failing display cancels
// the others and the whole capture fails.
func (p *DisplayProvider) CaptureAll(ctx context.Context, includeWindows bool) (*Snapshot, error) {
	n := p.numDisplays()
	logger.Debugf(ctx, "capturing %d active displays", n)
	if n <= 0 {
		return nil, ErrEmptyDisplayList
	}

	displays := make([]DisplayInfo, n)
	g, gctx := errgroup.WithContext(ctx)
	if p.Parallelism > 0 {
		g.SetLimit(p.Parallelism)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := p.displayBounds(i)
			img, err := p.captureRect(b)
			if err != nil {
				return fmt.Errorf("display %d at %v: %w", i, b, err)
			}
			displays[i] = DisplayInfo{
				Name:        fmt.Sprintf("Display %d", i+1),
				Primary:     b.Min == image.Point{},
				X:           b.Min.X,
				Y:           b.Min.Y,
				Width:       b.Dx(),
				Height:      b.Dy(),
				ScaleFactor: 1,
				Image:       img,
			}
			logger.Debugf(ctx, "captured %s: position=(%d,%d) size=%dx%d", displays[i].Name, b.Min.X, b.Min.Y, b.Dx(), b.Dy())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	var windows []WindowInfo
	if includeWindows {
		var err error
		windows, err = p.listWindows(ctx)
		if err != nil {
			return nil, err
		}
	}

	snap, err := NewSnapshot(displays, windows)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "snapshot bound=%v displays=%d windows=%d", snap.Bound, len(snap.Displays), len(snap.Windows))
	return snap, nil
}

func (p *DisplayProvider) listWindows(ctx context.Context) ([]WindowInfo, error) {
	if p.Windows == nil {
		return nil, nil
	}
	windows, err := p.Windows.ListWindows(ctx)
	switch {
	case errors.Is(err, ErrWindowsUnsupported):
		logger.Warnf(ctx, "window metadata requested but %v", err)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: list windows: %w", ErrCaptureFailed, err)
	}
	return windows, nil
}
