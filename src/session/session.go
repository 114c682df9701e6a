// Package session runs one capture: snapshot, interactive selection, crop
// and delivery.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"

	"screen-cropper/src/cropper"
	"screen-cropper/src/output"
	"screen-cropper/src/overlay"
	"screen-cropper/src/screenshot"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

// Crop is a committed selection.
type Crop struct {
	// Region is in global desktop coordinates.
	Region screenshot.Region
	Image  *image.RGBA
	PNG    []byte
	Taken  time.Time
	// Path is set by targets that store the crop in a file.
	Path string
}

// ResultTarget receives the crop, or the reason there is none.
type ResultTarget interface {
	OnSuccess(ctx context.Context, crop *Crop) error
	OnFailure(ctx context.Context, err error) error
}

// Options configures one Execute call. Provider, Selector and Target are
// required.
type Options struct {
	Provider       screenshot.Provider
	Selector       overlay.Selector
	Config         cropper.Config
	IncludeWindows bool
	Target         ResultTarget
	// Now stamps the crop; time.Now when nil.
	Now func() time.Time
}

// Result holds the committed crop after delivery.
type Result struct {
	Crop Crop
}

// Execute captures every display, runs the interactive selection, crops the
// committed region and hands it to opts.Target. Failures, including
// ErrSelectionCancelled, are reported to the target's OnFailure as well.
func Execute(ctx context.Context, opts Options) (Result, error) {
	if opts.Provider == nil {
		return Result{}, errors.New("Provider is required")
	}
	if opts.Selector == nil {
		return Result{}, errors.New("Selector is required")
	}
	if opts.Target == nil {
		return Result{}, errors.New("Target is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	fail := func(err error) (Result, error) {
		if ferr := opts.Target.OnFailure(ctx, err); ferr != nil {
			logger.Warnf(ctx, "session: failure target: %v", ferr)
		}
		return Result{}, err
	}

	snap, err := opts.Provider.CaptureAll(ctx, opts.IncludeWindows)
	if err != nil {
		return fail(err)
	}
	logger.Debugf(ctx, "session: snapshot %v from %d displays", snap.Bound, len(snap.Displays))
	for _, w := range snap.Windows {
		logger.Tracef(ctx, "session: window %q (%s) at %v minimized=%t", w.Title, w.Name, w.Bounds(), w.Minimized)
	}
	if opts.Config.AutoBounding {
		logger.Infof(ctx, "session: auto bounding is not available yet; selecting manually")
	}

	sess := cropper.NewSession(snap, opts.Config)
	cancelled, err := opts.Selector.Select(ctx, sess)
	if err != nil {
		return fail(fmt.Errorf("selection failed: %w", err))
	}
	if cancelled {
		return fail(ErrSelectionCancelled)
	}
	region, ok := sess.GlobalSelection()
	if !ok {
		return fail(ErrSelectionCancelled)
	}
	logger.Debugf(ctx, "session: committed region %+v", region)

	img, err := snap.Crop(region)
	if err != nil {
		return fail(err)
	}
	data, err := output.EncodePNG(img)
	if err != nil {
		return fail(err)
	}

	crop := &Crop{Region: region, Image: img, PNG: data, Taken: now()}
	if err := opts.Target.OnSuccess(ctx, crop); err != nil {
		return fail(err)
	}
	return Result{Crop: *crop}, nil
}

// Exec runs a capture and returns the committed pixels. A cancelled
// selection yields nil and no error. Without a Target the crop is only
// returned.
func Exec(ctx context.Context, opts Options) (*image.RGBA, error) {
	if opts.Target == nil {
		opts.Target = Targets{}
	}
	res, err := Execute(ctx, opts)
	switch {
	case errors.Is(err, ErrSelectionCancelled):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return res.Crop.Image, nil
}
