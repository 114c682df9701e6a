package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"

	"screen-cropper/src/clipboard"
	"screen-cropper/src/output"
)

// FileTarget saves the PNG into Dir.
type FileTarget struct {
	Dir string
}

func (t FileTarget) OnSuccess(ctx context.Context, crop *Crop) error {
	dir := t.Dir
	if dir == "" {
		dir = "."
	}
	path, err := output.Save(dir, crop.PNG, crop.Taken)
	if err != nil {
		return err
	}
	crop.Path = path
	logger.Infof(ctx, "saved %dx%d crop to %s", crop.Region.Width, crop.Region.Height, path)
	return nil
}

func (FileTarget) OnFailure(context.Context, error) error {
	return nil
}

// ClipboardTarget copies the PNG to the clipboard.
type ClipboardTarget struct{}

func (ClipboardTarget) OnSuccess(ctx context.Context, crop *Crop) error {
	if err := clipboard.WriteImage(crop.PNG); err != nil {
		return fmt.Errorf("clipboard error: %w", err)
	}
	logger.Debugf(ctx, "copied %d bytes of PNG to the clipboard", len(crop.PNG))
	return nil
}

func (ClipboardTarget) OnFailure(context.Context, error) error {
	return nil
}

// StdoutTarget writes the raw PNG bytes.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(_ context.Context, crop *Crop) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := w.Write(crop.PNG)
	return err
}

func (StdoutTarget) OnFailure(context.Context, error) error {
	return nil
}

// Targets delivers to every target in order. All of them run even when one
// fails; the failures are returned together.
type Targets []ResultTarget

func (ts Targets) OnSuccess(ctx context.Context, crop *Crop) error {
	var result *multierror.Error
	for _, t := range ts {
		if err := t.OnSuccess(ctx, crop); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (ts Targets) OnFailure(ctx context.Context, err error) error {
	var result *multierror.Error
	for _, t := range ts {
		if ferr := t.OnFailure(ctx, err); ferr != nil {
			result = multierror.Append(result, ferr)
		}
	}
	return result.ErrorOrNil()
}
