package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-cropper/src/cropper"
	"screen-cropper/src/geometry"
	"screen-cropper/src/output"
	"screen-cropper/src/screenshot"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

type fakeProvider struct {
	err     error
	windows bool
}

func (p *fakeProvider) CaptureAll(_ context.Context, includeWindows bool) (*screenshot.Snapshot, error) {
	p.windows = includeWindows
	if p.err != nil {
		return nil, p.err
	}
	return screenshot.NewSnapshot([]screenshot.DisplayInfo{
		{Name: "left", X: -100, Y: 0, Width: 100, Height: 80, ScaleFactor: 1, Image: solid(100, 80, red)},
		{Name: "right", X: 0, Y: 0, Width: 100, Height: 80, ScaleFactor: 1, Image: solid(100, 80, blue)},
	}, nil)
}

// scriptedSelector plays frames into the session the way the overlay would.
type scriptedSelector struct {
	frames []cropper.FrameInput
	err    error
}

func at(x, y float64) *geometry.Point {
	p := geometry.Pt(x, y)
	return &p
}

func (s scriptedSelector) Select(_ context.Context, sess *cropper.Session) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, in := range s.frames {
		out, err := sess.Update(in)
		if err != nil {
			return false, err
		}
		if out.Outcome != cropper.OutcomeContinue {
			return out.Outcome == cropper.OutcomeCancelled, nil
		}
	}
	return true, nil
}

var drawAndConfirm = scriptedSelector{frames: []cropper.FrameInput{
	{PointerPressedAt: at(90, 10)},
	{PointerDraggedAt: at(110, 30)},
	{PointerReleased: true},
	{ConfirmRequested: true},
}}

type recordingTarget struct {
	crops    []*Crop
	failures []error
	err      error
}

func (t *recordingTarget) OnSuccess(_ context.Context, crop *Crop) error {
	t.crops = append(t.crops, crop)
	return t.err
}

func (t *recordingTarget) OnFailure(_ context.Context, err error) error {
	t.failures = append(t.failures, err)
	return nil
}

func TestExecuteCommitsCrop(t *testing.T) {
	provider := &fakeProvider{}
	target := &recordingTarget{}
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	res, err := Execute(context.Background(), Options{
		Provider:       provider,
		Selector:       drawAndConfirm,
		Config:         cropper.DefaultConfig(),
		IncludeWindows: true,
		Target:         target,
		Now:            func() time.Time { return stamp },
	})
	require.NoError(t, err)
	assert.True(t, provider.windows)

	crop := res.Crop
	assert.Equal(t, screenshot.Region{X: -10, Y: 10, Width: 20, Height: 20}, crop.Region)
	assert.Equal(t, stamp, crop.Taken)
	assert.Equal(t, red, crop.Image.RGBAAt(0, 0))
	assert.Equal(t, blue, crop.Image.RGBAAt(19, 19))
	assert.True(t, output.IsPNG(crop.PNG))

	require.Len(t, target.crops, 1)
	assert.Empty(t, target.failures)
}

func TestExecuteFailures(t *testing.T) {
	captureErr := errors.New("boom")
	selectErr := errors.New("no window")
	deliverErr := errors.New("disk full")

	tests := []struct {
		name     string
		provider *fakeProvider
		selector scriptedSelector
		target   *recordingTarget
		want     error
	}{
		{"capture", &fakeProvider{err: captureErr}, drawAndConfirm, &recordingTarget{}, captureErr},
		{"selector", &fakeProvider{}, scriptedSelector{err: selectErr}, &recordingTarget{}, selectErr},
		{"escape", &fakeProvider{}, scriptedSelector{frames: []cropper.FrameInput{{CancelRequested: true}}}, &recordingTarget{}, ErrSelectionCancelled},
		{"focus lost", &fakeProvider{}, scriptedSelector{frames: []cropper.FrameInput{{PointerPressedAt: at(1, 1)}, {FocusLost: true}}}, &recordingTarget{}, ErrSelectionCancelled},
		{"delivery", &fakeProvider{}, drawAndConfirm, &recordingTarget{err: deliverErr}, deliverErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(context.Background(), Options{
				Provider: tt.provider,
				Selector: tt.selector,
				Config:   cropper.DefaultConfig(),
				Target:   tt.target,
			})
			require.ErrorIs(t, err, tt.want)
			require.Len(t, tt.target.failures, 1)
			assert.ErrorIs(t, tt.target.failures[0], tt.want)
		})
	}
}

func TestExecuteRequiresOptions(t *testing.T) {
	_, err := Execute(context.Background(), Options{})
	assert.Error(t, err)
	_, err = Execute(context.Background(), Options{Provider: &fakeProvider{}})
	assert.Error(t, err)
	_, err = Execute(context.Background(), Options{Provider: &fakeProvider{}, Selector: drawAndConfirm})
	assert.Error(t, err)
}

func TestFileAndStdoutTargets(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer
	data, err := output.EncodePNG(solid(2, 2, red))
	require.NoError(t, err)
	crop := &Crop{
		Region: screenshot.Region{Width: 2, Height: 2},
		PNG:    data,
		Taken:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	targets := Targets{FileTarget{Dir: dir}, StdoutTarget{Writer: &stdout}}
	require.NoError(t, targets.OnSuccess(context.Background(), crop))

	assert.Equal(t, filepath.Join(dir, "crop-20260102-030405.png"), crop.Path)
	saved, err := os.ReadFile(crop.Path)
	require.NoError(t, err)
	assert.Equal(t, data, saved)
	assert.Equal(t, data, stdout.Bytes())

	img, err := png.Decode(bytes.NewReader(stdout.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(2, 2), img.Bounds().Size())
}

func TestTargetsCollectEveryFailure(t *testing.T) {
	first := &recordingTarget{err: errors.New("first")}
	second := &recordingTarget{err: errors.New("second")}
	third := &recordingTarget{}

	err := Targets{first, second, third}.OnSuccess(context.Background(), &Crop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
	assert.Len(t, third.crops, 1)
}

func TestExec(t *testing.T) {
	ctx := context.Background()

	img, err := Exec(ctx, Options{Provider: &fakeProvider{}, Selector: drawAndConfirm, Config: cropper.DefaultConfig()})
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, image.Pt(20, 20), img.Bounds().Size())
	assert.Equal(t, red, img.RGBAAt(img.Bounds().Min.X, img.Bounds().Min.Y))

	cancel := scriptedSelector{frames: []cropper.FrameInput{{CancelRequested: true}}}
	img, err = Exec(ctx, Options{Provider: &fakeProvider{}, Selector: cancel, Config: cropper.DefaultConfig()})
	assert.NoError(t, err)
	assert.Nil(t, img)

	_, err = Exec(ctx, Options{Provider: &fakeProvider{err: screenshot.ErrEmptyDisplayList}, Selector: drawAndConfirm})
	assert.ErrorIs(t, err, screenshot.ErrCaptureFailed)
}
