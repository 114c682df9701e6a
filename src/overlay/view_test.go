package overlay

import (
	"context"
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen-cropper/src/cropper"
	"screen-cropper/src/geometry"
	"screen-cropper/src/screenshot"
)

func newTestView(t *testing.T, size fyne.Size) (*cropView, *[]cropper.Outcome) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	snap, err := screenshot.NewSnapshot([]screenshot.DisplayInfo{{
		Name: "test", Width: 200, Height: 80, ScaleFactor: 1,
		Image: image.NewRGBA(image.Rect(0, 0, 200, 80)),
	}}, nil)
	require.NoError(t, err)

	var outcomes []cropper.Outcome
	v := newCropView(context.Background(), cropper.NewSession(snap, cropper.DefaultConfig()), func(o cropper.Outcome) {
		outcomes = append(outcomes, o)
	})
	v.Resize(size)
	return v, &outcomes
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestViewDrawsSelection(t *testing.T) {
	v, outcomes := newTestView(t, fyne.NewSize(200, 80))

	v.MouseDown(mouse(10, 10))
	v.Dragged(drag(50, 40))
	v.MouseUp(mouse(50, 40))
	v.DragEnd()

	assert.Equal(t, cropper.Cropped{}, v.session.State())
	assert.Equal(t, geometry.RectFrom(geometry.Pt(10, 10), geometry.Pt(50, 40)), v.session.Selection().Rect)
	assert.Empty(t, *outcomes)
}

func TestViewRescalesStretchedInput(t *testing.T) {
	v, _ := newTestView(t, fyne.NewSize(100, 40))

	v.MouseDown(mouse(5, 5))
	v.Dragged(drag(25, 20))
	v.DragEnd()

	assert.Equal(t, geometry.RectFrom(geometry.Pt(10, 10), geometry.Pt(50, 40)), v.session.Selection().Rect)
	pos, size := v.rectToCanvas(v.session.Selection().Rect)
	assert.Equal(t, fyne.NewPos(5, 5), pos)
	assert.Equal(t, fyne.NewSize(20, 15), size)
}

func TestViewIgnoresSecondaryButton(t *testing.T) {
	v, _ := newTestView(t, fyne.NewSize(200, 80))
	ev := mouse(10, 10)
	ev.Button = desktop.MouseButtonSecondary
	v.MouseDown(ev)
	assert.Equal(t, cropper.Idle{}, v.session.State())
}

func TestViewConfirmAndCancel(t *testing.T) {
	t.Run("double tap commits", func(t *testing.T) {
		v, outcomes := newTestView(t, fyne.NewSize(200, 80))
		v.MouseDown(mouse(10, 10))
		v.Dragged(drag(50, 40))
		v.DragEnd()
		v.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(30, 30)})
		assert.Equal(t, []cropper.Outcome{cropper.OutcomeCommitted}, *outcomes)

		// finished views ignore input
		v.KeyTyped(&fyne.KeyEvent{Name: fyne.KeyEscape})
		assert.Len(t, *outcomes, 1)
	})
	t.Run("enter without selection continues", func(t *testing.T) {
		v, outcomes := newTestView(t, fyne.NewSize(200, 80))
		v.KeyTyped(&fyne.KeyEvent{Name: fyne.KeyReturn})
		assert.Empty(t, *outcomes)
	})
	t.Run("escape cancels", func(t *testing.T) {
		v, outcomes := newTestView(t, fyne.NewSize(200, 80))
		v.KeyTyped(&fyne.KeyEvent{Name: fyne.KeyEscape})
		assert.Equal(t, []cropper.Outcome{cropper.OutcomeCancelled}, *outcomes)
	})
	t.Run("focus loss before focus is ignored", func(t *testing.T) {
		v, outcomes := newTestView(t, fyne.NewSize(200, 80))
		v.ExitedForeground()
		assert.Empty(t, *outcomes)
		v.EnteredForeground()
		v.ExitedForeground()
		assert.Equal(t, []cropper.Outcome{cropper.OutcomeCancelled}, *outcomes)
	})
}

func TestViewRendererFollowsFrame(t *testing.T) {
	v, _ := newTestView(t, fyne.NewSize(200, 80))
	r := test.WidgetRenderer(v).(*cropRenderer)

	require.Len(t, r.images, 1)
	assert.True(t, r.masks[0].Visible())
	assert.False(t, r.masks[1].Visible())
	assert.False(t, r.border.Visible())

	v.MouseDown(mouse(10, 10))
	v.Dragged(drag(50, 40))
	r.Refresh()

	for _, m := range r.masks {
		assert.True(t, m.Visible())
		assert.Equal(t, cropper.DefaultMaskColor, m.FillColor)
	}
	assert.True(t, r.border.Visible())
	assert.Equal(t, fyne.NewPos(10, 10), r.border.Position())
	assert.Equal(t, fyne.NewSize(40, 30), r.border.Size())
	for _, h := range r.handles {
		assert.True(t, h.Visible())
	}
	assert.Equal(t, canvas.ImageFillStretch, r.images[0].FillMode)
}

func TestCursorMapping(t *testing.T) {
	assert.Equal(t, desktop.CrosshairCursor, cursorFor(cropper.CursorCrosshair))
	assert.Equal(t, desktop.PointerCursor, cursorFor(cropper.CursorMove))
	assert.Equal(t, desktop.HResizeCursor, cursorFor(cropper.CursorResizeW))
	assert.Equal(t, desktop.VResizeCursor, cursorFor(cropper.CursorResizeS))
	assert.Equal(t, desktop.DefaultCursor, cursorFor(cropper.CursorDefault))
}
