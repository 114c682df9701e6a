package overlay

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/facebookincubator/go-belt/tool/logger"

	"screen-cropper/src/cropper"
	"screen-cropper/src/geometry"
)

var (
	borderColor       = color.RGBA{R: 0x3d, G: 0x9b, B: 0xff, A: 0xff}
	handleFillColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	handleStrokeColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// cropView feeds fyne input into a cropper.Session and draws the frames it
// returns. The snapshot is stretched over the widget, so positions are
// rescaled per axis between widget units and overlay pixels.
type cropView struct {
	widget.BaseWidget

	ctx     context.Context
	session *cropper.Session
	frame   cropper.FrameOutput
	onDone  func(cropper.Outcome)

	pressed bool
	focused bool
	done    bool
}

var (
	_ fyne.Widget         = (*cropView)(nil)
	_ fyne.Draggable      = (*cropView)(nil)
	_ fyne.DoubleTappable = (*cropView)(nil)
	_ desktop.Mouseable   = (*cropView)(nil)
	_ desktop.Hoverable   = (*cropView)(nil)
	_ desktop.Cursorable  = (*cropView)(nil)
)

func newCropView(ctx context.Context, s *cropper.Session, onDone func(cropper.Outcome)) *cropView {
	v := &cropView{ctx: ctx, session: s, onDone: onDone}
	v.frame, _ = s.Update(cropper.FrameInput{})
	v.ExtendBaseWidget(v)
	return v
}

func (v *cropView) scale() (sx, sy float64) {
	size := v.Size()
	b := v.session.Bounds()
	sx, sy = 1, 1
	if size.Width > 0 {
		sx = b.W / float64(size.Width)
	}
	if size.Height > 0 {
		sy = b.H / float64(size.Height)
	}
	return sx, sy
}

func (v *cropView) toLocal(pos fyne.Position) geometry.Point {
	sx, sy := v.scale()
	return geometry.Pt(float64(pos.X)*sx, float64(pos.Y)*sy)
}

func (v *cropView) toCanvas(p geometry.Point) fyne.Position {
	sx, sy := v.scale()
	return fyne.NewPos(float32(p.X/sx), float32(p.Y/sy))
}

func (v *cropView) rectToCanvas(r geometry.Rect) (fyne.Position, fyne.Size) {
	sx, sy := v.scale()
	return v.toCanvas(r.Min), fyne.NewSize(float32(r.Dx()/sx), float32(r.Dy()/sy))
}

func (v *cropView) apply(in cropper.FrameInput) {
	if v.done {
		return
	}
	frame, err := v.session.Update(in)
	if err != nil {
		logger.Warnf(v.ctx, "overlay: dropped input: %v", err)
	}
	v.frame = frame
	v.Refresh()
	if frame.Outcome != cropper.OutcomeContinue {
		v.done = true
		logger.Debugf(v.ctx, "overlay: session %v", frame.Outcome)
		if v.onDone != nil {
			v.onDone(frame.Outcome)
		}
	}
}

func (v *cropView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary || v.pressed {
		return
	}
	v.pressed = true
	p := v.toLocal(ev.Position)
	v.apply(cropper.FrameInput{PointerPressedAt: &p})
}

func (v *cropView) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.release()
}

func (v *cropView) Dragged(ev *fyne.DragEvent) {
	if !v.pressed {
		return
	}
	p := v.toLocal(ev.Position)
	v.apply(cropper.FrameInput{PointerDraggedAt: &p})
}

// DragEnd and MouseUp both arrive for one release; only the first counts.
func (v *cropView) DragEnd() {
	v.release()
}

func (v *cropView) release() {
	if !v.pressed {
		return
	}
	v.pressed = false
	v.apply(cropper.FrameInput{PointerReleased: true})
}

func (v *cropView) MouseIn(ev *desktop.MouseEvent) {
	v.MouseMoved(ev)
}

func (v *cropView) MouseMoved(ev *desktop.MouseEvent) {
	p := v.toLocal(ev.Position)
	v.apply(cropper.FrameInput{PointerHoverAt: &p})
}

func (v *cropView) MouseOut() {}

func (v *cropView) DoubleTapped(*fyne.PointEvent) {
	v.Confirm()
}

func (v *cropView) Confirm() {
	v.apply(cropper.FrameInput{ConfirmRequested: true})
}

func (v *cropView) Cancel() {
	v.apply(cropper.FrameInput{CancelRequested: true})
}

// EnteredForeground arms focus-loss cancellation. Window managers may report a
// focus loss before the overlay was ever focused; that one is ignored.
func (v *cropView) EnteredForeground() {
	v.focused = true
}

func (v *cropView) ExitedForeground() {
	if !v.focused {
		return
	}
	v.apply(cropper.FrameInput{FocusLost: true})
}

// KeyTyped handles the overlay shortcuts.
func (v *cropView) KeyTyped(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		v.Cancel()
	case fyne.KeyReturn, fyne.KeyEnter:
		v.Confirm()
	}
}

func (v *cropView) Cursor() desktop.Cursor {
	return cursorFor(v.frame.Cursor)
}

// fyne has no diagonal resize or move cursors.
func cursorFor(c cropper.CursorHint) desktop.Cursor {
	switch c {
	case cropper.CursorCrosshair, cropper.CursorResizeNE, cropper.CursorResizeSE,
		cropper.CursorResizeSW, cropper.CursorResizeNW:
		return desktop.CrosshairCursor
	case cropper.CursorMove:
		return desktop.PointerCursor
	case cropper.CursorResizeN, cropper.CursorResizeS:
		return desktop.VResizeCursor
	case cropper.CursorResizeE, cropper.CursorResizeW:
		return desktop.HResizeCursor
	}
	return desktop.DefaultCursor
}

func (v *cropView) CreateRenderer() fyne.WidgetRenderer {
	r := &cropRenderer{view: v}
	for _, f := range v.frame.Fragments {
		img := canvas.NewImageFromImage(f.Image)
		img.FillMode = canvas.ImageFillStretch
		img.ScaleMode = canvas.ImageScaleFastest
		r.images = append(r.images, img)
		r.objects = append(r.objects, img)
	}
	for i := range r.masks {
		r.masks[i] = canvas.NewRectangle(color.Transparent)
		r.objects = append(r.objects, r.masks[i])
	}
	r.border = canvas.NewRectangle(color.Transparent)
	r.border.StrokeColor = borderColor
	r.border.StrokeWidth = 1
	r.objects = append(r.objects, r.border)
	for i := range r.handles {
		h := canvas.NewRectangle(handleFillColor)
		h.StrokeColor = handleStrokeColor
		h.StrokeWidth = 1
		r.handles[i] = h
		r.objects = append(r.objects, h)
	}
	r.update()
	return r
}

type cropRenderer struct {
	view    *cropView
	images  []*canvas.Image
	masks   [4]*canvas.Rectangle
	border  *canvas.Rectangle
	handles [8]*canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *cropRenderer) Layout(fyne.Size) {
	r.update()
}

func (r *cropRenderer) MinSize() fyne.Size {
	return fyne.NewSize(1, 1)
}

func (r *cropRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *cropRenderer) Destroy() {}

func (r *cropRenderer) Refresh() {
	r.update()
	for _, o := range r.objects {
		canvas.Refresh(o)
	}
}

func (r *cropRenderer) update() {
	v, frame := r.view, r.view.frame

	for i, f := range frame.Fragments {
		if i >= len(r.images) {
			break
		}
		pos, size := v.rectToCanvas(geometry.RectFrom(
			geometry.Pt(float64(f.Pos.X), float64(f.Pos.Y)),
			geometry.Pt(float64(f.Pos.X+f.Size.X), float64(f.Pos.Y+f.Size.Y)),
		))
		r.images[i].Move(pos)
		r.images[i].Resize(size)
	}

	for i, m := range r.masks {
		if i >= len(frame.Mask) {
			m.Hide()
			continue
		}
		pos, size := v.rectToCanvas(frame.Mask[i])
		m.FillColor = frame.MaskColor
		m.Move(pos)
		m.Resize(size)
		m.Show()
	}

	if !frame.Selection.Valid {
		r.border.Hide()
	} else {
		pos, size := v.rectToCanvas(frame.Selection.Rect)
		r.border.Move(pos)
		r.border.Resize(size)
		r.border.Show()
	}

	for i, h := range r.handles {
		if i >= len(frame.Handles) {
			h.Hide()
			continue
		}
		// handles keep their pixel size whatever the stretch
		c := v.toCanvas(frame.Handles[i].Center())
		half := float32(frame.Handles[i].Dx() / 2)
		h.Move(fyne.NewPos(c.X-half, c.Y-half))
		h.Resize(fyne.NewSize(2*half, 2*half))
		h.Show()
	}
}
