package cropper

import (
	"image/color"

	"screen-cropper/src/geometry"
	"screen-cropper/src/screenshot"
)

// Outcome is how a session stands after a frame.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeCancelled
	OutcomeCommitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeCommitted:
		return "committed"
	}
	return "continue"
}

// FrameInput is what the UI runtime observed since the previous frame.
// Positions are in local (overlay) coordinates.
type FrameInput struct {
	PointerPressedAt *geometry.Point
	PointerDraggedAt *geometry.Point
	PointerReleased  bool
	// PointerHoverAt is the latest pointer position without a button held.
	PointerHoverAt   *geometry.Point
	CancelRequested  bool
	FocusLost        bool
	ConfirmRequested bool
}

// FrameOutput is everything the UI runtime needs to draw one frame.
type FrameOutput struct {
	Fragments []screenshot.Fragment
	Mask      []geometry.Rect
	MaskColor color.RGBA
	Selection Selection
	Handles   []geometry.Rect
	Cursor    CursorHint
	Outcome   Outcome
}

// Session binds a snapshot to a selection machine and turns per-frame input
// into drawing instructions. Like Machine it is single-threaded.
type Session struct {
	snap      *screenshot.Snapshot
	cfg       Config
	bounds    geometry.Size
	machine   *Machine
	fragments []screenshot.Fragment
	hover     *geometry.Point
	outcome   Outcome
}

// NewSession starts an Idle session over snap.
func NewSession(snap *screenshot.Snapshot, cfg Config) *Session {
	size := snap.Size()
	bounds := geometry.SizeOf(size.X, size.Y)
	return &Session{
		snap:      snap,
		cfg:       cfg,
		bounds:    bounds,
		machine:   NewMachine(Env{Bounds: bounds, Tolerance: cfg.HandleTolerance}),
		fragments: snap.Fragments(),
	}
}

func (s *Session) Snapshot() *screenshot.Snapshot { return s.snap }
func (s *Session) Config() Config                 { return s.cfg }
func (s *Session) Bounds() geometry.Size          { return s.bounds }
func (s *Session) State() State                   { return s.machine.State() }
func (s *Session) Selection() Selection           { return s.machine.Selection() }
func (s *Session) Outcome() Outcome               { return s.outcome }

// Update applies one frame of input. Pointer events run in the order
// pressed, dragged, released; the first invalid one stops the rest and is
// returned together with a frame drawn from the last good state. Once the
// session is cancelled or committed further input is ignored.
func (s *Session) Update(in FrameInput) (FrameOutput, error) {
	if s.outcome != OutcomeContinue {
		return s.frame(), nil
	}
	if in.CancelRequested || in.FocusLost {
		s.outcome = OutcomeCancelled
		return s.frame(), nil
	}

	var events []Event
	if in.PointerPressedAt != nil {
		events = append(events, Pressed(*in.PointerPressedAt))
		s.setHover(*in.PointerPressedAt)
	}
	if in.PointerDraggedAt != nil {
		events = append(events, Dragged(*in.PointerDraggedAt))
		s.setHover(*in.PointerDraggedAt)
	}
	if in.PointerReleased {
		events = append(events, Released())
	}
	if in.PointerHoverAt != nil {
		s.setHover(*in.PointerHoverAt)
	}
	for _, ev := range events {
		if err := s.machine.Handle(ev); err != nil {
			return s.frame(), err
		}
	}

	if in.ConfirmRequested {
		if sel := s.machine.Selection(); sel.Valid && !sel.Rect.Empty() {
			s.outcome = OutcomeCommitted
		}
	}
	return s.frame(), nil
}

func (s *Session) setHover(p geometry.Point) {
	s.hover = &p
}

func (s *Session) frame() FrameOutput {
	sel := s.machine.Selection()
	out := FrameOutput{
		Fragments: s.fragments,
		Mask:      Mask(s.cfg, s.bounds, sel),
		MaskColor: s.cfg.MaskColor,
		Selection: sel,
		Cursor:    s.cursor(),
		Outcome:   s.outcome,
	}
	if sel.Valid {
		handles := HandleRects(sel.Rect, DefaultHandleSize/2)
		out.Handles = handles[:]
	}
	return out
}

func (s *Session) cursor() CursorHint {
	switch st := s.machine.State().(type) {
	case Idle, Cropping:
		return CursorCrosshair
	case Moving:
		return CursorMove
	case Resizing:
		return st.Edge.Cursor()
	}
	sel := s.machine.Selection()
	if s.hover == nil || !sel.Valid {
		return CursorDefault
	}
	return Hit(*s.hover, sel.Rect, s.cfg.HandleTolerance).Cursor()
}

// GlobalSelection rounds the selection outwards to whole pixels and
// translates it to desktop coordinates. ok is false without a non-empty
// selection.
func (s *Session) GlobalSelection() (region screenshot.Region, ok bool) {
	sel := s.machine.Selection()
	if !sel.Valid || sel.Rect.Empty() {
		return screenshot.Region{}, false
	}
	return s.snap.ToGlobal(sel.Rect.Image()), true
}
