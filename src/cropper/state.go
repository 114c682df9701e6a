package cropper

import (
	"errors"
	"fmt"

	"screen-cropper/src/geometry"
)

// Mode names the variant of a State.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCropping
	ModeCropped
	ModeIgnored
	ModeMoving
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCropping:
		return "cropping"
	case ModeCropped:
		return "cropped"
	case ModeIgnored:
		return "ignored"
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// State is one of Idle, Cropping, Cropped, Ignored, Moving or Resizing.
// States are values and are replaced on every transition.
type State interface {
	Mode() Mode
}

// Idle: nothing selected yet.
type Idle struct{}

// Cropping: a new rectangle is being drawn from Start.
type Cropping struct {
	Start geometry.Point
}

// Cropped: a selection exists and no gesture is active.
type Cropped struct{}

// Ignored: the pointer went down outside the selection; the gesture is
// swallowed until release.
type Ignored struct{}

// Moving: the selection Origin is dragged from Start.
type Moving struct {
	Origin geometry.Rect
	Start  geometry.Point
}

// Resizing: the Edge of the selection Origin is dragged from Start.
type Resizing struct {
	Origin geometry.Rect
	Start  geometry.Point
	Edge   EdgeCode
}

func (Idle) Mode() Mode     { return ModeIdle }
func (Cropping) Mode() Mode { return ModeCropping }
func (Cropped) Mode() Mode  { return ModeCropped }
func (Ignored) Mode() Mode  { return ModeIgnored }
func (Moving) Mode() Mode   { return ModeMoving }
func (Resizing) Mode() Mode { return ModeResizing }

// EventKind is the kind of pointer event.
type EventKind int

const (
	PointerPressed EventKind = iota
	PointerDragged
	PointerReleased
)

func (k EventKind) String() string {
	switch k {
	case PointerPressed:
		return "pointer-pressed"
	case PointerDragged:
		return "pointer-dragged"
	case PointerReleased:
		return "pointer-released"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a pointer event in local coordinates. Pos is unused for releases.
type Event struct {
	Kind EventKind
	Pos  geometry.Point
}

func Pressed(p geometry.Point) Event { return Event{Kind: PointerPressed, Pos: p} }
func Dragged(p geometry.Point) Event { return Event{Kind: PointerDragged, Pos: p} }
func Released() Event                { return Event{Kind: PointerReleased} }

// ErrInvalidEventForState matches every *InvalidEventError.
var ErrInvalidEventForState = errors.New("invalid event for state")

// InvalidEventError reports an event the current state does not accept. It
// means the UI runtime delivered a malformed sequence.
type InvalidEventError struct {
	Mode  Mode
	Event EventKind
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("%v: %v in %v", ErrInvalidEventForState, e.Event, e.Mode)
}

func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEventForState
}

// Selection is the crop rectangle in local coordinates. It is absent until
// the first drag of a new rectangle.
type Selection struct {
	Rect  geometry.Rect
	Valid bool
}

// Env holds the fixed parameters of a selection session.
type Env struct {
	// Bounds is the overlay size; every pointer position is clamped to it.
	Bounds geometry.Size
	// Tolerance is the half-width of the edge grab zone. Zero means exact
	// boundary equality.
	Tolerance float64
}

// Transition computes the next state and selection for ev. On error the
// returned state and selection are the inputs, unchanged.
//
// Releasing in Cropping without any drag goes back to Idle rather than to
// Cropped, so a plain click never leaves an empty selection behind.
func Transition(env Env, s State, sel Selection, ev Event) (State, Selection, error) {
	invalid := func() (State, Selection, error) {
		return s, sel, &InvalidEventError{Mode: modeOf(s), Event: ev.Kind}
	}
	p := env.Bounds.Clamp(ev.Pos)

	switch st := s.(type) {
	case Idle:
		if ev.Kind == PointerPressed {
			return Cropping{Start: p}, Selection{}, nil
		}

	case Cropping:
		switch ev.Kind {
		case PointerDragged:
			return st, Selection{Rect: geometry.RectFrom(st.Start, p), Valid: true}, nil
		case PointerReleased:
			if !sel.Valid {
				// A click without a drag selects nothing.
				return Idle{}, sel, nil
			}
			return Cropped{}, sel, nil
		}

	case Cropped:
		if ev.Kind == PointerPressed && sel.Valid {
			rel := Hit(ev.Pos, sel.Rect, env.Tolerance)
			switch rel.Kind {
			case Inside:
				return Moving{Origin: sel.Rect, Start: p}, sel, nil
			case OnEdge:
				return Resizing{Origin: sel.Rect, Start: p, Edge: rel.Edge}, sel, nil
			default:
				return Ignored{}, sel, nil
			}
		}

	case Moving:
		switch ev.Kind {
		case PointerDragged:
			r := st.Origin.Translate(p.Sub(st.Start)).ShiftWithin(env.Bounds)
			return st, Selection{Rect: r, Valid: true}, nil
		case PointerReleased:
			return Cropped{}, sel, nil
		}

	case Resizing:
		switch ev.Kind {
		case PointerDragged:
			r := ApplyResize(st.Origin, p.Sub(st.Start), st.Edge).ClampTo(env.Bounds)
			return st, Selection{Rect: r, Valid: true}, nil
		case PointerReleased:
			return Cropped{}, sel, nil
		}

	case Ignored:
		switch ev.Kind {
		case PointerDragged:
			return st, sel, nil
		case PointerReleased:
			return Cropped{}, sel, nil
		}
	}
	return invalid()
}

func modeOf(s State) Mode {
	if s == nil {
		return ModeIdle
	}
	return s.Mode()
}
