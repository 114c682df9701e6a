package cropper

// CursorHint tells the UI runtime which pointer shape to show.
type CursorHint int

const (
	CursorDefault CursorHint = iota
	CursorCrosshair
	CursorMove
	CursorResizeN
	CursorResizeNE
	CursorResizeE
	CursorResizeSE
	CursorResizeS
	CursorResizeSW
	CursorResizeW
	CursorResizeNW
)

func (c CursorHint) String() string {
	switch c {
	case CursorCrosshair:
		return "crosshair"
	case CursorMove:
		return "move"
	case CursorResizeN:
		return "n-resize"
	case CursorResizeNE:
		return "ne-resize"
	case CursorResizeE:
		return "e-resize"
	case CursorResizeSE:
		return "se-resize"
	case CursorResizeS:
		return "s-resize"
	case CursorResizeSW:
		return "sw-resize"
	case CursorResizeW:
		return "w-resize"
	case CursorResizeNW:
		return "nw-resize"
	}
	return "default"
}
