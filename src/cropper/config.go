package cropper

import "image/color"

const (
	// DefaultHandleSize is the drawn size of a resize handle.
	DefaultHandleSize = 8
	// DefaultHandleTolerance is the grab zone half-width around the selection
	// sides, in overlay pixels. It matches the drawn handles, so a press
	// outside every handle square is outside the selection.
	DefaultHandleTolerance = DefaultHandleSize / 2
)

// DefaultMaskColor is a half transparent black.
var DefaultMaskColor = color.RGBA{R: 0, G: 0, B: 0, A: 128}

// Config controls how a selection session behaves and looks.
type Config struct {
	// AutoBounding is reserved for snapping to the window under the
	// cursor. It has no effect.
	AutoBounding bool
	// HighlightSelection paints the mask color over the selection itself
	// instead of dimming everything outside it.
	HighlightSelection bool
	// MaskColor is the RGBA color of the mask.
	MaskColor color.RGBA
	// HandleTolerance is the edge grab zone; zero demands exact hits.
	HandleTolerance float64
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		MaskColor:       DefaultMaskColor,
		HandleTolerance: DefaultHandleTolerance,
	}
}
