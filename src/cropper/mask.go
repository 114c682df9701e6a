package cropper

import "screen-cropper/src/geometry"

// MaskRects splits the outer box [0,0]..(outer.W,outer.H) minus sel into
// four rectangles arranged like a pinwheel around sel. Neighbours share only
// boundary lines and, together with sel, they tile the outer box exactly,
// also for degenerate selections.
func MaskRects(outer geometry.Size, sel geometry.Rect) [4]geometry.Rect {
	sel = sel.Canon()
	tl := geometry.Pt(0, 0)
	tr := geometry.Pt(outer.W, 0)
	br := geometry.Pt(outer.W, outer.H)
	bl := geometry.Pt(0, outer.H)
	return [4]geometry.Rect{
		geometry.RectFrom(tl, sel.RightTop()),
		geometry.RectFrom(tr, sel.RightBottom()),
		geometry.RectFrom(br, sel.LeftBottom()),
		geometry.RectFrom(bl, sel.LeftTop()),
	}
}

// Mask returns the rectangles to paint with the mask color. When dimming the
// outside, no selection means everything is dimmed; when highlighting, no
// selection means nothing is painted. Empty pieces are dropped.
func Mask(cfg Config, outer geometry.Size, sel Selection) []geometry.Rect {
	if cfg.HighlightSelection {
		if !sel.Valid || sel.Rect.Empty() {
			return nil
		}
		return []geometry.Rect{sel.Rect}
	}
	if !sel.Valid {
		return []geometry.Rect{outer.Rect()}
	}
	var out []geometry.Rect
	for _, r := range MaskRects(outer, sel.Rect) {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	return out
}
