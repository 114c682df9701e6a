package cropper

import (
	"fmt"
	"math"

	"screen-cropper/src/geometry"
)

// EdgeCode identifies the edge or corner of a rectangle a point lies on.
// Codes compose additively from one horizontal and one vertical hit using a
// fixed table: Bottom is 6, so Bottom+Right is 8 and Bottom+Left is 10.
type EdgeCode int

const (
	EdgeNone        EdgeCode = 0
	EdgeTop         EdgeCode = 1
	EdgeRight       EdgeCode = 2
	EdgeTopRight    EdgeCode = EdgeTop + EdgeRight
	EdgeLeft        EdgeCode = 4
	EdgeTopLeft     EdgeCode = EdgeTop + EdgeLeft
	EdgeBottom      EdgeCode = 6
	EdgeBottomRight EdgeCode = EdgeBottom + EdgeRight
	EdgeBottomLeft  EdgeCode = EdgeBottom + EdgeLeft
)

// Valid reports whether c is one of the eight edge codes.
func (c EdgeCode) Valid() bool {
	switch c {
	case EdgeTop, EdgeRight, EdgeTopRight, EdgeLeft, EdgeTopLeft, EdgeBottom, EdgeBottomRight, EdgeBottomLeft:
		return true
	}
	return false
}

func (c EdgeCode) String() string {
	switch c {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeTopRight:
		return "top-right"
	case EdgeLeft:
		return "left"
	case EdgeTopLeft:
		return "top-left"
	case EdgeBottom:
		return "bottom"
	case EdgeBottomRight:
		return "bottom-right"
	case EdgeBottomLeft:
		return "bottom-left"
	}
	return fmt.Sprintf("edge(%d)", int(c))
}

// Cursor maps the edge to its resize cursor.
func (c EdgeCode) Cursor() CursorHint {
	switch c {
	case EdgeTop:
		return CursorResizeN
	case EdgeRight:
		return CursorResizeE
	case EdgeTopRight:
		return CursorResizeNE
	case EdgeLeft:
		return CursorResizeW
	case EdgeTopLeft:
		return CursorResizeNW
	case EdgeBottom:
		return CursorResizeS
	case EdgeBottomRight:
		return CursorResizeSE
	case EdgeBottomLeft:
		return CursorResizeSW
	}
	return CursorDefault
}

// RelationKind is the coarse position of a point relative to a rectangle.
type RelationKind int

const (
	Outside RelationKind = iota
	Inside
	OnEdge
)

// Relation is the result of classifying a point against a rectangle. Edge is
// only meaningful when Kind is OnEdge.
type Relation struct {
	Kind RelationKind
	Edge EdgeCode
}

func (r Relation) String() string {
	switch r.Kind {
	case Inside:
		return "inside"
	case OnEdge:
		return "edge " + r.Edge.String()
	}
	return "outside"
}

// Cursor maps the relation to the hint shown while hovering.
func (r Relation) Cursor() CursorHint {
	switch r.Kind {
	case Inside:
		return CursorMove
	case OnEdge:
		return r.Edge.Cursor()
	}
	return CursorDefault
}

// Classify tests p against the boundary lines of r using exact equality. A
// boundary hit wins over containment, even when p lies on the extension of
// a side. On a degenerate rectangle left is preferred over right and top
// over bottom, so the result is always one of the eight codes.
func Classify(p geometry.Point, r geometry.Rect) Relation {
	r = r.Canon()
	var code EdgeCode
	switch p.X {
	case r.Min.X:
		code += EdgeLeft
	case r.Max.X:
		code += EdgeRight
	}
	switch p.Y {
	case r.Min.Y:
		code += EdgeTop
	case r.Max.Y:
		code += EdgeBottom
	}
	if code != EdgeNone {
		return Relation{Kind: OnEdge, Edge: code}
	}
	if p.X > r.Min.X && p.X < r.Max.X && p.Y > r.Min.Y && p.Y < r.Max.Y {
		return Relation{Kind: Inside}
	}
	return Relation{Kind: Outside}
}

// Hit is Classify with a grab zone: a point within tolerance of a side, and
// within the rectangle grown by tolerance, is on that side. The nearer side
// wins when the zones overlap. A non-positive tolerance falls back to
// Classify.
func Hit(p geometry.Point, r geometry.Rect, tolerance float64) Relation {
	if tolerance <= 0 {
		return Classify(p, r)
	}
	r = r.Canon()
	if !r.Inset(-tolerance).Contains(p) {
		return Relation{Kind: Outside}
	}

	var code EdgeCode
	dl, dr := math.Abs(p.X-r.Min.X), math.Abs(p.X-r.Max.X)
	switch {
	case dl <= tolerance && dl <= dr:
		code += EdgeLeft
	case dr <= tolerance:
		code += EdgeRight
	}
	dt, db := math.Abs(p.Y-r.Min.Y), math.Abs(p.Y-r.Max.Y)
	switch {
	case dt <= tolerance && dt <= db:
		code += EdgeTop
	case db <= tolerance:
		code += EdgeBottom
	}
	if code != EdgeNone {
		return Relation{Kind: OnEdge, Edge: code}
	}
	return Relation{Kind: Inside}
}

// ApplyResize moves only the sides named by edge by delta and returns the
// renormalized rectangle. Dragging a side past the opposite one flips it.
func ApplyResize(r geometry.Rect, delta geometry.Point, edge EdgeCode) geometry.Rect {
	switch edge {
	case EdgeTop:
		r.Min.Y += delta.Y
	case EdgeRight:
		r.Max.X += delta.X
	case EdgeTopRight:
		r.Max.X += delta.X
		r.Min.Y += delta.Y
	case EdgeLeft:
		r.Min.X += delta.X
	case EdgeTopLeft:
		r.Min = r.Min.Add(delta)
	case EdgeBottom:
		r.Max.Y += delta.Y
	case EdgeBottomRight:
		r.Max = r.Max.Add(delta)
	case EdgeBottomLeft:
		r.Min.X += delta.X
		r.Max.Y += delta.Y
	}
	return r.Canon()
}

// HandleRects returns the eight resize handle squares of r, clockwise from
// the top-left corner, each 2*half wide.
func HandleRects(r geometry.Rect, half float64) [8]geometry.Rect {
	c := r.Center()
	sq := func(x, y float64) geometry.Rect {
		return geometry.RectFrom(geometry.Pt(x-half, y-half), geometry.Pt(x+half, y+half))
	}
	return [8]geometry.Rect{
		sq(r.Min.X, r.Min.Y),
		sq(c.X, r.Min.Y),
		sq(r.Max.X, r.Min.Y),
		sq(r.Max.X, c.Y),
		sq(r.Max.X, r.Max.Y),
		sq(c.X, r.Max.Y),
		sq(r.Min.X, r.Max.Y),
		sq(r.Min.X, c.Y),
	}
}
