// Package geometry holds the float rectangle and point primitives used by the
// crop overlay. Coordinates are local to the overlay unless stated otherwise.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point is a position in overlay space. Pointer devices report fractional
// positions, so both axes are float64.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width/height pair.
type Size struct {
	W float64
	H float64
}

// SizeOf converts integer pixel dimensions.
func SizeOf(w, h int) Size {
	return Size{W: float64(w), H: float64(h)}
}

// Clamp limits p to the closed box [0,0]..(s.W,s.H).
func (s Size) Clamp(p Point) Point {
	return Point{X: clamp(p.X, 0, s.W), Y: clamp(p.Y, 0, s.H)}
}

// Rect returns the box [0,0]..(s.W,s.H).
func (s Size) Rect() Rect {
	return Rect{Max: Point{X: s.W, Y: s.H}}
}

// Rect is an axis-aligned rectangle. Values built with RectFrom or
// Canon always have Min <= Max on both axes.
type Rect struct {
	Min Point
	Max Point
}

// RectFrom builds the rectangle spanned by two opposite corners, in any order.
func RectFrom(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Canon swaps coordinates so that Min <= Max on both axes.
func (r Rect) Canon() Rect {
	return RectFrom(r.Min, r.Max)
}

// Dx is the width.
func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }
// Dy is the height.
func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Area is zero for degenerate rectangles.
func (r Rect) Area() float64 {
	return r.Dx() * r.Dy()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Dx() <= 0 || r.Dy() <= 0
}

func (r Rect) LeftTop() Point     { return r.Min }
func (r Rect) RightTop() Point    { return Point{X: r.Max.X, Y: r.Min.Y} }
func (r Rect) RightBottom() Point { return r.Max }
func (r Rect) LeftBottom() Point  { return Point{X: r.Min.X, Y: r.Max.Y} }

// Corners lists the corners clockwise from the top-left one.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.LeftTop(), r.RightTop(), r.RightBottom(), r.LeftBottom()}
}

// Center is the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Translate moves both corners by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Inset shrinks the rectangle by n on every side; a negative n grows it.
func (r Rect) Inset(n float64) Rect {
	return Rect{
		Min: Point{X: r.Min.X + n, Y: r.Min.Y + n},
		Max: Point{X: r.Max.X - n, Y: r.Max.Y - n},
	}
}

// Contains reports whether p lies in the closed rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether s lies entirely inside the closed rectangle r.
func (r Rect) ContainsRect(s Rect) bool {
	return r.Contains(s.Min) && r.Contains(s.Max)
}

// Intersect returns the overlap of r and s. The result is empty when they do
// not overlap.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: Point{X: math.Max(r.Min.X, s.Min.X), Y: math.Max(r.Min.Y, s.Min.Y)},
		Max: Point{X: math.Min(r.Max.X, s.Max.X), Y: math.Min(r.Max.Y, s.Max.Y)},
	}
	if out.Max.X < out.Min.X || out.Max.Y < out.Min.Y {
		return Rect{}
	}
	return out
}

// ClampTo clamps both corners into the box [0,0]..(s.W,s.H). The size may
// shrink.
func (r Rect) ClampTo(s Size) Rect {
	return RectFrom(s.Clamp(r.Min), s.Clamp(r.Max))
}

// ShiftWithin moves the rectangle, keeping its size, so that it lies inside
// [0,0]..(s.W,s.H). A rectangle larger than s is pinned to the origin and
// clamped.
func (r Rect) ShiftWithin(s Size) Rect {
	var d Point
	switch {
	case r.Min.X < 0:
		d.X = -r.Min.X
	case r.Max.X > s.W:
		d.X = s.W - r.Max.X
	}
	switch {
	case r.Min.Y < 0:
		d.Y = -r.Min.Y
	case r.Max.Y > s.H:
		d.Y = s.H - r.Max.Y
	}
	return r.Translate(d).ClampTo(s)
}

// Image rounds the rectangle outwards to whole pixels.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)),
		int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)),
		int(math.Ceil(r.Max.Y)),
	)
}

// FromImage converts an integer rectangle.
func FromImage(r image.Rectangle) Rect {
	return Rect{
		Min: Point{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		Max: Point{X: float64(r.Max.X), Y: float64(r.Max.Y)},
	}
}

func (r Rect) String() string {
	return r.Min.String() + "-" + r.Max.String()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
