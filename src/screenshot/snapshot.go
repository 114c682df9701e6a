package screenshot

import (
	"errors"
	"fmt"
	"image"

	"github.com/hashicorp/go-multierror"
	xdraw "golang.org/x/image/draw"
)

var (
	// ErrCaptureFailed covers every failure to enumerate or read displays and
	// windows. Underlying system errors are wrapped.
	ErrCaptureFailed = errors.New("capture failed")

	// ErrEmptyDisplayList is returned when no display could be captured. It
	// matches ErrCaptureFailed with errors.Is.
	ErrEmptyDisplayList = fmt.Errorf("%w: empty display list", ErrCaptureFailed)
)

// Region is a rectangle in global (virtual desktop) coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// RegionOf converts an image rectangle.
func RegionOf(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the region as an image rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// DisplayInfo is one captured physical display. X/Y/Width/Height are in
// global desktop coordinates; Image holds the raw pixels, which may be larger
// than Width x Height on scaled displays.
type DisplayInfo struct {
	Name        string
	Primary     bool
	X           int
	Y           int
	Width       int
	Height      int
	ScaleFactor float64
	Image       *image.RGBA
}

// Bounds returns the display rectangle in global coordinates.
func (d DisplayInfo) Bounds() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

func (d DisplayInfo) validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", d.Width, d.Height)
	}
	if d.Image == nil {
		return errors.New("missing pixels")
	}
	b := d.Image.Bounds()
	if b.Empty() {
		return errors.New("empty pixel buffer")
	}
	if len(d.Image.Pix) != b.Dx()*b.Dy()*4 {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d", len(d.Image.Pix), b.Dx()*b.Dy()*4)
	}
	if d.ScaleFactor < 0 {
		return fmt.Errorf("invalid scale factor %g", d.ScaleFactor)
	}
	return nil
}

// pixelRect maps a global rectangle inside the display onto its pixel buffer.
func (d DisplayInfo) pixelRect(global image.Rectangle) image.Rectangle {
	pb := d.Image.Bounds()
	sx := float64(pb.Dx()) / float64(d.Width)
	sy := float64(pb.Dy()) / float64(d.Height)
	rel := global.Sub(image.Pt(d.X, d.Y))
	return image.Rect(
		pb.Min.X+int(float64(rel.Min.X)*sx+0.5),
		pb.Min.Y+int(float64(rel.Min.Y)*sy+0.5),
		pb.Min.X+int(float64(rel.Max.X)*sx+0.5),
		pb.Min.Y+int(float64(rel.Max.Y)*sy+0.5),
	).Intersect(pb)
}

// WindowInfo describes an application window. Only gathered on request.
type WindowInfo struct {
	Name      string
	Title     string
	Minimized bool
	X         int
	Y         int
	Width     int
	Height    int
}

// Bounds returns the window rectangle in global coordinates.
func (w WindowInfo) Bounds() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.Width, w.Y+w.Height)
}

// Fragment is a display placed in overlay (local) coordinates. Size is the
// logical size; Image may need scaling to fit it.
type Fragment struct {
	Name  string
	Pos   image.Point
	Size  image.Point
	Image *image.RGBA
}

// Snapshot is the state of every display (and optionally every window) at
// one instant. It is read-only after NewSnapshot.
type Snapshot struct {
	Displays []DisplayInfo
	Windows  []WindowInfo
	Bound    image.Rectangle

	origins []image.Point
}

// Bounds computes the axis-aligned union of all display rectangles.
func Bounds(displays []DisplayInfo) (image.Rectangle, error) {
	if len(displays) == 0 {
		return image.Rectangle{}, ErrEmptyDisplayList
	}
	union := displays[0].Bounds()
	for _, d := range displays[1:] {
		union = union.Union(d.Bounds())
	}
	return union, nil
}

// NewSnapshot validates the displays and derives the bounding box and the
// local origin of every display. All invalid displays are reported together.
func NewSnapshot(displays []DisplayInfo, windows []WindowInfo) (*Snapshot, error) {
	if len(displays) == 0 {
		return nil, ErrEmptyDisplayList
	}

	var result *multierror.Error
	for i, d := range displays {
		if err := d.validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("display %d (%s): %w", i, d.Name, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}

	bound, err := Bounds(displays)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Displays: make([]DisplayInfo, len(displays)),
		Windows:  append([]WindowInfo(nil), windows...),
		Bound:    bound,
		origins:  make([]image.Point, len(displays)),
	}
	copy(s.Displays, displays)
	for i := range s.Displays {
		d := &s.Displays[i]
		if d.ScaleFactor == 0 {
			d.ScaleFactor = float64(d.Image.Bounds().Dx()) / float64(d.Width)
		}
		s.origins[i] = image.Pt(d.X-bound.Min.X, d.Y-bound.Min.Y)
	}
	return s, nil
}

// Size returns the width and height of the bounding box.
func (s *Snapshot) Size() image.Point {
	return s.Bound.Size()
}

// LocalOrigin is where display i is drawn inside the overlay.
func (s *Snapshot) LocalOrigin(i int) image.Point {
	return s.origins[i]
}

// ToGlobal translates a local (overlay) rectangle into desktop coordinates.
func (s *Snapshot) ToGlobal(local image.Rectangle) Region {
	return RegionOf(local.Add(s.Bound.Min))
}

// Fragments lists every display with its local draw position.
func (s *Snapshot) Fragments() []Fragment {
	out := make([]Fragment, len(s.Displays))
	for i, d := range s.Displays {
		out[i] = Fragment{
			Name:  d.Name,
			Pos:   s.origins[i],
			Size:  image.Pt(d.Width, d.Height),
			Image: d.Image,
		}
	}
	return out
}

// Crop copies the pixels of a global region. Areas of the region not covered
// by any display stay transparent; scaled displays are resampled to logical
// size.
func (s *Snapshot) Crop(region Region) (*image.RGBA, error) {
	if region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", region.Width, region.Height)
	}
	want := region.Rect()
	if !want.In(s.Bound) {
		return nil, fmt.Errorf("region %v outside captured area %v", want, s.Bound)
	}

	out := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))
	for _, d := range s.Displays {
		inter := d.Bounds().Intersect(want)
		if inter.Empty() {
			continue
		}
		dst := inter.Sub(want.Min)
		src := d.pixelRect(inter)
		if src.Size() == dst.Size() {
			xdraw.Copy(out, dst.Min, d.Image, src, xdraw.Src, nil)
			continue
		}
		xdraw.CatmullRom.Scale(out, dst, d.Image, src, xdraw.Src, nil)
	}
	return out, nil
}
