package types

import (
	"fmt"

	"github.com/menta2k/frame-resizer/pkg/format"
)

// Rect is a pixel rectangle anchored at its top-left corner
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Size returns the dimensions of r
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Within reports whether r lies inside a w x h frame and is non-empty
func (r Rect) Within(w, h int) bool {
	return r.Width > 0 && r.Height > 0 &&
		r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= w && r.Y+r.Height <= h
}

func (r Rect) String() string {
	return fmt.Sprintf("%d, %d @ %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Size is a width/height pair in pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Positive reports whether both dimensions are greater than zero
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

// AspectRatio returns width divided by height
func (s Size) AspectRatio() float64 {
	return float64(s.Width) / float64(s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Plane is one memory plane of a camera frame
type Plane struct {
	// Bytes holds the plane data, starting at the first sample
	Bytes []byte
	// RowStride is the distance in bytes between the starts of two rows
	RowStride int
	// PixelStride is the distance in bytes between two horizontally adjacent
	// samples. Zero means tightly packed for the plane's layout.
	PixelStride int
}

// Step returns the pixel stride of p, falling back to def when unset
func (p Plane) Step(def int) int {
	if p.PixelStride > 0 {
		return p.PixelStride
	}
	return def
}

// SourceFrame is a read-only view of one camera frame. The pipeline never
// keeps a reference to it after a call returns.
type SourceFrame struct {
	Width  int
	Height int
	Layout format.SourceLayout
	Planes []Plane
}

// Size returns the frame dimensions
func (f SourceFrame) Size() Size {
	return Size{Width: f.Width, Height: f.Height}
}

// Crop is the requested crop rectangle. When Centered is true the X and Y
// fields are ignored and the rectangle is centered on the frame.
type Crop struct {
	Rect
	Centered bool
}

// TransformRequest is the immutable configuration of one pipeline call
type TransformRequest struct {
	// Crop is nil when no crop was requested
	Crop *Crop
	// Scale is nil when no scale target was requested
	Scale       *Size
	Rotation    format.Rotation
	Mirror      bool
	PixelFormat format.PixelFormat
	DataType    format.DataType
}

// DefaultRequest returns a request for a full-frame RGBA uint8 conversion
func DefaultRequest() TransformRequest {
	return TransformRequest{
		Rotation:    format.Rotation0,
		PixelFormat: format.RGBA,
		DataType:    format.Uint8,
	}
}
