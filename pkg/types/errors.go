package types

import (
	"errors"
	"fmt"

	"github.com/menta2k/frame-resizer/pkg/format"
)

// Error classes returned by the pipeline. Concrete errors wrap one of these,
// so callers test them with errors.Is.
var (
	// ErrInvalidRequest reports missing or malformed request fields
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedSourceFormat reports a frame layout the backend cannot consume
	ErrUnsupportedSourceFormat = errors.New("unsupported source format")
	// ErrUnsupportedConversion reports a source/target pairing that is not implemented
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	// ErrGeometry reports crop rectangles outside the frame or non-positive sizes
	ErrGeometry = errors.New("geometry error")
)

// ErrorCategory classifies pipeline errors for logging and telemetry
type ErrorCategory int

const (
	// CategoryNone is returned for a nil error
	CategoryNone ErrorCategory = iota
	CategoryInvalidRequest
	CategoryUnsupportedSource
	CategoryUnsupportedConversion
	CategoryGeometry
	// CategoryUnknown covers errors that do not wrap a pipeline error class
	CategoryUnknown
)

// String returns a short label for the category
func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryInvalidRequest:
		return "invalid_request"
	case CategoryUnsupportedSource:
		return "unsupported_source_format"
	case CategoryUnsupportedConversion:
		return "unsupported_conversion"
	case CategoryGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Category maps err onto its error class
func Category(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrInvalidRequest):
		return CategoryInvalidRequest
	case errors.Is(err, ErrUnsupportedSourceFormat):
		return CategoryUnsupportedSource
	case errors.Is(err, ErrUnsupportedConversion):
		return CategoryUnsupportedConversion
	case errors.Is(err, ErrGeometry):
		return CategoryGeometry
	default:
		return CategoryUnknown
	}
}

// Validate checks that the frame's planes are large enough for its declared
// layout and dimensions
func (f SourceFrame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: frame size %dx%d must be positive", ErrGeometry, f.Width, f.Height)
	}
	if !f.Layout.Valid() {
		return fmt.Errorf("%w: %v", ErrUnsupportedSourceFormat, f.Layout)
	}
	if len(f.Planes) != f.Layout.Planes() {
		return fmt.Errorf("%w: %v frame needs %d planes, got %d",
			ErrUnsupportedSourceFormat, f.Layout, f.Layout.Planes(), len(f.Planes))
	}

	switch f.Layout {
	case format.YUV420:
		if err := checkPlane("y", f.Planes[0], f.Width, f.Height, 1, 1); err != nil {
			return err
		}
		u, v := f.Planes[1], f.Planes[2]
		if u.Step(1) != v.Step(1) {
			return fmt.Errorf("%w: U and V planes do not have the same pixel stride (%d != %d)",
				ErrUnsupportedSourceFormat, u.Step(1), v.Step(1))
		}
		cw, ch := format.ChromaSize(f.Width, f.Height)
		if err := checkPlane("u", u, cw, ch, 1, 1); err != nil {
			return err
		}
		if err := checkPlane("v", v, cw, ch, 1, 1); err != nil {
			return err
		}
	case format.RGBA8888:
		if f.Planes[0].Step(4) != 4 {
			return fmt.Errorf("%w: rgba8888 plane has pixel stride %d",
				ErrUnsupportedSourceFormat, f.Planes[0].Step(4))
		}
		if err := checkPlane("rgba", f.Planes[0], f.Width, f.Height, 4, 4); err != nil {
			return err
		}
	}
	return nil
}

// checkPlane verifies that p can be addressed as h rows of w samples, each
// sample being sample bytes wide and step bytes apart
func checkPlane(name string, p Plane, w, h, step, sample int) error {
	step = p.Step(step)
	if p.RowStride < (w-1)*step+sample {
		return fmt.Errorf("%w: %s plane row stride %d is too small for width %d",
			ErrUnsupportedSourceFormat, name, p.RowStride, w)
	}
	need := (h-1)*p.RowStride + (w-1)*step + sample
	if len(p.Bytes) < need {
		return fmt.Errorf("%w: %s plane holds %d bytes, need %d",
			ErrUnsupportedSourceFormat, name, len(p.Bytes), need)
	}
	return nil
}
