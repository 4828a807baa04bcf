// Package geometry resolves a transform request into a concrete,
// bounds-checked crop/scale/orientation plan for one frame.
package geometry

import (
	"fmt"
	"math"

	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/types"
)

// MaxDimension bounds each side of a crop or scale target. At 16 bytes per
// float32 RGBA pixel the largest output stays below 1<<31 bytes, so buffer
// sizes fit in int on every platform.
const MaxDimension = 8192

// Plan is the resolved geometry of one pipeline call
type Plan struct {
	// Crop is the source region to keep, in unrotated frame coordinates
	Crop types.Rect
	// Scale is the resolution the crop is resampled to
	Scale types.Size
	// Rotation is applied clockwise after scaling
	Rotation format.Rotation
	// Mirror flips the rotated image horizontally
	Mirror bool
}

// OutputSize returns the dimensions of the final image, which are the scale
// dimensions swapped for 90 and 270 degree rotations
func (p Plan) OutputSize() types.Size {
	if p.Rotation.SwapsAxes() {
		return types.Size{Width: p.Scale.Height, Height: p.Scale.Width}
	}
	return p.Scale
}

// Resamples reports whether the crop has to be resized to reach the scale size
func (p Plan) Resamples() bool {
	return p.Crop.Width != p.Scale.Width || p.Crop.Height != p.Scale.Height
}

func (p Plan) String() string {
	return fmt.Sprintf("crop [%v] scale %v rotate %ddeg mirror %t", p.Crop, p.Scale, p.Rotation.Degrees(), p.Mirror)
}

// NewPlan resolves req against a frame of the given size.
//
// Without a crop, a scale target yields a center crop matching the scale's
// aspect ratio and no scale target yields the full frame. A crop without an
// origin is centered on the frame. A crop without a scale keeps the crop size.
func NewPlan(frame types.Size, req types.TransformRequest) (Plan, error) {
	if !frame.Positive() {
		return Plan{}, fmt.Errorf("%w: frame size %v must be positive", types.ErrGeometry, frame)
	}
	if !req.Rotation.Valid() {
		return Plan{}, fmt.Errorf("%w: rotation %d is not a right angle", types.ErrInvalidRequest, int(req.Rotation))
	}
	if req.Scale != nil && !req.Scale.Positive() {
		return Plan{}, fmt.Errorf("%w: scale %v must be positive", types.ErrGeometry, *req.Scale)
	}
	if req.Scale != nil && !withinLimit(*req.Scale) {
		return Plan{}, fmt.Errorf("%w: scale %v exceeds %d px per side", types.ErrGeometry, *req.Scale, MaxDimension)
	}
	if req.Crop != nil && !withinLimit(req.Crop.Size()) {
		return Plan{}, fmt.Errorf("%w: crop size %v exceeds %d px per side", types.ErrGeometry, req.Crop.Size(), MaxDimension)
	}

	plan := Plan{Rotation: req.Rotation, Mirror: req.Mirror}

	switch {
	case req.Crop != nil:
		if !req.Crop.Size().Positive() {
			return Plan{}, fmt.Errorf("%w: crop size %v must be positive", types.ErrGeometry, req.Crop.Size())
		}
		if req.Crop.Centered {
			plan.Crop = CenterRect(frame, req.Crop.Size())
		} else {
			plan.Crop = req.Crop.Rect
		}
	case req.Scale != nil:
		plan.Crop = CenterCrop(frame, *req.Scale)
	default:
		plan.Crop = types.Rect{Width: frame.Width, Height: frame.Height}
	}

	if !plan.Crop.Within(frame.Width, frame.Height) {
		return Plan{}, fmt.Errorf("%w: crop [%v] is outside the %v frame", types.ErrGeometry, plan.Crop, frame)
	}

	if req.Scale != nil {
		plan.Scale = *req.Scale
	} else {
		plan.Scale = plan.Crop.Size()
	}
	return plan, nil
}

// CenterCrop returns the largest centered rectangle of frame whose aspect
// ratio matches target
func CenterCrop(frame, target types.Size) types.Rect {
	sourceAspect := frame.AspectRatio()
	targetAspect := target.AspectRatio()

	crop := frame
	if sourceAspect > targetAspect {
		crop.Width = int(math.Round(float64(frame.Height) * targetAspect))
	} else {
		crop.Height = int(math.Round(float64(frame.Width) / targetAspect))
	}
	crop.Width = clamp(crop.Width, 1, frame.Width)
	crop.Height = clamp(crop.Height, 1, frame.Height)
	return CenterRect(frame, crop)
}

// CenterRect centers a rectangle of the given size on frame. The result may
// extend outside the frame when size is larger than it.
func CenterRect(frame, size types.Size) types.Rect {
	return types.Rect{
		X:      frame.Width/2 - size.Width/2,
		Y:      frame.Height/2 - size.Height/2,
		Width:  size.Width,
		Height: size.Height,
	}
}

func withinLimit(s types.Size) bool {
	return s.Width <= MaxDimension && s.Height <= MaxDimension
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
