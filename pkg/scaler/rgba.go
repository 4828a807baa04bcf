package scaler

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/menta2k/frame-resizer/pkg/types"
)

// RGBAScaler crops and resizes packed RGBA8888 frames. It keeps its image
// headers between calls so that steady-state scaling does not allocate.
// An RGBAScaler is not safe for concurrent use.
type RGBAScaler struct {
	src, dst image.RGBA
	interp   draw.Interpolator
}

// NewRGBAScaler creates a scaler using x/image's four-tap bilinear interpolator
func NewRGBAScaler() *RGBAScaler {
	return &RGBAScaler{interp: draw.ApproxBiLinear}
}

// Scale writes the crop region of frame, resized to w x h, into dst as
// tightly packed RGBA. dst must hold w*h*4 bytes.
func (s *RGBAScaler) Scale(dst []byte, w, h int, frame types.SourceFrame, crop types.Rect) {
	plane := frame.Planes[0]
	s.src = image.RGBA{Pix: plane.Bytes, Stride: plane.RowStride, Rect: image.Rect(0, 0, frame.Width, frame.Height)}
	s.dst = image.RGBA{Pix: dst, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}

	sr := image.Rect(crop.X, crop.Y, crop.X+crop.Width, crop.Y+crop.Height)
	if sr.Dx() == w && sr.Dy() == h {
		draw.Copy(&s.dst, image.Point{}, &s.src, sr, draw.Src, nil)
		return
	}
	s.interp.Scale(&s.dst, s.dst.Rect, &s.src, sr, draw.Src, nil)
}
