// Package colorconv writes scaled camera images into packed RGB-family
// buffers.
//
// YUV input is converted with BT.601 coefficients. The default is limited
// (video) range in 8.8 fixed point, the same integer approximation libyuv
// uses for I420:
//
//	c = Y - 16, d = U - 128, e = V - 128
//	R = (298c + 409e + 128) >> 8
//	G = (298c - 100d - 208e + 128) >> 8
//	B = (298c + 516d + 128) >> 8
//
// RangeFull selects full-range (JFIF) BT.601 instead. The range is fixed per
// Converter.
//
// Rotation and mirroring are applied while writing: each source pixel is
// stored directly at its rotated, mirrored destination, so no extra buffer
// is needed.
package colorconv

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/scaler"
	"github.com/menta2k/frame-resizer/pkg/types"
)

// ColorRange selects the YUV quantization range of the source
type ColorRange int

const (
	// RangeLimited is BT.601 video range, Y in [16,235] and UV in [16,240]
	RangeLimited ColorRange = iota
	// RangeFull is BT.601 full range as used by JPEG
	RangeFull
)

// ParseColorRange resolves "limited"/"bt601-limited" or "full"/"bt601-full"
func ParseColorRange(s string) (ColorRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "limited", "bt601-limited", "video":
		return RangeLimited, nil
	case "full", "bt601-full", "jpeg":
		return RangeFull, nil
	}
	return 0, fmt.Errorf("unknown color range %q", s)
}

func (r ColorRange) String() string {
	switch r {
	case RangeLimited:
		return "bt601-limited"
	case RangeFull:
		return "bt601-full"
	}
	return fmt.Sprintf("ColorRange(%d)", int(r))
}

// Converter converts scaled images into packed pixel formats
type Converter struct {
	rng ColorRange
}

// New creates a converter for the given YUV range
func New(rng ColorRange) *Converter {
	return &Converter{rng: rng}
}

// Range returns the YUV range the converter was built for
func (c *Converter) Range() ColorRange {
	return c.rng
}

// Supports reports whether frames of layout src can be converted into pf.
// It is meant to be called before any buffer is touched.
func (c *Converter) Supports(src format.SourceLayout, pf format.PixelFormat) error {
	if !src.Valid() {
		return fmt.Errorf("%w: %v", types.ErrUnsupportedSourceFormat, src)
	}
	if !pf.Valid() {
		return fmt.Errorf("%w: %v -> %v", types.ErrUnsupportedConversion, src, pf)
	}
	if src == format.YUV420 && c.rng != RangeLimited && c.rng != RangeFull {
		return fmt.Errorf("%w: %v -> %v with %v", types.ErrUnsupportedConversion, src, pf, c.rng)
	}
	return nil
}

// FromI420 converts src into dst using pixel format pf, then rotates and
// mirrors. dst must hold src.Width()*src.Height()*pf.Channels() bytes.
// Formats with an alpha channel get an opaque alpha of 255.
func (c *Converter) FromI420(dst []byte, src scaler.I420, pf format.PixelFormat, rot format.Rotation, mirror bool) {
	w, h := src.Width(), src.Height()
	bpp := pf.Channels()
	ro, gOff, bo, ao := pf.Offsets()
	o := newOrientation(w, h, rot, mirror)

	for y := 0; y < h; y++ {
		yRow := y * src.Y.RowStride
		cRowU := (y / 2) * src.U.RowStride
		cRowV := (y / 2) * src.V.RowStride
		base := o.origin + y*o.stepY

		for x := 0; x < w; x++ {
			Y := src.Y.Pix[yRow+x*src.Y.PixelStride]
			U := src.U.Pix[cRowU+(x/2)*src.U.PixelStride]
			V := src.V.Pix[cRowV+(x/2)*src.V.PixelStride]

			var r, g, b uint8
			if c.rng == RangeFull {
				r, g, b = color.YCbCrToRGB(Y, U, V)
			} else {
				r, g, b = limitedToRGB(Y, U, V)
			}

			off := (base + x*o.stepX) * bpp
			dst[off+ro] = r
			dst[off+gOff] = g
			dst[off+bo] = b
			if ao >= 0 {
				dst[off+ao] = 255
			}
		}
	}
}

// FromRGBA reorders tightly packed RGBA pixels of a w x h image into pf,
// then rotates and mirrors. Source alpha is kept for formats that carry one.
func (c *Converter) FromRGBA(dst, src []byte, w, h int, pf format.PixelFormat, rot format.Rotation, mirror bool) {
	bpp := pf.Channels()
	ro, gOff, bo, ao := pf.Offsets()
	o := newOrientation(w, h, rot, mirror)

	for y := 0; y < h; y++ {
		in := y * w * 4
		base := o.origin + y*o.stepY
		for x := 0; x < w; x++ {
			px := src[in+x*4 : in+x*4+4]
			off := (base + x*o.stepX) * bpp
			dst[off+ro] = px[0]
			dst[off+gOff] = px[1]
			dst[off+bo] = px[2]
			if ao >= 0 {
				dst[off+ao] = px[3]
			}
		}
	}
}

// limitedToRGB converts one BT.601 limited-range sample
func limitedToRGB(y, u, v uint8) (uint8, uint8, uint8) {
	c := int(y) - 16
	d := int(u) - 128
	e := int(v) - 128
	if c < 0 {
		c = 0
	}
	r := (298*c + 409*e + 128) >> 8
	g := (298*c - 100*d - 208*e + 128) >> 8
	b := (298*c + 516*d + 128) >> 8
	return clamp8(r), clamp8(g), clamp8(b)
}

func clamp8(x int) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
