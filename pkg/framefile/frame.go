package framefile

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/ollama/ollama/model/imageproc"

	"github.com/menta2k/frame-resizer/pkg/colorconv"
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/requant"
	"github.com/menta2k/frame-resizer/pkg/types"
)

// ToSourceFrame converts img into a camera frame of the given layout.
//
// RGBA8888 frames keep the image's alpha. YUV frames have no alpha, so
// translucent pixels are composited onto white first; the result is tightly
// packed I420 encoded with the BT.601 variant selected by rng, with chroma
// taken as the average of each 2x2 luma block.
func ToSourceFrame(img image.Image, layout format.SourceLayout, rng colorconv.ColorRange) (types.SourceFrame, error) {
	b := img.Bounds()
	if b.Empty() {
		return types.SourceFrame{}, fmt.Errorf("%w: empty image", types.ErrGeometry)
	}

	switch layout {
	case format.RGBA8888:
		src := imaging.Clone(img)
		w, h := src.Rect.Dx(), src.Rect.Dy()
		return types.SourceFrame{
			Width:  w,
			Height: h,
			Layout: format.RGBA8888,
			Planes: []types.Plane{{Bytes: src.Pix, RowStride: src.Stride, PixelStride: 4}},
		}, nil
	case format.YUV420:
		return toI420(imaging.Clone(imageproc.Composite(img)), rng), nil
	}
	return types.SourceFrame{}, fmt.Errorf("%w: %v", types.ErrUnsupportedSourceFormat, layout)
}

func toI420(src *image.NRGBA, rng colorconv.ColorRange) types.SourceFrame {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	cw, ch := format.ChromaSize(w, h)
	buf := make([]byte, format.I420Size(w, h))
	yp := buf[:w*h]
	up := buf[w*h : w*h+cw*ch]
	vp := buf[w*h+cw*ch:]

	rgbAt := func(x, y int) (int, int, int) {
		off := y*src.Stride + x*4
		return int(src.Pix[off]), int(src.Pix[off+1]), int(src.Pix[off+2])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := rgbAt(x, y)
			yp[y*w+x] = luma(r, g, b, rng)
		}
	}

	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			var rs, gs, bs, n int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := 2*cx+dx, 2*cy+dy
					if x >= w || y >= h {
						continue
					}
					r, g, b := rgbAt(x, y)
					rs, gs, bs = rs+r, gs+g, bs+b
					n++
				}
			}
			u, v := chroma((rs+n/2)/n, (gs+n/2)/n, (bs+n/2)/n, rng)
			up[cy*cw+cx] = u
			vp[cy*cw+cx] = v
		}
	}

	return types.SourceFrame{
		Width:  w,
		Height: h,
		Layout: format.YUV420,
		Planes: []types.Plane{
			{Bytes: yp, RowStride: w, PixelStride: 1},
			{Bytes: up, RowStride: cw, PixelStride: 1},
			{Bytes: vp, RowStride: cw, PixelStride: 1},
		},
	}
}

// luma returns the Y component of one RGB triplet
func luma(r, g, b int, rng colorconv.ColorRange) uint8 {
	if rng == colorconv.RangeFull {
		// color.RGBToYCbCr's Y term, without computing chroma
		return clamp8((19595*r + 38470*g + 7471*b + 1<<15) >> 16)
	}
	return clamp8(((66*r + 129*g + 25*b + 128) >> 8) + 16)
}

// chroma returns the U and V components of one RGB triplet
func chroma(r, g, b int, rng colorconv.ColorRange) (uint8, uint8) {
	if rng == colorconv.RangeFull {
		_, u, v := color.RGBToYCbCr(uint8(r), uint8(g), uint8(b))
		return u, v
	}
	u := ((-38*r - 74*g + 112*b + 128) >> 8) + 128
	v := ((112*r - 94*g - 18*b + 128) >> 8) + 128
	return clamp8(u), clamp8(v)
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

// SemiPlanar rewrites an I420 frame into interleaved chroma memory, with the
// U and V planes addressing the same buffer one byte apart and a pixel
// stride of 2. This is how many camera HALs deliver 4:2:0 frames.
func SemiPlanar(frame types.SourceFrame) (types.SourceFrame, error) {
	if err := frame.Validate(); err != nil {
		return types.SourceFrame{}, err
	}
	if frame.Layout != format.YUV420 {
		return types.SourceFrame{}, fmt.Errorf("%w: %v is not planar", types.ErrUnsupportedSourceFormat, frame.Layout)
	}

	cw, ch := format.ChromaSize(frame.Width, frame.Height)
	uv := make([]byte, 2*cw*ch)
	u, v := frame.Planes[1], frame.Planes[2]
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			uv[y*2*cw+2*x] = u.Bytes[y*u.RowStride+x*u.Step(1)]
			uv[y*2*cw+2*x+1] = v.Bytes[y*v.RowStride+x*v.Step(1)]
		}
	}

	out := frame
	out.Planes = []types.Plane{
		frame.Planes[0],
		{Bytes: uv, RowStride: 2 * cw, PixelStride: 2},
		{Bytes: uv[1:], RowStride: 2 * cw, PixelStride: 2},
	}
	return out, nil
}

// FromOutput renders a packed pipeline output buffer of w x h pixels as an
// image. Float32 data is dequantized first; formats without alpha are opaque.
func FromOutput(data []byte, w, h int, pf format.PixelFormat, dt format.DataType) (*image.NRGBA, error) {
	if !pf.Valid() || !dt.Valid() {
		return nil, fmt.Errorf("%w: %v/%v", types.ErrUnsupportedConversion, pf, dt)
	}
	want := w * h * pf.BytesPerPixel(dt)
	if w <= 0 || h <= 0 || len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d %v %v, want %d",
			types.ErrGeometry, len(data), w, h, pf, dt, want)
	}

	packed := data
	if dt == format.Float32 {
		packed = make([]byte, len(data)/requant.BytesPerFloat)
		requant.Dequantize(packed, data)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bpp := pf.Channels()
	ro, gOff, bo, ao := pf.Offsets()
	for i := 0; i < w*h; i++ {
		px := packed[i*bpp : i*bpp+bpp]
		out := img.Pix[i*4 : i*4+4]
		out[0], out[1], out[2], out[3] = px[ro], px[gOff], px[bo], 255
		if ao >= 0 {
			out[3] = px[ao]
		}
	}
	return img, nil
}
