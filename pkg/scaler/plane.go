// Package scaler resamples cropped camera frames to a target resolution with
// bilinear filtering.
//
// Cropping never copies: source planes are addressed through strided views
// whose start is offset to the crop origin.
package scaler

import (
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/types"
)

const (
	// source positions are tracked in 16.16 fixed point
	posBits = 16
	posOne  = 1 << posBits
	// interpolation weights use 8 fractional bits so sums fit in 32 bits
	weightBits = 8
	weightOne  = 1 << weightBits
)

// PlaneView is a strided window onto one plane of 8-bit samples
type PlaneView struct {
	Pix         []byte
	Width       int
	Height      int
	RowStride   int
	PixelStride int
}

// at returns the sample at column x of the row starting at offset row
func (p PlaneView) at(row, x int) int {
	return int(p.Pix[row+x*p.PixelStride])
}

// Window returns the view of the w x h region whose top-left sample is (x, y)
func (p PlaneView) Window(x, y, w, h int) PlaneView {
	off := y*p.RowStride + x*p.PixelStride
	return PlaneView{
		Pix:         p.Pix[off:],
		Width:       w,
		Height:      h,
		RowStride:   p.RowStride,
		PixelStride: p.PixelStride,
	}
}

// ScalePlane resamples src into dst. Every destination sample is the
// bilinear blend of at most four source samples; samples past the source
// edge are clamped to the last row or column.
func ScalePlane(dst, src PlaneView) {
	if dst.Width <= 0 || dst.Height <= 0 || src.Width <= 0 || src.Height <= 0 {
		return
	}
	if dst.Width == src.Width && dst.Height == src.Height {
		copyPlane(dst, src)
		return
	}

	for y := 0; y < dst.Height; y++ {
		y0, y1, fy := sourcePos(y, src.Height, dst.Height)
		row0 := y0 * src.RowStride
		row1 := y1 * src.RowStride
		out := y * dst.RowStride

		for x := 0; x < dst.Width; x++ {
			x0, x1, fx := sourcePos(x, src.Width, dst.Width)

			top := src.at(row0, x0)*(weightOne-fx) + src.at(row0, x1)*fx
			bottom := src.at(row1, x0)*(weightOne-fx) + src.at(row1, x1)*fx
			v := (top*(weightOne-fy) + bottom*fy + (1 << (2*weightBits - 1))) >> (2 * weightBits)

			dst.Pix[out+x*dst.PixelStride] = byte(v)
		}
	}
}

// sourcePos maps destination index i onto the two neighbouring source
// indices and the 8-bit weight of the second one. Sample centers are
// aligned, so equal lengths map every index onto itself.
func sourcePos(i, srcLen, dstLen int) (i0, i1, frac int) {
	pos := (int64(2*i+1)*int64(srcLen) - int64(dstLen)) << posBits / int64(2*dstLen)
	if pos < 0 {
		pos = 0
	}
	i0 = int(pos >> posBits)
	frac = int(pos&(posOne-1)) >> (posBits - weightBits)
	if i0 >= srcLen-1 {
		return srcLen - 1, srcLen - 1, 0
	}
	return i0, i0 + 1, frac
}

func copyPlane(dst, src PlaneView) {
	for y := 0; y < src.Height; y++ {
		in := y * src.RowStride
		out := y * dst.RowStride
		if src.PixelStride == 1 && dst.PixelStride == 1 {
			copy(dst.Pix[out:out+src.Width], src.Pix[in:in+src.Width])
			continue
		}
		for x := 0; x < src.Width; x++ {
			dst.Pix[out+x*dst.PixelStride] = src.Pix[in+x*src.PixelStride]
		}
	}
}

// I420 is a tightly packed planar 4:2:0 image stored in one buffer
type I420 struct {
	Y, U, V PlaneView
}

// NewI420 lays out a w x h planar 4:2:0 image over buf, which must hold at
// least format.I420Size(w, h) bytes. Planes are stored Y, U, V.
func NewI420(buf []byte, w, h int) I420 {
	cw, ch := format.ChromaSize(w, h)
	ySize, cSize := w*h, cw*ch
	return I420{
		Y: PlaneView{Pix: buf[:ySize], Width: w, Height: h, RowStride: w, PixelStride: 1},
		U: PlaneView{Pix: buf[ySize : ySize+cSize], Width: cw, Height: ch, RowStride: cw, PixelStride: 1},
		V: PlaneView{Pix: buf[ySize+cSize : ySize+2*cSize], Width: cw, Height: ch, RowStride: cw, PixelStride: 1},
	}
}

// Width returns the luma width
func (img I420) Width() int { return img.Y.Width }

// Height returns the luma height
func (img I420) Height() int { return img.Y.Height }

// CropI420 returns views of the crop region of a YUV 4:2:0 frame. The chroma
// window covers every chroma sample touched by the luma window.
func CropI420(frame types.SourceFrame, crop types.Rect) I420 {
	yp, up, vp := frame.Planes[0], frame.Planes[1], frame.Planes[2]
	cw, ch := format.ChromaSize(frame.Width, frame.Height)

	luma := PlaneView{Pix: yp.Bytes, Width: frame.Width, Height: frame.Height, RowStride: yp.RowStride, PixelStride: yp.Step(1)}
	u := PlaneView{Pix: up.Bytes, Width: cw, Height: ch, RowStride: up.RowStride, PixelStride: up.Step(1)}
	v := PlaneView{Pix: vp.Bytes, Width: cw, Height: ch, RowStride: vp.RowStride, PixelStride: vp.Step(1)}

	cx0, cy0 := crop.X/2, crop.Y/2
	cx1, cy1 := (crop.X+crop.Width+1)/2, (crop.Y+crop.Height+1)/2
	return I420{
		Y: luma.Window(crop.X, crop.Y, crop.Width, crop.Height),
		U: u.Window(cx0, cy0, cx1-cx0, cy1-cy0),
		V: v.Window(cx0, cy0, cx1-cx0, cy1-cy0),
	}
}

// ScaleI420 resamples every plane of src into dst: luma at full resolution
// and both chroma planes at half resolution
func ScaleI420(dst, src I420) {
	ScalePlane(dst.Y, src.Y)
	ScalePlane(dst.U, src.U)
	ScalePlane(dst.V, src.V)
}
