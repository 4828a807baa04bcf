package colorconv

import "github.com/menta2k/frame-resizer/pkg/format"

// orientation maps a source pixel (x, y) of a w x h image to the pixel index
// origin + x*stepX + y*stepY of the rotated and mirrored output
type orientation struct {
	origin, stepX, stepY int
}

// newOrientation builds the mapping for a clockwise rotation followed by an
// optional horizontal flip of the rotated image
func newOrientation(w, h int, rot format.Rotation, mirror bool) orientation {
	// destination column and row as affine functions of (x, y):
	// dx = ax + bx*x + cx*y, dy = ay + by*x + cy*y
	var ax, bx, cx, ay, by, cy int
	outW := w
	switch rot {
	case format.Rotation90:
		outW = h
		ax, cx = h-1, -1
		by = 1
	case format.Rotation180:
		ax, bx = w-1, -1
		ay, cy = h-1, -1
	case format.Rotation270:
		outW = h
		cx = 1
		ay, by = w-1, -1
	default:
		bx = 1
		cy = 1
	}
	if mirror {
		ax, bx, cx = outW-1-ax, -bx, -cx
	}
	return orientation{
		origin: ay*outW + ax,
		stepX:  by*outW + bx,
		stepY:  cy*outW + cx,
	}
}
