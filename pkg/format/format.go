// Package format declares the pixel layouts and numeric types the pipeline
// understands, together with their byte costs.
//
// Every enumeration here is defined once as an ordered table. The index of an
// entry is its ordinal, which is the value exchanged with native callers, so
// the table is the single source of truth for both sides of that boundary.
package format

import (
	"fmt"
	"strings"
)

// PixelFormat is a packed RGB-family target layout
type PixelFormat int

// Supported target pixel formats, in ordinal order
const (
	RGB PixelFormat = iota
	BGR
	ARGB
	RGBA
	BGRA
	ABGR
)

type pixelFormatInfo struct {
	name     string
	channels int
	// byte offsets of R, G, B and A inside one pixel, a is -1 when absent
	r, g, b, a int
}

var pixelFormats = [...]pixelFormatInfo{
	RGB:  {name: "rgb", channels: 3, r: 0, g: 1, b: 2, a: -1},
	BGR:  {name: "bgr", channels: 3, r: 2, g: 1, b: 0, a: -1},
	ARGB: {name: "argb", channels: 4, r: 1, g: 2, b: 3, a: 0},
	RGBA: {name: "rgba", channels: 4, r: 0, g: 1, b: 2, a: 3},
	BGRA: {name: "bgra", channels: 4, r: 2, g: 1, b: 0, a: 3},
	ABGR: {name: "abgr", channels: 4, r: 3, g: 2, b: 1, a: 0},
}

// PixelFormats returns every supported pixel format in ordinal order
func PixelFormats() []PixelFormat {
	out := make([]PixelFormat, len(pixelFormats))
	for i := range pixelFormats {
		out[i] = PixelFormat(i)
	}
	return out
}

// ParsePixelFormat resolves a lower-case format name such as "rgba"
func ParsePixelFormat(s string) (PixelFormat, error) {
	for i, info := range pixelFormats {
		if info.name == s {
			return PixelFormat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pixel format %q", s)
}

// PixelFormatFromOrdinal converts a native ordinal back into a PixelFormat
func PixelFormatFromOrdinal(ordinal int) (PixelFormat, bool) {
	p := PixelFormat(ordinal)
	return p, p.Valid()
}

// Valid reports whether p is one of the declared formats
func (p PixelFormat) Valid() bool {
	return p >= 0 && int(p) < len(pixelFormats)
}

// Ordinal returns the position of p in the shared schema
func (p PixelFormat) Ordinal() int {
	return int(p)
}

func (p PixelFormat) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PixelFormat(%d)", int(p))
	}
	return pixelFormats[p].name
}

// Channels returns 3 for RGB/BGR and 4 for the alpha-carrying formats
func (p PixelFormat) Channels() int {
	if !p.Valid() {
		return 0
	}
	return pixelFormats[p].channels
}

// HasAlpha reports whether p stores an alpha channel
func (p PixelFormat) HasAlpha() bool {
	return p.Valid() && pixelFormats[p].a >= 0
}

// Offsets returns the byte offsets of the R, G, B and A channels within a
// pixel. a is -1 for three-channel formats.
func (p PixelFormat) Offsets() (r, g, b, a int) {
	info := pixelFormats[p]
	return info.r, info.g, info.b, info.a
}

// BytesPerPixel returns the size of one pixel of p stored as dt
func (p PixelFormat) BytesPerPixel(dt DataType) int {
	return p.Channels() * dt.BytesPerChannel()
}

// DataType is the numeric type of each output channel
type DataType int

// Supported output data types, in ordinal order
const (
	Uint8 DataType = iota
	Float32
)

var dataTypes = [...]struct {
	name  string
	bytes int
}{
	Uint8:   {name: "uint8", bytes: 1},
	Float32: {name: "float32", bytes: 4},
}

// ParseDataType resolves "uint8" or "float32"
func ParseDataType(s string) (DataType, error) {
	for i, info := range dataTypes {
		if info.name == s {
			return DataType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// DataTypeFromOrdinal converts a native ordinal back into a DataType
func DataTypeFromOrdinal(ordinal int) (DataType, bool) {
	d := DataType(ordinal)
	return d, d.Valid()
}

// Valid reports whether d is one of the declared data types
func (d DataType) Valid() bool {
	return d >= 0 && int(d) < len(dataTypes)
}

// Ordinal returns the position of d in the shared schema
func (d DataType) Ordinal() int {
	return int(d)
}

func (d DataType) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DataType(%d)", int(d))
	}
	return dataTypes[d].name
}

// BytesPerChannel returns 1 for Uint8 and 4 for Float32
func (d DataType) BytesPerChannel() int {
	if !d.Valid() {
		return 0
	}
	return dataTypes[d].bytes
}

// SourceLayout is the memory layout of an incoming camera frame. The values
// match the platform image-format codes delivered by the camera subsystem.
type SourceLayout int

// Source layouts the pipeline can consume
const (
	RGBA8888 SourceLayout = 1
	YUV420   SourceLayout = 35
)

// ParseSourceLayout resolves a layout name such as "yuv420" or "rgba8888"
func ParseSourceLayout(s string) (SourceLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yuv", "yuv420", "yuv (4:2:0)", "i420":
		return YUV420, nil
	case "rgba", "rgba8888":
		return RGBA8888, nil
	}
	return 0, fmt.Errorf("unknown source layout %q", s)
}

// Valid reports whether l is a layout the pipeline can consume
func (l SourceLayout) Valid() bool {
	return l == YUV420 || l == RGBA8888
}

func (l SourceLayout) String() string {
	switch l {
	case YUV420:
		return "yuv420"
	case RGBA8888:
		return "rgba8888"
	}
	return fmt.Sprintf("SourceLayout(%d)", int(l))
}

// Planes returns the number of planes a frame of layout l carries
func (l SourceLayout) Planes() int {
	switch l {
	case YUV420:
		return 3
	case RGBA8888:
		return 1
	}
	return 0
}

// FrameSize returns the tightly packed byte size of a w x h frame in layout l
func (l SourceLayout) FrameSize(w, h int) int {
	switch l {
	case YUV420:
		return I420Size(w, h)
	case RGBA8888:
		return w * h * 4
	}
	return 0
}

// ChromaSize returns the dimensions of a 4:2:0 chroma plane for a w x h image.
// Odd dimensions round up so that every luma sample has a chroma sample.
func ChromaSize(w, h int) (int, int) {
	return (w + 1) / 2, (h + 1) / 2
}

// I420Size returns the byte size of a tightly packed planar 4:2:0 image,
// which is w*h*1.5 for even dimensions
func I420Size(w, h int) int {
	cw, ch := ChromaSize(w, h)
	return w*h + 2*cw*ch
}

// Rotation is a clockwise rotation in degrees
type Rotation int

// Supported rotations
const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// ParseRotation resolves "0deg", "90deg", "180deg" or "270deg"
func ParseRotation(s string) (Rotation, error) {
	switch s {
	case "0deg":
		return Rotation0, nil
	case "90deg":
		return Rotation90, nil
	case "180deg":
		return Rotation180, nil
	case "270deg":
		return Rotation270, nil
	}
	return 0, fmt.Errorf("unknown rotation %q", s)
}

// Valid reports whether r is a right-angle rotation
func (r Rotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	}
	return false
}

// SwapsAxes reports whether r exchanges width and height
func (r Rotation) SwapsAxes() bool {
	return r == Rotation90 || r == Rotation270
}

// Degrees returns r as an integer number of degrees
func (r Rotation) Degrees() int {
	return int(r)
}

func (r Rotation) String() string {
	return fmt.Sprintf("%ddeg", int(r))
}
