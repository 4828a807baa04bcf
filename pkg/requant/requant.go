// Package requant widens 8-bit channel values to normalized 32-bit floats
// and back.
//
// Floats are stored as IEEE-754 binary32 in little-endian byte order, the
// layout expected by tensor inputs on the platforms we target. Every byte
// value v becomes v/255, so 0 maps to 0.0 and 255 maps to 1.0 exactly.
package requant

import (
	"encoding/binary"
	"math"
)

// BytesPerFloat is the size of one output channel value
const BytesPerFloat = 4

// table holds the binary32 bit pattern of v/255 for every byte value
var table = func() (t [256]uint32) {
	for v := range t {
		t[v] = math.Float32bits(float32(v) / 255)
	}
	return t
}()

// FloatSize returns the number of bytes ToFloat32 writes for n channel values
func FloatSize(n int) int {
	return n * BytesPerFloat
}

// ToFloat32 writes src[i]/255 as a little-endian float32 at dst[4i:4i+4].
// dst must hold at least FloatSize(len(src)) bytes.
func ToFloat32(dst, src []byte) {
	_ = dst[:FloatSize(len(src))]
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*BytesPerFloat:], table[v])
	}
}

// Dequantize is the inverse of ToFloat32: every little-endian float32 in src
// is scaled by 255, rounded and clamped to a byte. dst must hold
// len(src)/4 bytes.
func Dequantize(dst, src []byte) {
	n := len(src) / BytesPerFloat
	_ = dst[:n]
	for i := 0; i < n; i++ {
		f := math.Float32frombits(binary.LittleEndian.Uint32(src[i*BytesPerFloat:]))
		dst[i] = toByte(f)
	}
}

// Float32s decodes a little-endian float32 buffer
func Float32s(buf []byte) []float32 {
	out := make([]float32, len(buf)/BytesPerFloat)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*BytesPerFloat:]))
	}
	return out
}

func toByte(f float32) byte {
	if f != f || f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return byte(math.Round(float64(f) * 255))
}
