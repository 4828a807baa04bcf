// Package request turns the loosely-typed option objects delivered by the
// host runtime into typed transform requests.
package request

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/types"
)

// Recognized option keys
const (
	KeyCrop        = "crop"
	KeyScale       = "scale"
	KeyRotation    = "rotation"
	KeyMirror      = "mirror"
	KeyPixelFormat = "pixelFormat"
	KeyDataType    = "dataType"
)

// Options is the loosely-typed option object, e.g.
//
//	{"scale": {"width": 192, "height": 192}, "pixelFormat": "rgb", "dataType": "float32"}
type Options = map[string]any

// Parse validates options and builds a TransformRequest. Absent rotation
// defaults to 0deg and absent mirror to false; every other malformed or
// unrecognized value fails with types.ErrInvalidRequest.
func Parse(options Options) (types.TransformRequest, error) {
	req := types.DefaultRequest()
	if options == nil {
		return req, fmt.Errorf("%w: options cannot be nil", types.ErrInvalidRequest)
	}

	if v, ok := options[KeyCrop]; ok && v != nil {
		crop, err := parseCrop(v)
		if err != nil {
			return req, err
		}
		req.Crop = crop
	}

	if v, ok := options[KeyScale]; ok && v != nil {
		m, err := asMap(KeyScale, v)
		if err != nil {
			return req, err
		}
		w, h, err := dimensions(KeyScale, m)
		if err != nil {
			return req, err
		}
		req.Scale = &types.Size{Width: w, Height: h}
	}

	if v, ok := options[KeyRotation]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return req, fmt.Errorf("%w: rotation must be a string, got %T", types.ErrInvalidRequest, v)
		}
		r, err := format.ParseRotation(s)
		if err != nil {
			return req, fmt.Errorf("%w: %v", types.ErrInvalidRequest, err)
		}
		req.Rotation = r
	}

	if v, ok := options[KeyMirror]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return req, fmt.Errorf("%w: mirror must be a bool, got %T", types.ErrInvalidRequest, v)
		}
		req.Mirror = b
	}

	pf, err := requiredString(options, KeyPixelFormat)
	if err != nil {
		return req, err
	}
	if req.PixelFormat, err = format.ParsePixelFormat(pf); err != nil {
		return req, fmt.Errorf("%w: %v", types.ErrInvalidRequest, err)
	}

	dt, err := requiredString(options, KeyDataType)
	if err != nil {
		return req, err
	}
	if req.DataType, err = format.ParseDataType(dt); err != nil {
		return req, fmt.Errorf("%w: %v", types.ErrInvalidRequest, err)
	}

	return req, nil
}

// Encode converts req back into an option object that Parse accepts
func Encode(req types.TransformRequest) Options {
	out := Options{
		KeyRotation:    req.Rotation.String(),
		KeyMirror:      req.Mirror,
		KeyPixelFormat: req.PixelFormat.String(),
		KeyDataType:    req.DataType.String(),
	}
	if req.Crop != nil {
		crop := map[string]any{"width": req.Crop.Width, "height": req.Crop.Height}
		if !req.Crop.Centered {
			crop["x"] = req.Crop.X
			crop["y"] = req.Crop.Y
		}
		out[KeyCrop] = crop
	}
	if req.Scale != nil {
		out[KeyScale] = map[string]any{"width": req.Scale.Width, "height": req.Scale.Height}
	}
	return out
}

func parseCrop(v any) (*types.Crop, error) {
	m, err := asMap(KeyCrop, v)
	if err != nil {
		return nil, err
	}
	w, h, err := dimensions(KeyCrop, m)
	if err != nil {
		return nil, err
	}
	crop := &types.Crop{Rect: types.Rect{Width: w, Height: h}}

	xv, hasX := m["x"]
	yv, hasY := m["y"]
	hasX = hasX && xv != nil
	hasY = hasY && yv != nil
	switch {
	case !hasX && !hasY:
		crop.Centered = true
	case hasX != hasY:
		return nil, fmt.Errorf("%w: crop needs both x and y, or neither", types.ErrInvalidRequest)
	default:
		x, ok := toInt(xv)
		if !ok {
			return nil, fmt.Errorf("%w: crop.x is not a number in int32 range (%v)", types.ErrInvalidRequest, xv)
		}
		y, ok := toInt(yv)
		if !ok {
			return nil, fmt.Errorf("%w: crop.y is not a number in int32 range (%v)", types.ErrInvalidRequest, yv)
		}
		crop.X, crop.Y = x, y
	}
	return crop, nil
}

func asMap(key string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object, got %T", types.ErrInvalidRequest, key, v)
	}
	return m, nil
}

func dimensions(key string, m map[string]any) (int, int, error) {
	wv, ok := m["width"]
	if !ok || wv == nil {
		return 0, 0, fmt.Errorf("%w: %s.width is missing", types.ErrInvalidRequest, key)
	}
	hv, ok := m["height"]
	if !ok || hv == nil {
		return 0, 0, fmt.Errorf("%w: %s.height is missing", types.ErrInvalidRequest, key)
	}
	w, ok := toInt(wv)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s.width is not a number in int32 range (%v)", types.ErrInvalidRequest, key, wv)
	}
	h, ok := toInt(hv)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s.height is not a number in int32 range (%v)", types.ErrInvalidRequest, key, hv)
	}
	return w, h, nil
}

func requiredString(options Options, key string) (string, error) {
	v, ok := options[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s is missing", types.ErrInvalidRequest, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", types.ErrInvalidRequest, key, v)
	}
	return s, nil
}

// toInt accepts any Go number or json.Number within the int32 range.
// Fractions are truncated toward zero.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return intInRange(int64(n))
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return intInRange(n)
	case uint:
		return uintInRange(uint64(n))
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return uintInRange(uint64(n))
	case uint64:
		return uintInRange(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return intInRange(i)
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

func intInRange(n int64) (int, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func uintInRange(n uint64) (int, bool) {
	if n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
