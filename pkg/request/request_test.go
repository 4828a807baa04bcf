package request

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		want    types.TransformRequest
	}{
		{
			name:    "minimal",
			options: Options{"pixelFormat": "rgba", "dataType": "uint8"},
			want:    types.TransformRequest{PixelFormat: format.RGBA, DataType: format.Uint8},
		},
		{
			name: "scale only",
			options: Options{
				"scale":       map[string]any{"width": 64, "height": 64},
				"pixelFormat": "rgb",
				"dataType":    "float32",
			},
			want: types.TransformRequest{
				Scale:       &types.Size{Width: 64, Height: 64},
				PixelFormat: format.RGB,
				DataType:    format.Float32,
			},
		},
		{
			name: "everything",
			options: Options{
				"crop":        map[string]any{"x": 10, "y": 20.0, "width": int64(300), "height": float32(200)},
				"scale":       map[string]any{"width": 150, "height": 100},
				"rotation":    "270deg",
				"mirror":      true,
				"pixelFormat": "abgr",
				"dataType":    "uint8",
			},
			want: types.TransformRequest{
				Crop:        &types.Crop{Rect: types.Rect{X: 10, Y: 20, Width: 300, Height: 200}},
				Scale:       &types.Size{Width: 150, Height: 100},
				Rotation:    format.Rotation270,
				Mirror:      true,
				PixelFormat: format.ABGR,
				DataType:    format.Uint8,
			},
		},
		{
			name: "centered crop",
			options: Options{
				"crop":        map[string]any{"width": 100, "height": 50},
				"pixelFormat": "bgra",
				"dataType":    "uint8",
			},
			want: types.TransformRequest{
				Crop:        &types.Crop{Rect: types.Rect{Width: 100, Height: 50}, Centered: true},
				PixelFormat: format.BGRA,
				DataType:    format.Uint8,
			},
		},
		{
			name: "fractions truncate and unknown keys are ignored",
			options: Options{
				"scale":       map[string]any{"width": 99.9, "height": json.Number("42")},
				"quality":     "high",
				"pixelFormat": "bgr",
				"dataType":    "uint8",
			},
			want: types.TransformRequest{
				Scale:       &types.Size{Width: 99, Height: 42},
				PixelFormat: format.BGR,
				DataType:    format.Uint8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.options)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		options Options
	}{
		{"nil options", nil},
		{"missing pixel format", Options{"dataType": "uint8"}},
		{"missing data type", Options{"pixelFormat": "rgba"}},
		{"unknown pixel format", Options{"pixelFormat": "rgb565", "dataType": "uint8"}},
		{"unknown data type", Options{"pixelFormat": "rgba", "dataType": "float16"}},
		{"pixel format not a string", Options{"pixelFormat": 3, "dataType": "uint8"}},
		{"unknown rotation", Options{"rotation": "45deg", "pixelFormat": "rgba", "dataType": "uint8"}},
		{"numeric rotation", Options{"rotation": 90, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"mirror not a bool", Options{"mirror": "yes", "pixelFormat": "rgba", "dataType": "uint8"}},
		{"scale missing height", Options{"scale": map[string]any{"width": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"scale not an object", Options{"scale": "64x64", "pixelFormat": "rgba", "dataType": "uint8"}},
		{"scale width not a number", Options{"scale": map[string]any{"width": "10", "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"crop missing width", Options{"crop": map[string]any{"x": 0, "y": 0, "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"crop with only x", Options{"crop": map[string]any{"x": 0, "width": 10, "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"crop x not a number", Options{"crop": map[string]any{"x": "0", "y": 0, "width": 10, "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"scale json number past int32", Options{"scale": map[string]any{"width": json.Number("4294967296"), "height": json.Number("4294967296")}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"scale int64 past int32", Options{"scale": map[string]any{"width": int64(1) << 40, "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"scale uint64 wrapping negative", Options{"scale": map[string]any{"width": uint64(18446744073709551615), "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
		{"crop y float past int32", Options{"crop": map[string]any{"x": 0, "y": 1e12, "width": 10, "height": 10}, "pixelFormat": "rgba", "dataType": "uint8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.options)
			if !errors.Is(err, types.ErrInvalidRequest) {
				t.Errorf("Expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	req, err := Parse(Options{"rotation": nil, "mirror": nil, "pixelFormat": "rgba", "dataType": "uint8"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if req.Rotation != format.Rotation0 {
		t.Errorf("Expected rotation 0deg, got %v", req.Rotation)
	}
	if req.Mirror {
		t.Error("Expected mirror to default to false")
	}
}

func TestEncodeParse(t *testing.T) {
	reqs := []types.TransformRequest{
		types.DefaultRequest(),
		{
			Crop:        &types.Crop{Rect: types.Rect{X: 420, Y: 0, Width: 1080, Height: 1080}},
			Scale:       &types.Size{Width: 300, Height: 300},
			Rotation:    format.Rotation90,
			Mirror:      true,
			PixelFormat: format.ARGB,
			DataType:    format.Float32,
		},
		{
			Crop:        &types.Crop{Rect: types.Rect{Width: 64, Height: 32}, Centered: true},
			PixelFormat: format.BGR,
			DataType:    format.Uint8,
		},
	}

	for _, req := range reqs {
		got, err := Parse(Encode(req))
		if err != nil {
			t.Fatalf("Parse(Encode(%+v)) failed: %v", req, err)
		}
		if diff := cmp.Diff(req, got); diff != "" {
			t.Errorf("Encoded request changed (-want +got):\n%s", diff)
		}
	}
}
