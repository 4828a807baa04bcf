// Package frameresizer transforms camera frames into model- and
// renderer-ready pixel buffers.
//
// One call crops, scales, rotates and mirrors a YUV 4:2:0 or RGBA8888 frame,
// converts it into one of six packed RGB-family formats and optionally
// requantizes it to normalized float32.
//
// Basic usage:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//
//		frameresizer "github.com/menta2k/frame-resizer"
//		"github.com/menta2k/frame-resizer/pkg/format"
//	)
//
//	func main() {
//		resizer := frameresizer.New()
//
//		// Load a still image as a YUV camera frame
//		frame, err := resizer.LoadFrame("photo.jpg", format.YUV420)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// 192x192 center crop as normalized float32 RGB
//		out, err := resizer.Resize(frame, map[string]any{
//			"scale":       map[string]any{"width": 192, "height": 192},
//			"pixelFormat": "rgb",
//			"dataType":    "float32",
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("got %d bytes\n", len(out))
//	}
//
// The package consists of these components:
//
// 1. Format (pkg/format): pixel formats, data types and their byte costs
// 2. Geometry (pkg/geometry): crop, scale and orientation planning
// 3. Scaler (pkg/scaler): bilinear resampling of YUV planes and RGBA frames
// 4. Color conversion (pkg/colorconv): YUV/RGBA to packed formats
// 5. Requantization (pkg/requant): uint8 to float32
// 6. Pipeline (pkg/pipeline): the ordered transform with buffer reuse
//
// Output buffers are reused between calls. Copy the result if it has to
// outlive the next call on the same Resizer.
package frameresizer

import (
	"fmt"
	"image"

	"github.com/menta2k/frame-resizer/pkg/colorconv"
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/framefile"
	"github.com/menta2k/frame-resizer/pkg/pipeline"
	"github.com/menta2k/frame-resizer/pkg/request"
	"github.com/menta2k/frame-resizer/pkg/types"
)

// Version of the frame resizer library
const Version = "1.0.0"

// Resizer provides a high-level interface over one pipeline instance
type Resizer struct {
	pipeline *pipeline.Pipeline
	loader   *framefile.Loader
	rng      colorconv.ColorRange
}

// New creates a new Resizer with default configuration
func New() *Resizer {
	return NewWithConfig(pipeline.DefaultConfig(), framefile.New())
}

// NewWithConfig creates a new Resizer with custom configuration
func NewWithConfig(config pipeline.Config, loader *framefile.Loader) *Resizer {
	if loader == nil {
		loader = framefile.New()
	}
	return &Resizer{
		pipeline: pipeline.NewWithConfig(config),
		loader:   loader,
		rng:      config.ColorRange,
	}
}

// Resize transforms frame according to a loosely typed option object
func (r *Resizer) Resize(frame types.SourceFrame, options request.Options) ([]byte, error) {
	return r.pipeline.RunOptions(frame, options)
}

// ResizeRequest transforms frame according to a typed request
func (r *Resizer) ResizeRequest(frame types.SourceFrame, req types.TransformRequest) (pipeline.Result, error) {
	return r.pipeline.RunResult(frame, req)
}

// LoadImage loads an image from file
func (r *Resizer) LoadImage(path string) (image.Image, error) {
	return r.loader.LoadImage(path)
}

// LoadFrame loads an image file and converts it to a camera frame using the
// Resizer's color range
func (r *Resizer) LoadFrame(path string, layout format.SourceLayout) (types.SourceFrame, error) {
	img, err := r.loader.LoadImage(path)
	if err != nil {
		return types.SourceFrame{}, fmt.Errorf("failed to load frame: %w", err)
	}
	return framefile.ToSourceFrame(img, layout, r.rng)
}

// FrameFromImage converts an in-memory image to a camera frame
func (r *Resizer) FrameFromImage(img image.Image, layout format.SourceLayout) (types.SourceFrame, error) {
	return framefile.ToSourceFrame(img, layout, r.rng)
}

// Render turns a result back into an image for inspection
func (r *Resizer) Render(res pipeline.Result) (*image.NRGBA, error) {
	// rotated results are already laid out in output orientation
	return framefile.FromOutput(res.Data, res.Width, res.Height, res.PixelFormat, res.DataType)
}

// GetImageInfo returns basic information about an image
func (r *Resizer) GetImageInfo(img image.Image) framefile.ImageInfo {
	return r.loader.GetImageInfo(img)
}

// Allocations returns how many buffers the underlying pipeline has allocated
func (r *Resizer) Allocations() uint64 {
	return r.pipeline.Allocations()
}

// SessionID returns the id of the underlying pipeline
func (r *Resizer) SessionID() string {
	return r.pipeline.SessionID()
}

// ColorRange returns the YUV range used for frames of this Resizer
func (r *Resizer) ColorRange() colorconv.ColorRange {
	return r.pipeline.ColorRange()
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
