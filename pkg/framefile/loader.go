// Package framefile loads still images from disk and turns them into camera
// frames, so the pipeline can be exercised without a camera. It also renders
// pipeline output back into images for inspection.
package framefile

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Loader decodes image files
type Loader struct {
	config Config
}

// Config holds configuration for the loader
type Config struct {
	SupportedFormats []string
	// AutoOrient applies the EXIF orientation tag of JPEG files
	AutoOrient bool
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// New creates a new Loader with default configuration
func New() *Loader {
	return &Loader{
		config: Config{
			SupportedFormats: []string{"jpg", "jpeg", "png", "webp"},
			AutoOrient:       true,
		},
	}
}

// NewWithConfig creates a new Loader with custom configuration
func NewWithConfig(config Config) *Loader {
	return &Loader{config: config}
}

// LoadImage loads an image from a file path with WebP support
func (l *Loader) LoadImage(path string) (image.Image, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !l.isFormatSupported(ext) {
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}

	if img, err := imaging.Open(path, imaging.AutoOrientation(l.config.AutoOrient)); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return l.decode(data)
}

// LoadImageFromReader loads an image from an io.Reader
func (l *Loader) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return l.decode(data)
}

func (l *Loader) decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// GetImageInfo returns basic information about an image
func (l *Loader) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	return ImageInfo{
		Width:       width,
		Height:      height,
		AspectRatio: float64(width) / float64(height),
		Area:        width * height,
	}
}

// Fit downsizes img to fit within maxWidth x maxHeight, keeping its aspect
// ratio. Images that already fit are returned unchanged.
func Fit(img image.Image, maxWidth, maxHeight int) image.Image {
	if maxWidth <= 0 || maxHeight <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxWidth && b.Dy() <= maxHeight {
		return img
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}

func (l *Loader) isFormatSupported(format string) bool {
	for _, supported := range l.config.SupportedFormats {
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}
