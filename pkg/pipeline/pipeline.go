// Package pipeline runs the full frame transformation for one camera session:
// plan the geometry, crop and scale into a scratch image, convert into the
// packed target format and optionally requantize to float32.
//
// A Pipeline owns its buffers and hands the output buffer back to the caller.
// That buffer stays valid until the next call on the same Pipeline, which
// may overwrite it. Calls are serialized internally; for parallel processing
// create one Pipeline per session.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/menta2k/frame-resizer/pkg/buffers"
	"github.com/menta2k/frame-resizer/pkg/colorconv"
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/geometry"
	"github.com/menta2k/frame-resizer/pkg/request"
	"github.com/menta2k/frame-resizer/pkg/requant"
	"github.com/menta2k/frame-resizer/pkg/scaler"
	"github.com/menta2k/frame-resizer/pkg/types"
)

// Config holds configuration for a pipeline instance
type Config struct {
	// ColorRange is the YUV range assumed for every frame of the session
	ColorRange colorconv.ColorRange
	// Logger receives debug output. Nil discards everything.
	Logger *slog.Logger
	// SessionID tags log records. A random id is generated when empty.
	SessionID string
}

// DefaultConfig returns a limited-range configuration with logging disabled
func DefaultConfig() Config {
	return Config{ColorRange: colorconv.RangeLimited}
}

// Result is the output of one call
type Result struct {
	// Data is owned by the pipeline and valid until the next call
	Data        []byte
	Width       int
	Height      int
	Stride      int
	PixelFormat format.PixelFormat
	DataType    format.DataType
	Plan        geometry.Plan
}

// Pipeline transforms camera frames
type Pipeline struct {
	mu        sync.Mutex
	cache     *buffers.Cache
	rgba      *scaler.RGBAScaler
	converter *colorconv.Converter
	logger    *slog.Logger
	session   string
}

// New creates a pipeline with the default configuration
func New() *Pipeline {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a pipeline with custom configuration
func NewWithConfig(config Config) *Pipeline {
	session := config.SessionID
	if session == "" {
		session = uuid.NewString()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("session", session)

	p := &Pipeline{
		cache:     buffers.New(),
		rgba:      scaler.NewRGBAScaler(),
		converter: colorconv.New(config.ColorRange),
		logger:    logger,
		session:   session,
	}
	p.cache.OnAllocate(func(name string, size int) {
		p.logger.Debug("allocating buffer", "slot", name, "size", size)
	})
	return p
}

// SessionID returns the id attached to the pipeline's log records
func (p *Pipeline) SessionID() string {
	return p.session
}

// ColorRange returns the YUV range the pipeline decodes with
func (p *Pipeline) ColorRange() colorconv.ColorRange {
	return p.converter.Range()
}

// Run transforms frame according to req and returns the output bytes
func (p *Pipeline) Run(frame types.SourceFrame, req types.TransformRequest) ([]byte, error) {
	res, err := p.RunResult(frame, req)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// RunOptions parses a loosely typed option map and runs it
func (p *Pipeline) RunOptions(frame types.SourceFrame, options request.Options) ([]byte, error) {
	req, err := request.Parse(options)
	if err != nil {
		return nil, err
	}
	return p.Run(frame, req)
}

// RunResult transforms frame according to req and describes the output.
//
// Every check happens before any buffer is touched, so a failed call leaves
// the output of the previous call intact.
func (p *Pipeline) RunResult(frame types.SourceFrame, req types.TransformRequest) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	plan, err := p.prepare(frame, req)
	if err != nil {
		p.logger.Debug("transform rejected", "category", types.Category(err).String(), "error", err)
		return Result{}, err
	}
	if p.logger.Enabled(context.Background(), slog.LevelDebug) {
		p.logger.Debug("transform", "layout", frame.Layout.String(), "plan", plan.String(),
			"format", req.PixelFormat.String(), "type", req.DataType.String())
	}

	pf := req.PixelFormat
	w, h := plan.Scale.Width, plan.Scale.Height
	packed := p.cache.Output.Acquire(w * h * pf.Channels())

	switch frame.Layout {
	case format.YUV420:
		scratch := scaler.NewI420(p.cache.Scratch.Acquire(format.I420Size(w, h)), w, h)
		scaler.ScaleI420(scratch, scaler.CropI420(frame, plan.Crop))
		p.converter.FromI420(packed, scratch, pf, plan.Rotation, plan.Mirror)
	case format.RGBA8888:
		scratch := p.cache.Scratch.Acquire(w * h * 4)
		p.rgba.Scale(scratch, w, h, frame, plan.Crop)
		p.converter.FromRGBA(packed, scratch, w, h, pf, plan.Rotation, plan.Mirror)
	}

	data := packed
	if req.DataType == format.Float32 {
		data = p.cache.Float.Acquire(requant.FloatSize(len(packed)))
		requant.ToFloat32(data, packed)
	}

	out := plan.OutputSize()
	return Result{
		Data:        data,
		Width:       out.Width,
		Height:      out.Height,
		Stride:      out.Width * pf.BytesPerPixel(req.DataType),
		PixelFormat: pf,
		DataType:    req.DataType,
		Plan:        plan,
	}, nil
}

// prepare validates the frame and request and resolves the geometry
func (p *Pipeline) prepare(frame types.SourceFrame, req types.TransformRequest) (geometry.Plan, error) {
	if err := frame.Validate(); err != nil {
		return geometry.Plan{}, err
	}
	if err := p.converter.Supports(frame.Layout, req.PixelFormat); err != nil {
		return geometry.Plan{}, err
	}
	if !req.DataType.Valid() {
		return geometry.Plan{}, fmt.Errorf("%w: data type %v", types.ErrUnsupportedConversion, req.DataType)
	}
	return geometry.NewPlan(frame.Size(), req)
}

// Cache exposes the pipeline's buffer cache for inspection
func (p *Pipeline) Cache() *buffers.Cache {
	return p.cache
}

// Allocations returns how many buffer allocations the pipeline has made
func (p *Pipeline) Allocations() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Allocations()
}

// Release drops all cached buffers, for example when a session goes idle.
// The next call allocates again.
func (p *Pipeline) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Release()
}
