package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	frameresizer "github.com/menta2k/frame-resizer"
	"github.com/menta2k/frame-resizer/internal/config"
	"github.com/menta2k/frame-resizer/internal/utils"
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/framefile"
	"github.com/menta2k/frame-resizer/pkg/pipeline"
	"github.com/menta2k/frame-resizer/pkg/request"
	"github.com/menta2k/frame-resizer/pkg/types"
)

func main() {
	var in, outDir, cfgPath, layoutName string
	var cropArg, scaleArg, rotation, pixelFormat, dataType string
	var mirror, mkconf, verbose bool
	var iterations, maxSize int

	flag.StringVar(&in, "in", "", "input image or directory (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "", "directory for raw output dumps (default: output.output_dir when -config is set)")
	flag.StringVar(&cfgPath, "config", "", "config file (yml or json)")
	flag.StringVar(&layoutName, "layout", "", "source frame layout: yuv420|rgba8888")

	flag.StringVar(&cropArg, "crop", "", "crop rectangle x,y,w,h or centered w,h")
	flag.StringVar(&scaleArg, "scale", "", "target size WxH")
	flag.StringVar(&rotation, "rotation", "", "clockwise rotation: 0deg|90deg|180deg|270deg")
	flag.BoolVar(&mirror, "mirror", false, "flip the output horizontally")
	flag.StringVar(&pixelFormat, "format", "", "pixel format: rgb|bgr|argb|rgba|bgra|abgr")
	flag.StringVar(&dataType, "type", "", "data type: uint8|float32")

	flag.IntVar(&iterations, "n", 1, "number of timed iterations per image")
	flag.IntVar(&maxSize, "maxsize", 0, "downsize inputs so the long side is at most this many px, 0=original")
	flag.BoolVar(&mkconf, "mkconf", false, "write the default config to -config (or the default path) and exit")
	flag.BoolVar(&verbose, "v", false, "debug logging")

	flag.Parse()

	if mkconf {
		path := cfgPath
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := config.Default().SaveToFile(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", path)
		return
	}

	if in == "" {
		log.Fatalf("usage: %s -in frame.jpg|dir [-config cfg.yml] [-layout yuv420|rgba8888] [-crop x,y,w,h] [-scale WxH] [-rotation 90deg] [-mirror] [-format rgba] [-type float32] [-n 100] [-out outdir]", filepath.Base(os.Args[0]))
	}

	if iterations < 1 {
		iterations = 1
	}

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Command line flags override config defaults
	opts := cfg.DefaultOptions()
	if cropArg != "" {
		crop, err := parseCrop(cropArg)
		if err != nil {
			log.Fatal(err)
		}
		opts[request.KeyCrop] = crop
	}
	if scaleArg != "" {
		w, h, err := parseSize(scaleArg)
		if err != nil {
			log.Fatal(err)
		}
		opts[request.KeyScale] = map[string]any{"width": w, "height": h}
	}
	if rotation != "" {
		opts[request.KeyRotation] = rotation
	}
	if mirror {
		opts[request.KeyMirror] = true
	}
	if pixelFormat != "" {
		opts[request.KeyPixelFormat] = strings.ToLower(pixelFormat)
	}
	if dataType != "" {
		opts[request.KeyDataType] = strings.ToLower(dataType)
	}

	req, err := request.Parse(opts)
	if err != nil {
		log.Fatal(err)
	}

	if layoutName == "" {
		layoutName = cfg.Defaults.Layout
	}
	layout, err := format.ParseSourceLayout(layoutName)
	if err != nil {
		log.Fatal(err)
	}

	pcfg, err := cfg.PipelineConfig()
	if err != nil {
		log.Fatal(err)
	}
	pcfg.Logger = newLogger(cfg.Pipeline.LogLevel, verbose)
	resizer := frameresizer.NewWithConfig(pcfg, framefile.New())

	inputs, err := utils.ResolveInputs(in)
	if err != nil {
		log.Fatal(err)
	}
	if len(inputs) == 0 {
		log.Fatalf("no images found in %s", in)
	}
	if outDir == "" && cfgPath != "" {
		outDir = cfg.Output.OutputDir
	}
	writeRaw := outDir != ""
	if writeRaw {
		if err := utils.EnsureDir(outDir); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("frame-resizer %s session=%s range=%v request: %v",
		frameresizer.GetVersion(), resizer.SessionID(), resizer.ColorRange(), request.Encode(req))

	for _, path := range inputs {
		img, err := resizer.LoadImage(path)
		if err != nil {
			log.Printf("load %s failed: %v", path, err)
			continue
		}
		if maxSize > 0 {
			img = framefile.Fit(img, maxSize, maxSize)
		}
		frame, err := resizer.FrameFromImage(img, layout)
		if err != nil {
			log.Printf("convert %s failed: %v", path, err)
			continue
		}

		var total time.Duration
		var failed bool
		var res pipeline.Result
		for i := 0; i < iterations; i++ {
			start := time.Now()
			res, err = resizer.ResizeRequest(frame, req)
			total += time.Since(start)
			if err != nil {
				log.Printf("transform %s failed (%s): %v", path, types.Category(err), err)
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		avg := total / time.Duration(iterations)
		log.Printf("%s: %dx%d %v -> %dx%d %v/%v, %s, avg %v over %d runs, allocations %d",
			path, frame.Width, frame.Height, frame.Layout, res.Width, res.Height,
			req.PixelFormat, req.DataType, utils.FormatFileSize(int64(len(res.Data))),
			avg, iterations, resizer.Allocations())

		if writeRaw {
			rawPath := utils.RawOutputFilename(path, outDir, cfg.Output.Prefix, cfg.Output.Suffix,
				res.Width, res.Height, req.PixelFormat, req.DataType)
			if err := os.WriteFile(rawPath, res.Data, 0o644); err != nil {
				log.Printf("save %s failed: %v", rawPath, err)
			} else {
				log.Printf("wrote %s", rawPath)
			}
		}
	}
}

func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// parseCrop parses "x,y,w,h" or a centered "w,h"
func parseCrop(s string) (map[string]any, error) {
	nums, err := parseInts(s, ",")
	if err != nil {
		return nil, fmt.Errorf("invalid crop %q: %w", s, err)
	}
	switch len(nums) {
	case 2:
		return map[string]any{"width": nums[0], "height": nums[1]}, nil
	case 4:
		return map[string]any{"x": nums[0], "y": nums[1], "width": nums[2], "height": nums[3]}, nil
	}
	return nil, fmt.Errorf("invalid crop %q: want x,y,w,h or w,h", s)
}

// parseSize parses "WxH"
func parseSize(s string) (int, int, error) {
	nums, err := parseInts(strings.ToLower(s), "x")
	if err != nil || len(nums) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q: want WxH", s)
	}
	return nums[0], nums[1], nil
}

func parseInts(s, sep string) ([]int, error) {
	parts := strings.Split(s, sep)
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}
