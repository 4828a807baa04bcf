package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/menta2k/frame-resizer/pkg/colorconv"
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/request"
	"github.com/menta2k/frame-resizer/pkg/types"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default configuration is invalid: %v", err)
	}
	if cfg.Pipeline.ColorRange != "bt601-limited" {
		t.Errorf("Expected bt601-limited, got %s", cfg.Pipeline.ColorRange)
	}
	if cfg.Defaults.PixelFormat != "rgba" || cfg.Defaults.DataType != "uint8" {
		t.Errorf("Unexpected default format %s/%s", cfg.Defaults.PixelFormat, cfg.Defaults.DataType)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `pipeline:
  color_range: full
defaults:
  pixel_format: bgr
  data_type: float32
  scale_width: 224
  scale_height: 224
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	want := Default()
	want.Pipeline.ColorRange = "full"
	want.Defaults.PixelFormat = "bgr"
	want.Defaults.DataType = "float32"
	want.Defaults.ScaleWidth = 224
	want.Defaults.ScaleHeight = 224
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadFromFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"defaults": {"rotation": "90deg", "mirror": true}, "output": {"prefix": "cam_"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Defaults.Rotation != "90deg" || !cfg.Defaults.Mirror {
		t.Errorf("Expected 90deg mirrored, got %s mirror=%t", cfg.Defaults.Rotation, cfg.Defaults.Mirror)
	}
	if cfg.Output.Prefix != "cam_" || cfg.Output.Suffix != "_frame" {
		t.Errorf("Unexpected output config %+v", cfg.Output)
	}
	if cfg.Defaults.Layout != "yuv420" {
		t.Errorf("Expected default layout to survive, got %s", cfg.Defaults.Layout)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFromFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("Expected error for missing file")
	}

	toml := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(toml, []byte("a = 1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(toml); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("Expected unsupported file type error, got %v", err)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(broken); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"nested/config.yml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Pipeline.LogLevel = "debug"
			cfg.Defaults.Rotation = "270deg"
			cfg.Defaults.ScaleWidth = 320
			cfg.Defaults.ScaleHeight = 240
			if err := cfg.SaveToFile(path); err != nil {
				t.Fatalf("SaveToFile failed: %v", err)
			}

			loaded, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile failed: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded); diff != "" {
				t.Errorf("Round trip mismatch (-saved +loaded):\n%s", diff)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"color range", func(c *Config) { c.Pipeline.ColorRange = "bt709" }},
		{"log level", func(c *Config) { c.Pipeline.LogLevel = "trace" }},
		{"layout", func(c *Config) { c.Defaults.Layout = "nv16" }},
		{"pixel format", func(c *Config) { c.Defaults.PixelFormat = "rgb565" }},
		{"data type", func(c *Config) { c.Defaults.DataType = "float16" }},
		{"rotation", func(c *Config) { c.Defaults.Rotation = "45deg" }},
		{"negative scale", func(c *Config) { c.Defaults.ScaleWidth, c.Defaults.ScaleHeight = -1, 10 }},
		{"half scale", func(c *Config) { c.Defaults.ScaleWidth = 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Rotation = "180deg"
	cfg.Defaults.ScaleWidth = 64
	cfg.Defaults.ScaleHeight = 48

	req, err := request.Parse(cfg.DefaultOptions())
	if err != nil {
		t.Fatalf("Default options do not parse: %v", err)
	}

	want := types.TransformRequest{
		Scale:       &types.Size{Width: 64, Height: 48},
		Rotation:    format.Rotation180,
		PixelFormat: format.RGBA,
		DataType:    format.Uint8,
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("DefaultOptions() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := Default().DefaultOptions()[request.KeyScale]; ok {
		t.Error("Expected no scale option without a default scale")
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.ColorRange = "jpeg"

	pc, err := cfg.PipelineConfig()
	if err != nil {
		t.Fatalf("PipelineConfig failed: %v", err)
	}
	if pc.ColorRange != colorconv.RangeFull {
		t.Errorf("Expected full range, got %v", pc.ColorRange)
	}

	cfg.Pipeline.ColorRange = "bt2020"
	if _, err := cfg.PipelineConfig(); err == nil {
		t.Error("Expected error for unknown color range")
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if !strings.HasSuffix(path, filepath.Join("frame-resizer", "config.yml")) && path != "./config.yml" {
		t.Errorf("Unexpected config path %s", path)
	}
}
