package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "gopkg.in/yaml.v2"

	"github.com/menta2k/frame-resizer/pkg/colorconv"
	"github.com/menta2k/frame-resizer/pkg/format"
	"github.com/menta2k/frame-resizer/pkg/pipeline"
	"github.com/menta2k/frame-resizer/pkg/request"
)

// Config holds the application configuration
type Config struct {
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" koanf:"pipeline"`
	Defaults DefaultsConfig `json:"defaults" yaml:"defaults" koanf:"defaults"`
	Output   OutputConfig   `json:"output" yaml:"output" koanf:"output"`
}

// PipelineConfig holds configuration for pipeline instances
type PipelineConfig struct {
	ColorRange string `json:"color_range" yaml:"color_range" koanf:"color_range"`
	LogLevel   string `json:"log_level" yaml:"log_level" koanf:"log_level"`
}

// DefaultsConfig holds the transform applied when the caller gives no options
type DefaultsConfig struct {
	Layout      string `json:"layout" yaml:"layout" koanf:"layout"`
	PixelFormat string `json:"pixel_format" yaml:"pixel_format" koanf:"pixel_format"`
	DataType    string `json:"data_type" yaml:"data_type" koanf:"data_type"`
	Rotation    string `json:"rotation" yaml:"rotation" koanf:"rotation"`
	Mirror      bool   `json:"mirror" yaml:"mirror" koanf:"mirror"`
	ScaleWidth  int    `json:"scale_width" yaml:"scale_width" koanf:"scale_width"`
	ScaleHeight int    `json:"scale_height" yaml:"scale_height" koanf:"scale_height"`
}

// OutputConfig holds configuration for raw output dumps
type OutputConfig struct {
	OutputDir string `json:"output_dir" yaml:"output_dir" koanf:"output_dir"`
	Prefix    string `json:"prefix" yaml:"prefix" koanf:"prefix"`
	Suffix    string `json:"suffix" yaml:"suffix" koanf:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ColorRange: colorconv.RangeLimited.String(),
			LogLevel:   "info",
		},
		Defaults: DefaultsConfig{
			Layout:      format.YUV420.String(),
			PixelFormat: format.RGBA.String(),
			DataType:    format.Uint8.String(),
			Rotation:    format.Rotation0.String(),
			Mirror:      false,
			ScaleWidth:  0,
			ScaleHeight: 0,
		},
		Output: OutputConfig{
			OutputDir: "./output",
			Prefix:    "",
			Suffix:    "_frame",
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file. Keys missing
// from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	parser, err := parserFor(filename)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(filename), parser); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

func parserFor(filename string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yml", ".yaml":
		return kyaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	}
	return nil, fmt.Errorf("unsupported config file type: %s", filename)
}

// SaveToFile saves configuration to a YAML or JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yml", ".yaml":
		data, err = yml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := colorconv.ParseColorRange(c.Pipeline.ColorRange); err != nil {
		return fmt.Errorf("pipeline.color_range: %w", err)
	}

	switch strings.ToLower(c.Pipeline.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("pipeline.log_level must be one of debug, info, warn, error")
	}

	if _, err := format.ParseSourceLayout(c.Defaults.Layout); err != nil {
		return fmt.Errorf("defaults.layout: %w", err)
	}

	if _, err := request.Parse(c.DefaultOptions()); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}

	if c.Defaults.ScaleWidth < 0 || c.Defaults.ScaleHeight < 0 {
		return fmt.Errorf("defaults.scale_width and defaults.scale_height cannot be negative")
	}

	if (c.Defaults.ScaleWidth == 0) != (c.Defaults.ScaleHeight == 0) {
		return fmt.Errorf("defaults.scale_width and defaults.scale_height must be set together")
	}

	return nil
}

// PipelineConfig returns the pipeline configuration described by c
func (c *Config) PipelineConfig() (pipeline.Config, error) {
	rng, err := colorconv.ParseColorRange(c.Pipeline.ColorRange)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{ColorRange: rng}, nil
}

// DefaultOptions returns the default transform as an option object
func (c *Config) DefaultOptions() request.Options {
	opts := request.Options{
		request.KeyPixelFormat: c.Defaults.PixelFormat,
		request.KeyDataType:    c.Defaults.DataType,
		request.KeyMirror:      c.Defaults.Mirror,
	}
	if c.Defaults.Rotation != "" {
		opts[request.KeyRotation] = c.Defaults.Rotation
	}
	if c.Defaults.ScaleWidth > 0 && c.Defaults.ScaleHeight > 0 {
		opts[request.KeyScale] = map[string]any{
			"width":  c.Defaults.ScaleWidth,
			"height": c.Defaults.ScaleHeight,
		}
	}
	return opts
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.yml"
	}
	return filepath.Join(home, ".config", "frame-resizer", "config.yml")
}
