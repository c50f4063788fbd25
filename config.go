package impasto

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/esimov/impasto/utils"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the canvas and brush settings an editor starts with.
type Config struct {
	Width  int         `yaml:"width"`
	Height int         `yaml:"height"`
	Zoom   float64     `yaml:"zoom"`
	Brush  BrushConfig `yaml:"brush"`
}

// BrushConfig is the textual form of a StrokeConfig.
type BrushConfig struct {
	Kind  string `yaml:"kind"`
	Size  int    `yaml:"size"`
	Color string `yaml:"color"`
	Fill  bool   `yaml:"fill"`
}

// DefaultConfig returns an 800x600 canvas with the default brush.
func DefaultConfig() Config {
	return Config{
		Width:  800,
		Height: 600,
		Zoom:   1,
		Brush: BrushConfig{
			Kind:  Round.String(),
			Size:  DefaultBrushSize,
			Color: "#000000",
		},
	}
}

// LoadConfig reads a YAML configuration file. Missing keys keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the canvas size, zoom and brush settings.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Zoom < MinZoom || c.Zoom > MaxZoom {
		return fmt.Errorf("%w: zoom %v outside [%v, %v]", ErrInvalidConfig, c.Zoom, MinZoom, MaxZoom)
	}
	if c.Brush.Size < MinBrushSize || c.Brush.Size > MaxBrushSize {
		return fmt.Errorf("%w: brush size %d outside [%d, %d]", ErrInvalidConfig, c.Brush.Size, MinBrushSize, MaxBrushSize)
	}
	_, err := c.Brush.StrokeConfig()
	return err
}

// StrokeConfig converts the textual brush settings.
func (b BrushConfig) StrokeConfig() (StrokeConfig, error) {
	kind, err := ParseBrushKind(b.Kind)
	if err != nil {
		return StrokeConfig{}, err
	}
	var c color.Color = color.Black
	if b.Color != "" {
		nc, err := utils.HexToRGBA(b.Color)
		if err != nil {
			return StrokeConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		c = nc
	}
	return StrokeConfig{Kind: kind, Size: b.Size, Color: c}.Validate(), nil
}

// NewEditorFromConfig builds an editor from a validated configuration.
func NewEditorFromConfig(cfg Config, opts ...Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	brush, err := cfg.Brush.StrokeConfig()
	if err != nil {
		return nil, err
	}
	e, err := NewEditor(cfg.Width, cfg.Height, append([]Option{WithBrush(brush)}, opts...)...)
	if err != nil {
		return nil, err
	}
	e.zoom.Set(cfg.Zoom)
	if cfg.Brush.Fill {
		e.EnableFill()
	}
	return e, nil
}
