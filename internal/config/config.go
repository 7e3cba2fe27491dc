package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/moebius/internal/mobius"
	"github.com/san-kum/moebius/internal/transform"
)

const (
	DefaultGridSize  = 512
	DefaultXStride   = 16
	DefaultYStride   = 8
	DefaultSpeed     = 1.0
	DefaultFrameRate = 30
	DefaultDuration  = 10.0
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultDPI       = 72
	DefaultBuffer    = 8
)

type Config struct {
	Transform  string           `yaml:"transform"`
	GridSize   int              `yaml:"gridsize"`
	XStride    int              `yaml:"xstride"`
	YStride    int              `yaml:"ystride"`
	Colors     []string         `yaml:"colors"`
	P          Point            `yaml:"p"`
	Q          Point            `yaml:"q"`
	Zoom       float64          `yaml:"zoom"`
	Anchor     string           `yaml:"anchor"`
	Speed      float64          `yaml:"speed"`
	FrameRate  int              `yaml:"frame_rate"`
	Duration   float64          `yaml:"duration"`
	Resolution ResolutionConfig `yaml:"resolution"`
	Workers    int              `yaml:"workers"`
	Buffer     int              `yaml:"buffer"`
}

type ResolutionConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	DPI    int `yaml:"dpi"`
}

// Aspect is width over height.
func (r ResolutionConfig) Aspect() float64 {
	return float64(r.Width) / float64(r.Height)
}

func DefaultConfig() *Config {
	return &Config{
		Transform: string(transform.FamilyLoxodromic),
		GridSize:  DefaultGridSize,
		XStride:   DefaultXStride,
		YStride:   DefaultYStride,
		Colors:    []string{"black", "white"},
		P:         Point(-1),
		Q:         Point(1),
		Zoom:      1,
		Anchor:    string(transform.AnchorCenter),
		Speed:     DefaultSpeed,
		FrameRate: DefaultFrameRate,
		Duration:  DefaultDuration,
		Resolution: ResolutionConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			DPI:    DefaultDPI,
		},
		Buffer: DefaultBuffer,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Colors = append([]string(nil), c.Colors...)
	return &out
}

// Normalize rounds gridsize and strides to their power-of-two values.
func (c *Config) Normalize() {
	c.GridSize = mobius.NormalizeGridSize(c.GridSize)
	c.XStride = mobius.NormalizeStride(c.XStride)
	c.YStride = mobius.NormalizeStride(c.YStride)
}

// Validate rejects values no normalisation can repair. A finite zoom is
// never rejected; kernels clamp it.
func (c *Config) Validate() error {
	if math.IsNaN(c.Zoom) || math.IsInf(c.Zoom, 0) {
		return mobius.NewConfigurationError("zoom", c.Zoom, "must be finite")
	}
	if _, err := transform.ParseAnchor(c.Anchor); err != nil {
		return err
	}
	if len(c.Colors) < 2 {
		return mobius.NewConfigurationError("colors", c.Colors, "need at least 2 colours")
	}
	if c.FrameRate <= 0 {
		return mobius.NewConfigurationError("frame_rate", c.FrameRate, "must be positive")
	}
	if c.Duration <= 0 {
		return mobius.NewConfigurationError("duration", c.Duration, "must be positive")
	}
	if c.Resolution.Width <= 0 || c.Resolution.Height <= 0 {
		return mobius.NewConfigurationError("resolution",
			fmt.Sprintf("%dx%d", c.Resolution.Width, c.Resolution.Height), "must be positive")
	}
	if c.Resolution.DPI <= 0 {
		return mobius.NewConfigurationError("dpi", c.Resolution.DPI, "must be positive")
	}
	if c.Workers < 0 {
		return mobius.NewConfigurationError("workers", c.Workers, "must not be negative")
	}
	if c.Buffer < 0 {
		return mobius.NewConfigurationError("buffer", c.Buffer, "must not be negative")
	}
	return nil
}

// KernelParams converts the transform section for transform.Get.
func (c *Config) KernelParams() transform.Params {
	return transform.Params{
		P:      c.P.Complex(),
		Q:      c.Q.Complex(),
		Zoom:   c.Zoom,
		Anchor: transform.Anchor(c.Anchor),
		Aspect: c.Resolution.Aspect(),
	}
}
