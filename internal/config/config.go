// Package config loads the optional flipbook.yaml configuration.
package config

import (
	stderrors "errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"LocalFlipbook/internal/errors"
)

// Config represents flipbook.yaml.
type Config struct {
	Canvas Canvas    `yaml:"canvas"`
	Mirror Mirror    `yaml:"mirror"`
	Log    LogConfig `yaml:"log"`
}

// Canvas contains the page and brush defaults.
type Canvas struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	BackgroundHex string  `yaml:"background"`
	BrushColorHex string  `yaml:"brush_color"`
	BrushSize     int     `yaml:"brush_size"`
	DotRadius     float64 `yaml:"dot_radius"`
	ShadowAlpha   float64 `yaml:"shadow_alpha"` // 0 is invisible, 1 is opaque
	HistoryLimit  int     `yaml:"history_limit"`
	Fill          Fill    `yaml:"fill"`
}

// Fill bounds the flood fill.
type Fill struct {
	Budget int `yaml:"budget"`
	Radius int `yaml:"radius"`
	Step   int `yaml:"step"`
}

// Mirror configures the read-only LAN mirror.
type Mirror struct {
	Enabled   bool `yaml:"enabled"`
	Port      int  `yaml:"port"`
	Advertise bool `yaml:"advertise"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: Canvas{
			Width:         800,
			Height:        600,
			BackgroundHex: "#ffffff",
			BrushColorHex: "#000000",
			BrushSize:     16,
			DotRadius:     5,
			ShadowAlpha:   0.25,
			HistoryLimit:  64,
			Fill: Fill{
				Budget: 10000,
				Radius: 70,
				Step:   2,
			},
		},
		Mirror: Mirror{
			Port:      8888,
			Advertise: true,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads path if present and overlays it on the defaults. An empty path
// or a missing file yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, errors.New("config.Load", errors.KindIO, fmt.Errorf("failed to read %s: %w", path, err))
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("config.Load", errors.KindInvalidArgument, fmt.Errorf("failed to parse %s: %w", path, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and parses the colour fields.
func (c *Config) Validate() error {
	cv := &c.Canvas
	switch {
	case cv.Width <= 0 || cv.Height <= 0:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "canvas size %dx%d", cv.Width, cv.Height)
	case cv.BrushSize <= 0:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "brush_size %d", cv.BrushSize)
	case cv.DotRadius <= 0:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "dot_radius %v", cv.DotRadius)
	case cv.ShadowAlpha < 0 || cv.ShadowAlpha > 1:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "shadow_alpha %v not in [0,1]", cv.ShadowAlpha)
	case cv.HistoryLimit < 0 || cv.HistoryLimit == 1:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "history_limit %d must be 0 or at least 2", cv.HistoryLimit)
	case cv.Fill.Budget <= 0 || cv.Fill.Radius <= 0 || cv.Fill.Step <= 0:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "fill bounds %+v", cv.Fill)
	case c.Mirror.Port <= 0 || c.Mirror.Port > 65535:
		return errors.Newf("config.Validate", errors.KindInvalidArgument, "mirror port %d", c.Mirror.Port)
	}

	if _, err := ParseHexColor(cv.BackgroundHex); err != nil {
		return errors.New("config.Validate", errors.KindInvalidArgument, fmt.Errorf("background: %w", err))
	}
	if _, err := ParseHexColor(cv.BrushColorHex); err != nil {
		return errors.New("config.Validate", errors.KindInvalidArgument, fmt.Errorf("brush_color: %w", err))
	}
	return nil
}

// Background returns the parsed background colour. Validate guarantees it
// parses; an invalid value yields transparent black.
func (c Canvas) Background() color.RGBA {
	bg, _ := ParseHexColor(c.BackgroundHex)
	return bg
}

// BrushColor returns the parsed default brush colour.
func (c Canvas) BrushColor() color.RGBA {
	brush, _ := ParseHexColor(c.BrushColorHex)
	return brush
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa". Colours are stored
// premultiplied, so partially transparent inputs are scaled.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("bad hex colour %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex colour %q: %w", s, err)
	}
	n := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
