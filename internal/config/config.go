package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/contourwire/internal/logging"
	"github.com/danmuck/contourwire/internal/protocol"
	"github.com/danmuck/contourwire/internal/protocol/frame"
	"github.com/danmuck/contourwire/internal/protocol/schema"
	"github.com/pelletier/go-toml/v2"
)

type ToolConfig struct {
	Log     LogConfig     `toml:"log"`
	Limits  LimitsConfig  `toml:"limits"`
	Policy  PolicyConfig  `toml:"policy"`
	Frame   FrameConfig   `toml:"frame"`
	Metrics MetricsConfig `toml:"metrics"`
	Render  RenderConfig  `toml:"render"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// LimitsConfig bounds decoded messages; 0 disables a limit.
type LimitsConfig struct {
	MaxContours  uint32 `toml:"max_contours"`
	MaxPoints    uint32 `toml:"max_points"`
	MaxNameBytes uint32 `toml:"max_name_bytes"`
}

type PolicyConfig struct {
	NameEncoding  string `toml:"name_encoding"`
	RequireFinite bool   `toml:"require_finite"`
}

type FrameConfig struct {
	MaxPayloadBytes uint32 `toml:"max_payload_bytes"`
}

type MetricsConfig struct {
	Textfile string `toml:"textfile"`
}

type RenderConfig struct {
	Title        string  `toml:"title"`
	WidthInches  float64 `toml:"width_inches"`
	HeightInches float64 `toml:"height_inches"`
}

func DefaultToolConfig() ToolConfig {
	limits := protocol.DefaultLimits()
	return ToolConfig{
		Log: LogConfig{Level: "info"},
		Limits: LimitsConfig{
			MaxContours:  limits.MaxContours,
			MaxPoints:    limits.MaxPoints,
			MaxNameBytes: limits.MaxNameBytes,
		},
		Policy: PolicyConfig{NameEncoding: string(schema.NameRaw)},
		Frame:  FrameConfig{MaxPayloadBytes: frame.DefaultLimits().MaxPayloadBytes},
		Render: RenderConfig{Title: protocol.MsgContourArray.Name(), WidthInches: 8, HeightInches: 8},
	}
}

// LoadToolConfig reads path over the defaults; keys absent from the file
// keep their default values.
func LoadToolConfig(path string) (ToolConfig, error) {
	cfg := DefaultToolConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ToolConfig{}, err
	}
	if err := ValidateToolConfig(cfg); err != nil {
		return ToolConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateToolConfig(cfg ToolConfig) error {
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}
	if _, err := schema.ParseNameEncoding(cfg.Policy.NameEncoding); err != nil {
		return fmt.Errorf("policy.name_encoding: %w", err)
	}
	if cfg.Frame.MaxPayloadBytes == 0 {
		return fmt.Errorf("frame.max_payload_bytes must be positive")
	}
	if cfg.Render.WidthInches <= 0 || cfg.Render.HeightInches <= 0 {
		return fmt.Errorf("render size must be positive")
	}
	if strings.TrimSpace(cfg.Metrics.Textfile) != cfg.Metrics.Textfile {
		return fmt.Errorf("metrics.textfile has surrounding whitespace")
	}
	return nil
}

func (c ToolConfig) DecodeLimits() protocol.Limits {
	return protocol.Limits{
		MaxContours:  c.Limits.MaxContours,
		MaxPoints:    c.Limits.MaxPoints,
		MaxNameBytes: c.Limits.MaxNameBytes,
	}
}

func (c ToolConfig) FrameLimits() frame.Limits {
	return frame.Limits{MaxPayloadBytes: c.Frame.MaxPayloadBytes}
}

func (c ToolConfig) SchemaPolicy() (schema.Policy, error) {
	enc, err := schema.ParseNameEncoding(c.Policy.NameEncoding)
	if err != nil {
		return schema.Policy{}, err
	}
	return schema.Policy{
		NameEncoding:  enc,
		Limits:        c.DecodeLimits(),
		RequireFinite: c.Policy.RequireFinite,
	}, nil
}
