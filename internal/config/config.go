package config

import (
	"fmt"
	"os"

	"github.com/san-kum/tiltball/internal/ball"
	"github.com/san-kum/tiltball/internal/sensor"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth   = 400.0
	DefaultHeight  = 800.0
	DefaultSource  = "synthetic"
	DefaultSamples = 3000
	DefaultFPS     = 30
)

type Config struct {
	Ball     BallConfig     `yaml:"ball"`
	Viewport ViewportConfig `yaml:"viewport"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Run      RunConfig      `yaml:"run"`
}

type BallConfig struct {
	Radius            float64 `yaml:"radius"`
	AccelerationScale float64 `yaml:"acceleration_scale"`
	Restitution       float64 `yaml:"restitution"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SensorConfig struct {
	Source    string  `yaml:"source"`
	PeriodMs  int64   `yaml:"period_ms"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Noise     float64 `yaml:"noise"`
	BiasX     float64 `yaml:"bias_x"`
	BiasY     float64 `yaml:"bias_y"`
	Seed      int64   `yaml:"seed"`
	Path      string  `yaml:"path"`
	Guard     bool    `yaml:"guard"`
}

type RunConfig struct {
	Samples int `yaml:"samples"`
	FPS     int `yaml:"fps"`
}

func DefaultConfig() *Config {
	p := ball.DefaultParams()
	syn := sensor.DefaultSyntheticConfig()
	return &Config{
		Ball: BallConfig{
			Radius:            p.Radius,
			AccelerationScale: p.AccelerationScale,
			Restitution:       p.Restitution,
		},
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Sensor: SensorConfig{
			Source:    DefaultSource,
			PeriodMs:  syn.PeriodMs,
			Amplitude: syn.Amplitude,
			Frequency: syn.Frequency,
			Noise:     syn.Noise,
			Seed:      syn.Seed,
			Guard:     true,
		},
		Run: RunConfig{
			Samples: DefaultSamples,
			FPS:     DefaultFPS,
		},
	}
}

// Load overlays the file at path onto the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads the file at path over cfg. Keys missing from the file keep
// their current values.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if !c.Params().FitsIn(ball.Bounds{Width: c.Viewport.Width, Height: c.Viewport.Height}) {
		return fmt.Errorf("radius %g does not fit viewport %gx%g", c.Ball.Radius, c.Viewport.Width, c.Viewport.Height)
	}
	if c.Sensor.PeriodMs <= 0 {
		return fmt.Errorf("sensor period must be positive, got %d", c.Sensor.PeriodMs)
	}
	if c.Run.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", c.Run.Samples)
	}
	if c.Run.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Run.FPS)
	}
	return nil
}

func (c *Config) Params() ball.Params {
	return ball.Params{
		Radius:            c.Ball.Radius,
		AccelerationScale: c.Ball.AccelerationScale,
		Restitution:       c.Ball.Restitution,
	}
}

func (c *Config) SensorOptions() sensor.Options {
	return sensor.Options{
		Synthetic: sensor.SyntheticConfig{
			PeriodMs:  c.Sensor.PeriodMs,
			Amplitude: c.Sensor.Amplitude,
			Frequency: c.Sensor.Frequency,
			Noise:     c.Sensor.Noise,
			BiasX:     c.Sensor.BiasX,
			BiasY:     c.Sensor.BiasY,
			Seed:      c.Sensor.Seed,
		},
		Path: c.Sensor.Path,
	}
}
