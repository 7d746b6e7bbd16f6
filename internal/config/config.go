package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/calclab/internal/quad"
)

const (
	DefaultPlotWidth  = 80
	DefaultPlotHeight = 20
	DefaultTheme      = "cyberpunk"
	DefaultAddr       = ":8080"
	DefaultCacheSize  = 256
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

type Config struct {
	Subdivisions int          `yaml:"subdivisions"`
	RiemannSteps int          `yaml:"riemann_steps"`
	CacheSize    int          `yaml:"cache_size"`
	Plot         PlotConfig   `yaml:"plot"`
	Server       ServerConfig `yaml:"server"`
	Log          LogConfig    `yaml:"log"`
	Examples     []Example    `yaml:"examples"`
}

type PlotConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	CurveSteps  int    `yaml:"curve_steps"`
	RegionSteps int    `yaml:"region_steps"`
	Theme       string `yaml:"theme"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Subdivisions: quad.DefaultSubdivisions,
		RiemannSteps: quad.DefaultRiemannSteps,
		CacheSize:    DefaultCacheSize,
		Plot: PlotConfig{
			Width:       DefaultPlotWidth,
			Height:      DefaultPlotHeight,
			CurveSteps:  quad.DefaultCurveSteps,
			RegionSteps: quad.DefaultRegionSteps,
			Theme:       DefaultTheme,
		},
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate rejects values the engine or the display cannot honor.
func (c *Config) Validate() error {
	if c.Subdivisions < 1 {
		return fmt.Errorf("subdivisions must be >= 1, got %d", c.Subdivisions)
	}
	if c.RiemannSteps < 1 {
		return fmt.Errorf("riemann_steps must be >= 1, got %d", c.RiemannSteps)
	}
	if c.Plot.Width < 10 || c.Plot.Height < 5 {
		return fmt.Errorf("plot size %dx%d too small", c.Plot.Width, c.Plot.Height)
	}
	for i, ex := range c.Examples {
		if ex.Name == "" || ex.Expr == "" {
			return fmt.Errorf("example %d: name and expr are required", i)
		}
	}
	return nil
}

// AllExamples returns the built-in examples followed by configured ones.
func (c *Config) AllExamples() []Example {
	out := make([]Example, 0, len(Examples)+len(c.Examples))
	out = append(out, Examples...)
	return append(out, c.Examples...)
}

// VisualizeOptions maps the config onto quadrature sampling options.
func (c *Config) VisualizeOptions(riemann bool) quad.Options {
	opts := quad.Options{
		Subdivisions: c.Subdivisions,
		CurveSteps:   c.Plot.CurveSteps,
		RegionSteps:  c.Plot.RegionSteps,
	}
	if riemann {
		opts.RiemannSteps = c.RiemannSteps
	}
	return opts
}
