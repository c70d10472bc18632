package canopy

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Viewport is the size the root container is fixed to. A zero dimension
// leaves that axis content-sized.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Config configures a Scene. The yaml-tagged fields can be loaded from a
// file with LoadConfig; the collaborators are set in code.
type Config struct {
	Debug         bool        `yaml:"debug"`
	Viewport      Viewport    `yaml:"viewport"`
	IDReuse       ReusePolicy `yaml:"id_reuse"`
	MutationQueue int         `yaml:"mutation_queue"`
	TPS           int         `yaml:"tps"`
	ScreenshotDir string      `yaml:"screenshot_dir"`

	Logger   *zap.Logger  `yaml:"-"`
	Measurer TextMeasurer `yaml:"-"`
	Solver   Solver       `yaml:"-"`
}

const (
	defaultMutationQueue = 256
	defaultTPS           = 60
	defaultScreenshotDir = "screenshots"
)

// DefaultConfig returns the configuration NewScene uses for zero fields.
func DefaultConfig() Config {
	return Config{
		IDReuse:       ReuseRetired,
		MutationQueue: defaultMutationQueue,
		TPS:           defaultTPS,
		ScreenshotDir: defaultScreenshotDir,
	}
}

// LoadConfig parses a YAML document over DefaultConfig.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("config: negative viewport %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if c.MutationQueue < 0 {
		return fmt.Errorf("config: negative mutation_queue %d", c.MutationQueue)
	}
	if c.TPS < 0 {
		return fmt.Errorf("config: negative tps %d", c.TPS)
	}
	return nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MutationQueue == 0 {
		c.MutationQueue = d.MutationQueue
	}
	if c.TPS == 0 {
		c.TPS = d.TPS
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = d.ScreenshotDir
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
