// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/actionet/multires"
)

// ErrInvalidConfig indicates a malformed file or a value outside its domain.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment overrides.
const (
	EnvThreads  = "ACTIONET_THREAD_NO"
	EnvLogLevel = "ACTIONET_LOG_LEVEL"
)

// Config mirrors the parameters of multires.Run.
type Config struct {
	KMin                 int     `yaml:"k_min"`
	KMax                 int     `yaml:"k_max"`
	MaxIter              int     `yaml:"max_iter"`
	MinDelta             float64 `yaml:"min_delta"`
	SpecificityThreshold float64 `yaml:"specificity_th"`
	MinCellsPerArchetype int     `yaml:"min_cells_per_archetype"`
	UnificationThreshold float64 `yaml:"unification_th"`
	Threads              int     `yaml:"thread_no"`
	ReturnW              bool    `yaml:"return_w"`
	LogLevel             string  `yaml:"log_level"` // debug, info, warn, error
}

// Default returns the configuration matching multires.DefaultOptions.
func Default() *Config {
	return &Config{
		KMin:                 multires.DefaultKMin,
		KMax:                 multires.DefaultKMax,
		MaxIter:              multires.DefaultMaxIter,
		MinDelta:             multires.DefaultMinDelta,
		SpecificityThreshold: multires.DefaultSpecificityThreshold,
		MinCellsPerArchetype: multires.DefaultMinCellsPerArchetype,
		UnificationThreshold: multires.DefaultUnificationThreshold,
		LogLevel:             "info",
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// missing file: defaults
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file.
func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv(EnvThreads)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvThreads, v, err)
		}
		c.Threads = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}

	return nil
}

// Validate checks every field against the domain multires accepts.
func (c *Config) Validate() error {
	switch {
	case c.KMin < multires.DefaultKMin:
		return fmt.Errorf("%w: k_min %d < %d", ErrInvalidConfig, c.KMin, multires.DefaultKMin)
	case c.KMax < c.KMin:
		return fmt.Errorf("%w: k_max %d < k_min %d", ErrInvalidConfig, c.KMax, c.KMin)
	case c.MaxIter < 1:
		return fmt.Errorf("%w: max_iter %d < 1", ErrInvalidConfig, c.MaxIter)
	case math.IsNaN(c.MinDelta) || c.MinDelta < 0:
		return fmt.Errorf("%w: min_delta %g < 0", ErrInvalidConfig, c.MinDelta)
	case math.IsNaN(c.SpecificityThreshold):
		return fmt.Errorf("%w: specificity_th is NaN", ErrInvalidConfig)
	case c.MinCellsPerArchetype < 1:
		return fmt.Errorf("%w: min_cells_per_archetype %d < 1", ErrInvalidConfig, c.MinCellsPerArchetype)
	case math.IsNaN(c.UnificationThreshold) || c.UnificationThreshold < 0 || c.UnificationThreshold > 1:
		return fmt.Errorf("%w: unification_th %g outside [0,1]", ErrInvalidConfig, c.UnificationThreshold)
	case c.Threads < 0:
		return fmt.Errorf("%w: thread_no %d < 0", ErrInvalidConfig, c.Threads)
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}

	return lvl, nil
}

// Options converts c into multires options. The logger is left to the caller.
func (c *Config) Options() []multires.Option {
	return []multires.Option{
		multires.WithKRange(c.KMin, c.KMax),
		multires.WithMaxIter(c.MaxIter),
		multires.WithMinDelta(c.MinDelta),
		multires.WithSpecificityThreshold(c.SpecificityThreshold),
		multires.WithMinCellsPerArchetype(c.MinCellsPerArchetype),
		multires.WithUnificationThreshold(c.UnificationThreshold),
		multires.WithThreads(c.Threads),
		multires.WithReturnW(c.ReturnW),
	}
}

// Save writes c as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
