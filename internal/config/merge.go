package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DefaultConfigPath is the path to the canonical merge defaults file.
const DefaultConfigPath = "config/merge.defaults.json"

// MergeConfig holds the flattening tolerances and stage switches. Every
// field is optional: Get* accessors fall back to built-in defaults, so a
// partial file (or none at all) is safe. Environment variables override
// file values through ApplyEnv.
type MergeConfig struct {
	// Time-domain tolerances
	TimeEpsilon     *float64 `json:"time_epsilon,omitempty" env:"ANIMFLATTEN_TIME_EPSILON"`
	BoundaryEpsilon *float64 `json:"boundary_epsilon,omitempty" env:"ANIMFLATTEN_BOUNDARY_EPSILON"`

	// Stage switches
	ExtrapolationAware *bool `json:"extrapolation_aware,omitempty" env:"ANIMFLATTEN_EXTRAPOLATION_AWARE"`
	CorrectPaths       *bool `json:"correct_paths,omitempty" env:"ANIMFLATTEN_CORRECT_PATHS"`
	ApplyRootOffset    *bool `json:"apply_root_offset,omitempty" env:"ANIMFLATTEN_APPLY_ROOT_OFFSET"`

	// Naming
	PathSeparator      *string  `json:"path_separator,omitempty" env:"ANIMFLATTEN_PATH_SEPARATOR"`
	PositionProperties []string `json:"position_properties,omitempty" env:"ANIMFLATTEN_POSITION_PROPERTIES" envSeparator:","`
	RotationProperties []string `json:"rotation_properties,omitempty" env:"ANIMFLATTEN_ROTATION_PROPERTIES" envSeparator:","`

	// Plot output
	PlotSampleStep *float64 `json:"plot_sample_step,omitempty" env:"ANIMFLATTEN_PLOT_SAMPLE_STEP"`
}

// EmptyMergeConfig returns a MergeConfig with all fields unset.
func EmptyMergeConfig() *MergeConfig {
	return &MergeConfig{}
}

// LoadMergeConfig loads a MergeConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadMergeConfig(path string) (*MergeConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyMergeConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *MergeConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/flatten/pipeline/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadMergeConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// ApplyEnv overrides cfg with any ANIMFLATTEN_* environment variables and
// re-validates the result.
func ApplyEnv(cfg *MergeConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration from env: %w", err)
	}
	return nil
}

// Validate checks that the configuration values are valid.
func (c *MergeConfig) Validate() error {
	if c.TimeEpsilon != nil {
		if *c.TimeEpsilon < 0 || *c.TimeEpsilon >= 1 {
			return fmt.Errorf("time_epsilon must be in [0, 1), got %g", *c.TimeEpsilon)
		}
	}
	if c.BoundaryEpsilon != nil && *c.BoundaryEpsilon <= 0 {
		return fmt.Errorf("boundary_epsilon must be positive, got %g", *c.BoundaryEpsilon)
	}
	if c.GetBoundaryEpsilon() <= c.GetTimeEpsilon() {
		return fmt.Errorf("boundary_epsilon (%g) must exceed time_epsilon (%g)", c.GetBoundaryEpsilon(), c.GetTimeEpsilon())
	}
	if c.PathSeparator != nil && *c.PathSeparator == "" {
		return fmt.Errorf("path_separator must not be empty")
	}
	if c.PlotSampleStep != nil && *c.PlotSampleStep <= 0 {
		return fmt.Errorf("plot_sample_step must be positive, got %g", *c.PlotSampleStep)
	}
	return nil
}

// GetTimeEpsilon returns the time_epsilon value or the default.
func (c *MergeConfig) GetTimeEpsilon() float64 {
	if c.TimeEpsilon == nil {
		return 1e-6
	}
	return *c.TimeEpsilon
}

// GetBoundaryEpsilon returns the boundary_epsilon value or the default.
func (c *MergeConfig) GetBoundaryEpsilon() float64 {
	if c.BoundaryEpsilon == nil {
		return 1e-4
	}
	return *c.BoundaryEpsilon
}

// GetExtrapolationAware returns the extrapolation_aware value or the default.
func (c *MergeConfig) GetExtrapolationAware() bool {
	if c.ExtrapolationAware == nil {
		return true
	}
	return *c.ExtrapolationAware
}

// GetCorrectPaths returns the correct_paths value or the default.
func (c *MergeConfig) GetCorrectPaths() bool {
	if c.CorrectPaths == nil {
		return true
	}
	return *c.CorrectPaths
}

// GetApplyRootOffset returns the apply_root_offset value or the default.
func (c *MergeConfig) GetApplyRootOffset() bool {
	if c.ApplyRootOffset == nil {
		return true
	}
	return *c.ApplyRootOffset
}

// GetPathSeparator returns the path_separator value or the default.
func (c *MergeConfig) GetPathSeparator() string {
	if c.PathSeparator == nil {
		return "/"
	}
	return *c.PathSeparator
}

// GetPositionProperties returns the position property bases or the defaults.
func (c *MergeConfig) GetPositionProperties() []string {
	if len(c.PositionProperties) == 0 {
		return []string{"localPosition", "m_LocalPosition", "RootT"}
	}
	return c.PositionProperties
}

// GetRotationProperties returns the rotation property bases or the defaults.
func (c *MergeConfig) GetRotationProperties() []string {
	if len(c.RotationProperties) == 0 {
		return []string{"localRotation", "m_LocalRotation", "RootQ"}
	}
	return c.RotationProperties
}

// GetPlotSampleStep returns the plot_sample_step value or the default.
func (c *MergeConfig) GetPlotSampleStep() float64 {
	if c.PlotSampleStep == nil {
		return 1.0 / 30 // one sample per frame at 30fps
	}
	return *c.PlotSampleStep
}
