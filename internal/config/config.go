// Package config handles .tvcharts.yaml and .tvcharts.toml configuration
// files, environment overrides and their resolution into a tv.BuildConfig.
package config

import "github.com/davetashner/tvcharts/internal/tv"

// Config represents the contents of a .tvcharts.yaml or .tvcharts.toml file.
// Every field is optional; unset fields fall through to lower-precedence
// layers and finally to tv.DefaultBuildConfig.
type Config struct {
	OutputFormat string            `yaml:"output_format,omitempty" toml:"output_format,omitempty"`
	TopN         *int              `yaml:"top_n,omitempty" toml:"top_n,omitempty"`
	Order        string            `yaml:"order,omitempty" toml:"order,omitempty"`
	Aggregators  []string          `yaml:"aggregators,omitempty" toml:"aggregators,omitempty"`
	Ranges       []tv.Range        `yaml:"ranges,omitempty" toml:"ranges,omitempty"`
	Filter       FilterConfig      `yaml:"filter,omitempty" toml:"filter,omitempty"`
	Columns      map[string]string `yaml:"columns,omitempty" toml:"columns,omitempty"`
}

// FilterConfig holds the record filter settings in the config file. A nil
// bound is unset and falls through to lower layers; an explicit 0 clears the
// bound.
type FilterConfig struct {
	Brands    []string `yaml:"brands,omitempty" toml:"brands,omitempty"`
	MinScreen *float64 `yaml:"min_screen,omitempty" toml:"min_screen,omitempty"`
	MaxScreen *float64 `yaml:"max_screen,omitempty" toml:"max_screen,omitempty"`
	MaxEnergy *float64 `yaml:"max_energy,omitempty" toml:"max_energy,omitempty"`
}

// Criteria converts the filter settings to record filter criteria.
func (f FilterConfig) Criteria() tv.Criteria {
	return tv.Criteria{
		Brands:    f.Brands,
		MinScreen: deref(f.MinScreen),
		MaxScreen: deref(f.MaxScreen),
		MaxEnergy: deref(f.MaxEnergy),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// FileName is the expected config file name in the working directory.
const FileName = ".tvcharts.yaml"

// TOMLFileName is the alternate config file name. It is read only when
// FileName does not exist.
const TOMLFileName = ".tvcharts.toml"

// IntPtr returns a pointer to v, for building configs in code.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v, for building configs in code.
func FloatPtr(v float64) *float64 { return &v }
