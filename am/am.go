// Package am loads xrsa configuration ("I am"): where the tables live, where
// the catalog is written, and how watching and logging behave.
//
// Sources, lowest precedence first: built-in defaults, /etc/xrsa/am.toml,
// ~/.xrsa/am.toml, the nearest am.toml found walking up from the working
// directory, then XRSA_* environment variables.
package am

import (
	"fmt"
	"time"

	"github.com/drix00/xray-spectrum-analyzer/source"
)

// Config represents the xrsa configuration
type Config struct {
	Data    DataConfig    `mapstructure:"data" json:"data" yaml:"data" toml:"data"`
	Source  source.Config `mapstructure:"source" json:"source" yaml:"source" toml:"source"`
	Catalog CatalogConfig `mapstructure:"catalog" json:"catalog" yaml:"catalog" toml:"catalog"`
	Watch   WatchConfig   `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// DataConfig names the tables. Names are resolved by the source driver:
// paths for fs, object keys under source.root for s3.
type DataConfig struct {
	Relax string `mapstructure:"relax" json:"relax" yaml:"relax" toml:"relax"`
	// pe-intens-NN.dat
	Intensities string `mapstructure:"intensities" json:"intensities" yaml:"intensities" toml:"intensities"`
	// pe-spect-NN.dat
	Spectrum string `mapstructure:"spectrum" json:"spectrum" yaml:"spectrum" toml:"spectrum"`
	// chspect-NN.dat
	ConvolvedSpectrum string `mapstructure:"convolved_spectrum" json:"convolved_spectrum" yaml:"convolved_spectrum" toml:"convolved_spectrum"`
}

// CatalogConfig configures the SQLite export
type CatalogConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
}

// WatchConfig configures reload on change
type WatchConfig struct {
	Enabled    bool `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"`
	DebounceMS int  `mapstructure:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`
}

// Debounce returns the debounce period; 0 means the watcher default.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" json:"verbosity" yaml:"verbosity" toml:"verbosity"`
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// String returns a one-line summary of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Relax: %s, Source: %s, Catalog: %s, Watch: %t}",
		c.Data.Relax, c.Source.Driver, c.Catalog.Path, c.Watch.Enabled)
}
