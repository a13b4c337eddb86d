package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

// EnvPrefix prefixes every environment override: XRSA_DATA_RELAX, XRSA_WATCH_ENABLED, ...
const EnvPrefix = "XRSA"

// ConfigFileName is the file searched for in every config location.
const ConfigFileName = "am.toml"

var globalConfig *Config
var viperInstance *viper.Viper

// ConfigSources records which file set each key during the last load.
// Keys absent from the map come from defaults or the environment.
var ConfigSources = map[string]SourceInfo{}

// Load reads the configuration once and caches it until Reset.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads one file over the defaults, ignoring every other source.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config file %s", configPath)
	}
	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)
	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// configLocation is one step of the file cascade.
type configLocation struct {
	source ConfigSource
	path   string
}

// configLocations lists the candidate files, lowest precedence first.
func configLocations() []configLocation {
	locs := []configLocation{
		{SourceSystem, filepath.Join("/etc", "xrsa", ConfigFileName)},
	}
	if home, err := os.UserHomeDir(); err == nil {
		locs = append(locs, configLocation{SourceUser, filepath.Join(home, ".xrsa", ConfigFileName)})
	}
	if project := findProjectConfig(); project != "" {
		locs = append(locs, configLocation{SourceProject, project})
	}
	return locs
}

// findProjectConfig walks up from the working directory to the first am.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles overlays every existing config file in precedence order
// and records where each key came from. Unreadable files are skipped.
func mergeConfigFiles(v *viper.Viper) {
	for _, loc := range configLocations() {
		if _, err := os.Stat(loc.path); err != nil {
			continue
		}
		fileViper := viper.New()
		fileViper.SetConfigFile(loc.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			continue
		}
		// merged below the environment layer, so XRSA_* still wins
		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range fileViper.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: loc.source, Path: loc.path}
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}

// IsSet reports whether key is known, from any source including defaults.
func IsSet(key string) bool {
	return initViper().IsSet(key)
}
