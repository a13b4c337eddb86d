package am

import (
	"github.com/spf13/viper"

	"github.com/drix00/xray-spectrum-analyzer/relax"
	"github.com/drix00/xray-spectrum-analyzer/source"
)

// Defaults
const (
	DefaultCatalogPath  = "xrsa.db"
	DefaultDebounceMS   = 500
	DefaultS3Region     = "us-east-1"
	DefaultSourceDriver = source.DriverFS
	DefaultLogVerbosity = 0
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.relax", relax.DefaultPath)
	v.SetDefault("data.intensities", "")
	v.SetDefault("data.spectrum", "")
	v.SetDefault("data.convolved_spectrum", "")

	v.SetDefault("source.driver", DefaultSourceDriver)
	v.SetDefault("source.root", "")
	v.SetDefault("source.s3.bucket", "")
	v.SetDefault("source.s3.region", DefaultS3Region)
	v.SetDefault("source.s3.endpoint", "")
	v.SetDefault("source.s3.path_style", false)
	v.SetDefault("source.s3.block_private", false)

	v.SetDefault("catalog.path", DefaultCatalogPath)

	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", DefaultLogVerbosity)
}

// BindEnvVars binds the short environment names that do not follow the
// XRSA_<SECTION>_<KEY> pattern.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("source.root", "XRSA_SOURCE_ROOT", "XRSA_DATA_DIR")
	v.BindEnv("source.s3.bucket", "XRSA_SOURCE_S3_BUCKET", "XRSA_S3_BUCKET")
	v.BindEnv("source.s3.endpoint", "XRSA_SOURCE_S3_ENDPOINT", "XRSA_S3_ENDPOINT")
	v.BindEnv("catalog.path", "XRSA_CATALOG_PATH", "XRSA_DB_PATH")
}

func newDefaultsViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}
