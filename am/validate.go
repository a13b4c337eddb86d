package am

import (
	"strings"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/internal/httpclient"
	"github.com/drix00/xray-spectrum-analyzer/source"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Relax) == "" {
		return errors.NewInvalidRequestError("data.relax cannot be empty")
	}

	switch strings.ToLower(c.Source.Driver) {
	case "", source.DriverFS:
	case source.DriverS3:
		if c.Source.S3.Bucket == "" {
			return errors.WithHint(
				errors.NewInvalidRequestError("source.s3.bucket is required when source.driver is s3"),
				"set XRSA_S3_BUCKET or [source.s3] bucket in am.toml")
		}
		if ep := c.Source.S3.Endpoint; ep != "" {
			if _, err := httpclient.ValidateEndpoint(ep, c.Source.S3.BlockPrivate); err != nil {
				return errors.Wrap(err, "source.s3.endpoint")
			}
		}
	default:
		return errors.NewInvalidRequestError("source.driver must be %q or %q, got %q",
			source.DriverFS, source.DriverS3, c.Source.Driver)
	}

	if c.Catalog.Path == "" {
		return errors.NewInvalidRequestError("catalog.path cannot be empty")
	}

	// 0 = watcher default, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.NewInvalidRequestError("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	if c.Log.Verbosity < 0 {
		return errors.NewInvalidRequestError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
