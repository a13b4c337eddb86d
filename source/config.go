package source

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

// Drivers
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// Config selects where tables are read from.
type Config struct {
	Driver string   `mapstructure:"driver" json:"driver" yaml:"driver" toml:"driver"`
	Root   string   `mapstructure:"root" json:"root" yaml:"root" toml:"root"` // directory (fs) or key prefix (s3)
	S3     S3Config `mapstructure:"s3" json:"s3" yaml:"s3" toml:"s3"`
}

// Factory turns table names into sources for one Config.
// An S3 client is built once and shared by every source.
type Factory struct {
	cfg    Config
	client ObjectAPI
}

// NewFactory validates cfg and connects the S3 client if needed.
func NewFactory(ctx context.Context, cfg Config) (*Factory, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverFS:
		cfg.Driver = DriverFS
		return &Factory{cfg: cfg}, nil
	case DriverS3:
		cfg.Driver = DriverS3
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, errors.Wrap(err, "s3 source")
		}
		return &Factory{cfg: cfg, client: client}, nil
	default:
		return nil, errors.NewInvalidRequestError("unknown source driver %q (want %s or %s)", cfg.Driver, DriverFS, DriverS3)
	}
}

// NewFactoryWithClient uses an existing S3 client; cfg.Driver is forced to s3.
func NewFactoryWithClient(cfg Config, client ObjectAPI) *Factory {
	cfg.Driver = DriverS3
	return &Factory{cfg: cfg, client: client}
}

// Source returns the source for name. For fs, absolute names ignore Root and
// relative names without Root resolve against the working directory.
func (f *Factory) Source(name string) Source {
	if f.cfg.Driver == DriverS3 {
		key := strings.TrimPrefix(path.Join(f.cfg.Root, filepath.ToSlash(name)), "/")
		return S3(f.client, f.cfg.S3.Bucket, key)
	}
	if filepath.IsAbs(name) {
		return File(name)
	}
	if f.cfg.Root == "" {
		return WorkingDir(name)
	}
	return File(filepath.Join(f.cfg.Root, name))
}

// Driver returns the normalized driver name.
func (f *Factory) Driver() string { return f.cfg.Driver }

// New is a convenience for a single source.
func New(ctx context.Context, cfg Config, name string) (Source, error) {
	f, err := NewFactory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return f.Source(name), nil
}
