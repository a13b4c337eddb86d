package source

import (
	"context"
	"io"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/drix00/xray-spectrum-analyzer/errors"
	"github.com/drix00/xray-spectrum-analyzer/internal/httpclient"
)

// ObjectAPI is the subset of *s3.Client used by S3Source.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a table from an S3-compatible object store (AWS S3 or MinIO).
type S3Source struct {
	client ObjectAPI
	bucket string
	key    string
}

// S3 returns a source for the object bucket/key.
func S3(client ObjectAPI, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// S3Config holds explicit connection parameters. Credentials come from the
// default AWS chain (AWS_ACCESS_KEY_ID, shared config, instance role).
type S3Config struct {
	Bucket    string `mapstructure:"bucket" json:"bucket" yaml:"bucket" toml:"bucket"`
	Region    string `mapstructure:"region" json:"region" yaml:"region" toml:"region"`
	Endpoint  string `mapstructure:"endpoint" json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"` // optional; MinIO or other S3-compatible endpoint
	PathStyle bool   `mapstructure:"path_style" json:"path_style" yaml:"path_style" toml:"path_style"`
	// BlockPrivate refuses endpoints on loopback or private networks.
	BlockPrivate bool `mapstructure:"block_private" json:"block_private" yaml:"block_private" toml:"block_private"`
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config, optFns ...func(*config.LoadOptions) error) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewInvalidRequestError("s3 bucket required")
	}
	if cfg.Endpoint != "" {
		if _, err := httpclient.ValidateEndpoint(cfg.Endpoint, cfg.BlockPrivate); err != nil {
			return nil, err
		}
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := append([]func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithHTTPClient(httpclient.New(httpclient.Options{BlockPrivate: cfg.BlockPrivate})),
	}, optFns...)
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func (s *S3Source) Stat(ctx context.Context) (Info, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		if isNotFound(err) {
			err = errors.Wrapf(errors.Mark(err, errors.ErrSourceMissing), "object %s", s)
			return Info{}, errors.WithHintf(err, "expected the table at %s", s)
		}
		// denied or unreachable: the object may well exist
		return Info{}, errors.Wrapf(err, "head %s", s)
	}
	info := Info{Name: s.String(), Size: aws.ToInt64(out.ContentLength)}
	if out.LastModified != nil {
		info.ModTime = *out.LastModified
	}
	return info, nil
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrSourceUnreadable), "get %s", s)
	}
	return out.Body, nil
}

func (s *S3Source) String() string { return "s3://" + s.bucket + "/" + s.key }

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var status interface{ HTTPStatusCode() int }
	return errors.As(err, &status) && status.HTTPStatusCode() == 404
}
