package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverS3 selects the AWS S3 backend.
	DriverS3 = "s3"
	// DriverGCS selects the Google Cloud Storage backend.
	DriverGCS = "gcs"
	// DriverMinIO selects the MinIO backend.
	DriverMinIO = "minio"
)

var (
	// ErrUnknownDriver indicates an unsupported storage driver.
	ErrUnknownDriver = errors.New("storage: unknown driver")
	// ErrBucketRequired indicates an empty bucket name.
	ErrBucketRequired = errors.New("storage: bucket name is required")
)

// Options selects a backend and the bucket it is bound to.
type Options struct {
	Driver string
	Bucket string

	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

// Open returns the Bucket for opts.Driver.
func Open(ctx context.Context, opts Options) (Bucket, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverS3:
		return NewS3(ctx, bucket, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, bucket, opts.GCS)
	case DriverMinIO:
		return NewMinIO(bucket, opts.MinIO)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
