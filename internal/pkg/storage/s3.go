package storage

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Options configures the S3 client.
type S3Options struct {
	// Region is the AWS region. Defaults to us-east-1 when only Endpoint is set.
	Region string
	// Endpoint overrides the AWS endpoint, e.g. for an S3-compatible server.
	Endpoint string
	// AccessKey, SecretKey and SessionToken are static credentials. Empty uses
	// the default AWS credential chain.
	AccessKey    string
	SecretKey    string
	SessionToken string
	// UsePathStyle forces path-style addressing.
	UsePathStyle bool
	// ServerSideEncryption requests SSE-S3 (AES256) on every Put.
	ServerSideEncryption bool
}

// S3Bucket implements Bucket on AWS S3.
type S3Bucket struct {
	client *s3.Client
	bucket string
	sse    bool
}

// NewS3 builds an S3 client bound to bucket.
func NewS3(ctx context.Context, bucket string, opts S3Options) (*S3Bucket, error) {
	var loadOpts []func(*config.LoadOptions) error
	switch {
	case opts.Region != "":
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	case opts.Endpoint != "":
		loadOpts = append(loadOpts, config.WithRegion("us-east-1"))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &S3Bucket{client: client, bucket: bucket, sse: opts.ServerSideEncryption}, nil
}

// Name returns the bucket name.
func (s *S3Bucket) Name() string { return s.bucket }

// Put uploads data with a known content length.
func (s *S3Bucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if s.sse {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}

	_, err := s.client.PutObject(ctx, input)
	return s3Err(err)
}

// Get downloads at most limit bytes of key.
func (s *S3Bucket) Get(ctx context.Context, key string, limit int64) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s3Err(err)
	}
	defer out.Body.Close()

	if n := aws.ToInt64(out.ContentLength); n > limit {
		return nil, ErrObjectTooLarge
	}

	return readLimited(out.Body, limit)
}

// Ping issues a HeadBucket.
func (s *S3Bucket) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return s3Err(err)
}

// Close is a no-op; the SDK client holds no long-lived resources.
func (s *S3Bucket) Close() error {
	return nil
}

func s3Err(err error) error {
	if err == nil {
		return nil
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return ErrObjectNotFound
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return ErrBucketNotFound
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return ErrBucketNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey":
			return ErrObjectNotFound
		case "NoSuchBucket", "NotFound":
			return ErrBucketNotFound
		}
	}

	return err
}
