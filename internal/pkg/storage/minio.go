package storage

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures the MinIO client.
type MinIOOptions struct {
	// Endpoint is the MinIO server address, host:port without scheme.
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	// UseSSL toggles TLS for MinIO connections.
	UseSSL bool
}

// MinIOBucket implements Bucket on MinIO.
type MinIOBucket struct {
	client *minio.Client
	bucket string
}

// NewMinIO builds a MinIO client bound to bucket. No request is made.
func NewMinIO(bucket string, opts MinIOOptions) (*MinIOBucket, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinIOBucket{client: client, bucket: bucket}, nil
}

// Name returns the bucket name.
func (m *MinIOBucket) Name() string { return m.bucket }

// Put uploads data in a single request.
func (m *MinIOBucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return minioErr(err)
}

// Get downloads at most limit bytes of key.
//
// minio.Client.GetObject is lazy, so the object is stat'ed first to surface a
// missing key before any read.
func (m *MinIOBucket) Get(ctx context.Context, key string, limit int64) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioErr(err)
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		return nil, minioErr(err)
	}
	if stat.Size > limit {
		return nil, ErrObjectTooLarge
	}

	return readLimited(obj, limit)
}

// Ping checks that the bucket exists.
func (m *MinIOBucket) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return minioErr(err)
	}
	if !ok {
		return ErrBucketNotFound
	}
	return nil
}

// Close is a no-op.
func (m *MinIOBucket) Close() error {
	return nil
}

func minioErr(err error) error {
	if err == nil {
		return nil
	}

	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey":
		return ErrObjectNotFound
	case "NoSuchBucket":
		return ErrBucketNotFound
	default:
		return err
	}
}
