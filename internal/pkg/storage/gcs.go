package storage

import (
	"context"
	"errors"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOptions configures the GCS client.
type GCSOptions struct {
	// Client is used as is when set; the other fields are ignored.
	Client *gcs.Client
	// ClientOptions are passed to gcs.NewClient.
	ClientOptions []option.ClientOption
}

// GCSBucket implements Bucket on Google Cloud Storage.
type GCSBucket struct {
	client *gcs.Client
	bucket string
}

// NewGCS builds a GCS client bound to bucket.
func NewGCS(ctx context.Context, bucket string, opts GCSOptions) (*GCSBucket, error) {
	if opts.Client != nil {
		return &GCSBucket{client: opts.Client, bucket: bucket}, nil
	}

	client, err := gcs.NewClient(ctx, opts.ClientOptions...)
	if err != nil {
		return nil, err
	}

	return &GCSBucket{client: client, bucket: bucket}, nil
}

// Name returns the bucket name.
func (g *GCSBucket) Name() string { return g.bucket }

// Put uploads data. The object becomes visible when the writer closes.
func (g *GCSBucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	// One chunk: the upload is a single request.
	w.ChunkSize = 0

	if _, err := w.Write(data); err != nil {
		return gcsErr(errors.Join(err, w.Close()))
	}
	return gcsErr(w.Close())
}

// Get downloads at most limit bytes of key.
func (g *GCSBucket) Get(ctx context.Context, key string, limit int64) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, gcsErr(err)
	}
	defer r.Close()

	if r.Attrs.Size > limit {
		return nil, ErrObjectTooLarge
	}

	return readLimited(r, limit)
}

// Ping fetches the bucket attributes.
func (g *GCSBucket) Ping(ctx context.Context) error {
	_, err := g.client.Bucket(g.bucket).Attrs(ctx)
	return gcsErr(err)
}

// Close closes the GCS client.
func (g *GCSBucket) Close() error {
	return g.client.Close()
}

func gcsErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gcs.ErrObjectNotExist):
		return ErrObjectNotFound
	case errors.Is(err, gcs.ErrBucketNotExist):
		return ErrBucketNotFound
	default:
		return err
	}
}
