package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrObjectNotFound indicates the requested key does not exist in the bucket.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrObjectTooLarge indicates the object exceeds the caller's read limit.
	ErrObjectTooLarge = errors.New("storage: object exceeds read limit")
	// ErrBucketNotFound indicates the configured bucket does not exist.
	ErrBucketNotFound = errors.New("storage: bucket not found")
)

// Bucket is one object-storage bucket holding small text objects.
//
// A single Put is atomic on every supported backend: readers see either the
// previous object or the new one.
type Bucket interface {
	io.Closer

	// Name returns the bucket name.
	Name() string
	// Put replaces the object at key with data.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get reads the object at key. A missing key yields ErrObjectNotFound and
	// an object longer than limit bytes yields ErrObjectTooLarge.
	Get(ctx context.Context, key string, limit int64) ([]byte, error)
	// Ping reports whether the bucket is reachable with the configured credentials.
	Ping(ctx context.Context) error
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrObjectTooLarge, limit)
	}
	return data, nil
}
