package store

import (
	"context"
	"errors"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/storage"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

// DefaultObjectKey is used when no key is configured.
const DefaultObjectKey = "seed.txt"

// maxObjectBytes bounds reads; a valid object is 65 bytes.
const maxObjectBytes = 4 * 1024

// Object stores the seed as one object. A single PUT is atomic.
type Object struct {
	bucket storage.Bucket
	key    string
	tracer
}

// NewObject returns an object-storage-backed store. The bucket client is owned by the store.
func NewObject(bucket storage.Bucket, key string, ins instrument.Instrumentation) *Object {
	if key == "" {
		key = DefaultObjectKey
	}
	return &Object{bucket: bucket, key: key, tracer: newTracer(ins, DriverObject)}
}

// Write uploads seed.
func (o *Object) Write(ctx context.Context, seed entity.Seed) (err error) {
	ctx, span := o.startSpan(ctx, "Write")
	defer func() { o.endSpan(span, err) }()

	if err := o.bucket.Put(ctx, o.key, encode(seed), "text/plain"); err != nil {
		return errors.Join(entity.ErrStorage, err)
	}
	return nil
}

// Read downloads the stored seed.
func (o *Object) Read(ctx context.Context) (seed entity.Seed, err error) {
	ctx, span := o.startSpan(ctx, "Read")
	defer func() { o.endSpan(span, err) }()

	raw, err := o.bucket.Get(ctx, o.key, maxObjectBytes)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", entity.ErrSeedAbsent
	}
	if err != nil {
		return "", errors.Join(entity.ErrStorage, err)
	}

	return decode(raw)
}

// Ping checks that the bucket is reachable.
func (o *Object) Ping(ctx context.Context) error {
	return o.bucket.Ping(ctx)
}

// Close closes the bucket client.
func (o *Object) Close() error {
	return o.bucket.Close()
}
