package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

// DefaultRedisKey is used when no key is configured.
const DefaultRedisKey = "seedkeeper:seed"

// Redis stores the seed under one key. A single SET is atomic.
type Redis struct {
	client redis.UniversalClient
	key    string
	tracer
}

// NewRedis returns a Redis-backed store. The client is owned by the store.
func NewRedis(client redis.UniversalClient, key string, ins instrument.Instrumentation) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key, tracer: newTracer(ins, DriverRedis)}
}

// Write persists seed without expiry.
func (r *Redis) Write(ctx context.Context, seed entity.Seed) (err error) {
	ctx, span := r.startSpan(ctx, "Write")
	defer func() { r.endSpan(span, err) }()

	if err := r.client.Set(ctx, r.key, encode(seed), 0).Err(); err != nil {
		return errors.Join(entity.ErrStorage, err)
	}
	return nil
}

// Read returns the stored seed.
func (r *Redis) Read(ctx context.Context) (seed entity.Seed, err error) {
	ctx, span := r.startSpan(ctx, "Read")
	defer func() { r.endSpan(span, err) }()

	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", entity.ErrSeedAbsent
	}
	if err != nil {
		return "", errors.Join(entity.ErrStorage, err)
	}

	return decode(raw)
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
