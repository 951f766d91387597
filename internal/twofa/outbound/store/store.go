package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DriverFile keeps the seed in a local file.
	DriverFile = "file"
	// DriverRedis keeps the seed under a single Redis key.
	DriverRedis = "redis"
	// DriverPostgres keeps the seed in a single-row table.
	DriverPostgres = "postgres"
	// DriverObject keeps the seed as an object in S3, GCS or MinIO.
	DriverObject = "object"
)

// Drivers lists every accepted seed.driver value.
var Drivers = []string{DriverFile, DriverRedis, DriverPostgres, DriverObject}

// Store persists the single active seed. Write replaces the previous value
// atomically: a concurrent Read observes the old seed or the new one, and a
// failed Write leaves the old one in place.
type Store interface {
	Write(ctx context.Context, seed entity.Seed) error
	// Read returns entity.ErrSeedAbsent when nothing was written yet.
	Read(ctx context.Context) (entity.Seed, error)
	Close() error
}

// encode is the stored representation: the hex seed and a trailing newline.
func encode(seed entity.Seed) []byte {
	return []byte(string(seed) + "\n")
}

// decode trims and revalidates a stored value.
func decode(raw []byte) (entity.Seed, error) {
	seed, err := entity.ParseSeed(strings.TrimSpace(string(raw)))
	if err != nil {
		return "", errors.Join(entity.ErrStorage, err)
	}
	return seed, nil
}

type tracer struct {
	ins  instrument.Instrumentation
	name string
}

func newTracer(ins instrument.Instrumentation, driver string) tracer {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return tracer{ins: ins, name: "twofa.outbound.store." + driver}
}

func (t tracer) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.ins.Tracer(t.name).Start(ctx, name)
}

func (t tracer) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, entity.ErrSeedAbsent) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
