package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

// DefaultSlot names the row holding the active seed.
const DefaultSlot = "default"

const (
	queryMigrate = `CREATE TABLE IF NOT EXISTS twofa_seeds (
	slot       TEXT PRIMARY KEY,
	seed       TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	queryUpsert = `INSERT INTO twofa_seeds (slot, seed, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (slot) DO UPDATE SET seed = EXCLUDED.seed, updated_at = EXCLUDED.updated_at`

	querySelect = `SELECT seed FROM twofa_seeds WHERE slot = $1`
)

// Postgres stores the seed in one row of twofa_seeds. A single-row upsert is atomic.
type Postgres struct {
	pool *pgxpool.Pool
	slot string
	tracer
}

// NewPostgres returns a Postgres-backed store. The pool is owned by the store.
func NewPostgres(pool *pgxpool.Pool, slot string, ins instrument.Instrumentation) *Postgres {
	if slot == "" {
		slot = DefaultSlot
	}
	return &Postgres{pool: pool, slot: slot, tracer: newTracer(ins, DriverPostgres)}
}

// Migrate creates the table when missing.
func (p *Postgres) Migrate(ctx context.Context) (err error) {
	ctx, span := p.startSpan(ctx, "Migrate")
	defer func() { p.endSpan(span, err) }()

	_, err = p.pool.Exec(ctx, queryMigrate)
	return err
}

// Write upserts seed.
func (p *Postgres) Write(ctx context.Context, seed entity.Seed) (err error) {
	ctx, span := p.startSpan(ctx, "Write")
	defer func() { p.endSpan(span, err) }()

	if _, err := p.pool.Exec(ctx, queryUpsert, p.slot, string(seed)); err != nil {
		return errors.Join(entity.ErrStorage, err)
	}
	return nil
}

// Read returns the stored seed.
func (p *Postgres) Read(ctx context.Context) (seed entity.Seed, err error) {
	ctx, span := p.startSpan(ctx, "Read")
	defer func() { p.endSpan(span, err) }()

	var raw string
	err = p.pool.QueryRow(ctx, querySelect, p.slot).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", entity.ErrSeedAbsent
	}
	if err != nil {
		return "", errors.Join(entity.ErrStorage, err)
	}

	return decode([]byte(raw))
}

// Ping checks connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
