package usecase

import (
	"context"
	"sync"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/keystore"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
	"go.opentelemetry.io/otel/trace"
)

type repoSeed interface {
	Write(ctx context.Context, seed entity.Seed) error
	Read(ctx context.Context) (entity.Seed, error)
}

type repoSnapshot interface {
	Write(ctx context.Context, line string) error
}

type Usecase struct {
	repoSeed     repoSeed
	repoSnapshot repoSnapshot
	keys         keystore.PrivateKeyLoader
	totp         otp.OTP
	clock        clock.Clocker
	validator    validator.Validator
	ins          instrument.Instrumentation

	// writeMu keeps seed replacement single-writer.
	writeMu sync.Mutex
}

type Dependency struct {
	RepoSeed     repoSeed
	RepoSnapshot repoSnapshot
	Keys         keystore.PrivateKeyLoader
	Totp         otp.OTP
	Clock        clock.Clocker
	Validator    validator.Validator
	Instrument   instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoSeed:     dep.RepoSeed,
		repoSnapshot: dep.RepoSnapshot,
		keys:         dep.Keys,
		totp:         dep.Totp,
		clock:        dep.Clock,
		validator:    dep.Validator,
		ins:          dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofa.usecase").Start(ctx, name)
}
