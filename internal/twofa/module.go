package twofa

import (
	"context"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/keystore"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/router"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/inbound"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/snapshot"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/store"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/usecase"
)

type Dependency struct {
	// Ctx bounds background workers. Nil disables them.
	Ctx       context.Context
	Router    *router.Router
	Goroutine *goroutine.Manager

	SeedStore  store.Store                `validate:"required"`
	Snapshot   *snapshot.File             `validate:"required"`
	Keys       keystore.PrivateKeyLoader  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

// New registers the HTTP endpoints and, when snapshot.enabled is set, the
// snapshot worker.
func New(dep Dependency) error {
	uc, err := NewUsecase(dep)
	if err != nil {
		return err
	}

	if dep.Router != nil {
		inbound.RegisterHTTPEndpoint(dep.Router, uc)
	}

	if dep.Ctx != nil && dep.Goroutine != nil && dep.Config.GetBool("snapshot.enabled") {
		worker := inbound.NewSnapshotWorker(uc, dep.UUID, dep.Config.GetSecond("snapshot.interval_seconds"))
		inbound.RegisterSnapshotWorker(dep.Ctx, dep.Goroutine, worker)
	}

	return nil
}

// NewUsecase validates dep and builds the usecase without registering anything.
func NewUsecase(dep Dependency) (*usecase.Usecase, error) {
	if dep.Validator == nil {
		return nil, errValidatorRequired
	}
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	return usecase.New(usecase.Dependency{
		RepoSeed:     dep.SeedStore,
		RepoSnapshot: dep.Snapshot,
		Keys:         dep.Keys,
		Totp:         dep.Totp,
		Clock:        dep.Clock,
		Validator:    dep.Validator,
		Instrument:   dep.Instrument,
	}), nil
}
