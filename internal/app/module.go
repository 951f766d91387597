package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/seedkeeper/internal/twofa"
)

func (a *App) twofaDependency() twofa.Dependency {
	return twofa.Dependency{
		Ctx:        a.ctx,
		Router:     a.router,
		Goroutine:  a.goroutine,
		SeedStore:  a.seedStore,
		Snapshot:   a.snapshot,
		Keys:       a.keys,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Clock:      a.clock,
		Totp:       a.totp,
		Validator:  a.validator,
	}
}

func (a *App) initModules() {
	if err := twofa.New(a.twofaDependency()); err != nil {
		slog.Error("failed to init module twofa", "error", err)
		os.Exit(1)
	}
}
