package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/config"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/keystore"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/otp"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/router"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/validator"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/snapshot"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/outbound/store"
)

// Options are the command-line inputs of the application.
type Options struct {
	// ConfigPath is the --config flag value. Empty falls back to ConfigPath resolution.
	ConfigPath string
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation
	paths  Paths

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	totp      otp.OTP
	keys      keystore.PrivateKeyLoader

	// resources
	seedStore store.Store
	snapshot  *snapshot.File

	// server
	router     *router.Router
	httpServer *http.Server

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// New initializes the application with default wiring and returns an App instance.
func New(opts Options) *App {
	app := newApp()

	app.initConfig(opts.ConfigPath)
	app.initInstrument()
	app.initLibraries()
	app.initSeedStore()
	app.initSnapshot()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}

func newApp() *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:    ctx,
		cancel: cancel,
	}
}
