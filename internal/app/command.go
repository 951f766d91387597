package app

import (
	"context"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/keystore"
	"github.com/shandysiswandi/seedkeeper/internal/proof"
	"github.com/shandysiswandi/seedkeeper/internal/twofa"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/usecase"
)

// RunSnapshot writes one snapshot line and releases every resource it opened.
func RunSnapshot(ctx context.Context, opts Options) (*usecase.SnapshotOutput, error) {
	a := newApp()
	a.initConfig(opts.ConfigPath)
	a.initInstrument()
	a.initLibraries()
	a.initSeedStore()
	a.initSnapshot()
	a.initClosers()
	defer a.Stop(ctx)

	dep := a.twofaDependency()
	dep.Ctx, dep.Router, dep.Goroutine = nil, nil, nil

	uc, err := twofa.NewUsecase(dep)
	if err != nil {
		return nil, err
	}

	return uc.Snapshot(ctx)
}

// RunProof signs commit with the student key and encrypts the signature for
// the instructor key.
func RunProof(opts Options, commit string) (*proof.Output, error) {
	a := newApp()
	defer a.cancel()

	a.initConfig(opts.ConfigPath)
	a.initLibraries()

	student, err := a.keys.PrivateKey()
	if err != nil {
		return nil, err
	}

	instructor, err := keystore.LoadPublicKey(a.paths.InstructorPublicKeyFile)
	if err != nil {
		return nil, err
	}

	return proof.New(a.validator, student, instructor).Generate(proof.Input{Commit: commit})
}
