package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/fsutil"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

const (
	filePerm fs.FileMode = 0o600
	dirPerm  fs.FileMode = 0o700
)

// File stores the seed in a single file, replaced atomically on every write.
type File struct {
	path string
	tracer
}

// NewFile returns a file-backed store at path.
func NewFile(path string, ins instrument.Instrumentation) *File {
	return &File{path: path, tracer: newTracer(ins, DriverFile)}
}

// Write persists seed. Parent directories are created when missing.
func (f *File) Write(ctx context.Context, seed entity.Seed) (err error) {
	ctx, span := f.startSpan(ctx, "Write")
	defer func() { f.endSpan(span, err) }()

	if err := fsutil.WriteFileAtomic(f.path, encode(seed), filePerm, dirPerm); err != nil {
		return errors.Join(entity.ErrStorage, err)
	}

	if err := os.Chmod(f.path, filePerm); err != nil {
		slog.WarnContext(ctx, "failed to restrict seed file permissions", "path", f.path, "error", err)
	}

	return nil
}

// Read returns the stored seed.
func (f *File) Read(ctx context.Context) (seed entity.Seed, err error) {
	_, span := f.startSpan(ctx, "Read")
	defer func() { f.endSpan(span, err) }()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", entity.ErrSeedAbsent
	}
	if err != nil {
		return "", errors.Join(entity.ErrStorage, err)
	}

	return decode(raw)
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
