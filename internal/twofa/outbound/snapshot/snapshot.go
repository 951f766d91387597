package snapshot

import (
	"context"
	"io/fs"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/fsutil"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

const (
	filePerm fs.FileMode = 0o644
	dirPerm  fs.FileMode = 0o755
)

// File replaces the snapshot file with the latest line on every write.
type File struct {
	path string
	ins  instrument.Instrumentation
}

// NewFile returns a snapshot writer targeting path.
func NewFile(path string, ins instrument.Instrumentation) *File {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	return &File{path: path, ins: ins}
}

// Write stores line as the whole content of the snapshot file.
func (f *File) Write(ctx context.Context, line string) error {
	_, span := f.ins.Tracer("twofa.outbound.snapshot").Start(ctx, "Write")
	defer span.End()

	if err := fsutil.WriteFileAtomic(f.path, []byte(line), filePerm, dirPerm); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
