package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/seedkeeper/internal/twofa/entity"
)

const (
	snapshotSeedAbsent = "Seed not found\n"
	snapshotFailed     = "Error: failed to generate code\n"
)

type SnapshotOutput struct {
	Line string
	// OK is false when the line records an error instead of a code.
	OK bool
}

// Snapshot writes the current code as "{unix},{code},{remaining}" to the
// snapshot file. Seed and derivation problems are recorded in the file itself;
// only a failed file write is returned as an error.
func (s *Usecase) Snapshot(ctx context.Context) (*SnapshotOutput, error) {
	ctx, span := s.startSpan(ctx, "Snapshot")
	defer span.End()

	out := s.snapshotLine(ctx)

	if err := s.repoSnapshot.Write(ctx, out.Line); err != nil {
		slog.ErrorContext(ctx, "failed to repo write snapshot", "error", err)
		return nil, err
	}

	return out, nil
}

func (s *Usecase) snapshotLine(ctx context.Context) *SnapshotOutput {
	seed, err := s.repoSeed.Read(ctx)
	if errors.Is(err, entity.ErrSeedAbsent) {
		return &SnapshotOutput{Line: snapshotSeedAbsent}
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo read seed for snapshot", "error", err)
		return &SnapshotOutput{Line: snapshotFailed}
	}

	gc, err := s.currentCode(seed, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate snapshot code", "error", err)
		return &SnapshotOutput{Line: snapshotFailed}
	}

	line := strconv.FormatInt(gc.At.Unix(), 10) + "," + gc.Code + "," + strconv.Itoa(gc.ValidFor) + "\n"
	return &SnapshotOutput{Line: line, OK: true}
}
