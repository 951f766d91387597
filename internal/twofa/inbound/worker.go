package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/seedkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/seedkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/seedkeeper/internal/twofa/usecase"
	"go.uber.org/atomic"
)

// DefaultSnapshotInterval matches a once-a-minute cron schedule.
const DefaultSnapshotInterval = time.Minute

type snapshotter interface {
	Snapshot(ctx context.Context) (*usecase.SnapshotOutput, error)
}

// SnapshotWorker refreshes the snapshot file on a fixed interval.
type SnapshotWorker struct {
	uc       snapshotter
	uuid     uid.StringID
	interval time.Duration

	runs     atomic.Int64
	failures atomic.Int64
	lastErr  atomic.Error
	lastRun  atomic.Time
}

// SnapshotStats is a point-in-time view of the worker counters.
type SnapshotStats struct {
	Runs     int64
	Failures int64
	LastErr  error
	LastRun  time.Time
}

// LogValue implements slog.LogValuer.
func (s SnapshotStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("runs", s.Runs),
		slog.Int64("failures", s.Failures),
	}
	if !s.LastRun.IsZero() {
		attrs = append(attrs, slog.Time("last_run", s.LastRun))
	}
	if s.LastErr != nil {
		attrs = append(attrs, slog.String("last_error", s.LastErr.Error()))
	}
	return slog.GroupValue(attrs...)
}

func NewSnapshotWorker(uc snapshotter, uuid uid.StringID, interval time.Duration) *SnapshotWorker {
	if interval <= 0 {
		interval = DefaultSnapshotInterval
	}
	return &SnapshotWorker{uc: uc, uuid: uuid, interval: interval}
}

// RegisterSnapshotWorker starts w on routine. It stops when ctx is done.
func RegisterSnapshotWorker(ctx context.Context, routine *goroutine.Manager, w *SnapshotWorker) {
	routine.Go(ctx, func(pCtx context.Context) error {
		slog.InfoContext(ctx, "Running job for snapshot writer", "interval", w.interval.String())
		w.Run(pCtx)
		return nil
	})
}

// Run writes one snapshot immediately and then one per interval until ctx is done.
func (w *SnapshotWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "snapshot writer stopped", "stats", w.Stats())
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce writes a single snapshot and updates the counters.
func (w *SnapshotWorker) RunOnce(ctx context.Context) {
	if w.uuid != nil {
		ctx = instrument.SetCorrelationID(ctx, w.uuid.Generate())
	}

	w.runs.Inc()
	w.lastRun.Store(time.Now())

	out, err := w.uc.Snapshot(ctx)
	if err != nil {
		w.failures.Inc()
		w.lastErr.Store(err)
		slog.ErrorContext(ctx, "failed to write snapshot", "error", err)
		return
	}

	w.lastErr.Store(nil)
	if !out.OK {
		slog.WarnContext(ctx, "snapshot recorded without a code")
	}
}

// Stats returns the current counters.
func (w *SnapshotWorker) Stats() SnapshotStats {
	return SnapshotStats{
		Runs:     w.runs.Load(),
		Failures: w.failures.Load(),
		LastErr:  w.lastErr.Load(),
		LastRun:  w.lastRun.Load(),
	}
}
