package drafts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recruit_client/internal/lock"
)

// Reconciler runs a reconcile pass on start and then every interval.
type Reconciler struct {
	queue    *Queue
	interval time.Duration
	logger   *slog.Logger
}

func NewReconciler(queue *Queue, interval time.Duration, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{queue: queue, interval: interval, logger: logger}
}

// Run blocks until ctx is done. A zero interval runs a single pass.
func (r *Reconciler) Run(ctx context.Context) {
	r.pass(ctx)
	if r.interval <= 0 {
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

func (r *Reconciler) pass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := r.queue.ReconcileAll(ctx)
	switch {
	case errors.Is(err, lock.ErrBusy):
		r.logger.Debug("reconcile skipped, another instance holds the lease")
	case err != nil:
		r.logger.Error("reconcile pass failed", slog.String("error", err.Error()))
	case report.Failed > 0:
		r.logger.Warn("reconcile pass left drafts pending", slog.Int("failed", report.Failed))
	}
}
