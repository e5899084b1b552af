package shopsync

import (
	"context"
	"time"

	"github.com/nordvik/shopsync/internal/service"
)

// syncWorker adapts the periodic sync job to the workers aggregate so the
// facade can start and stop all background work through one handle.
type syncWorker struct {
	job      service.SyncJob
	userID   string
	interval time.Duration
}

func (w *syncWorker) Run(ctx context.Context) {
	w.job.Start(ctx, w.userID, w.interval)
}

func (w *syncWorker) Stop() {
	w.job.Stop()
}
