// Package workers provides the aggregate for the SDK's background workers
// (currently the periodic sync worker). It defines the Worker interface and a
// Workers collection that starts and stops them in a unified way.
package workers

import "context"

// Worker is a background task with an explicit lifecycle. Run must not
// block; implementations spawn their own goroutines and exit them when ctx
// is cancelled or Stop is called.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// Workers aggregates background workers so the facade can start and stop
// them together.
type Workers struct {
	workers []Worker
}

// New collects ws into a Workers aggregate.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Run starts every worker.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}

// Stop stops every worker, blocking until each has wound down.
func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}
