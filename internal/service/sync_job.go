package service

import (
	"context"
	"sync"
	"time"

	"github.com/nordvik/shopsync/internal/logger"
)

type syncJob struct {
	engine SyncEngine
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that runs a sync round on a ticker. The job is
// idle until Start is called.
func NewSyncJob(engine SyncEngine, log *logger.Logger) SyncJob {
	return &syncJob{engine: engine, logger: log}
}

// Start implements [SyncJob]. It stops any previously running job, then
// launches a background goroutine that runs a round every interval. If
// interval is zero or negative it defaults to 5 minutes. The goroutine exits
// when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, userID string, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				result, err := j.engine.SyncRound(jobCtx, userID)
				if err != nil {
					j.logger.Warn().Err(err).Str("user_id", userID).Msg("background sync round failed")
					continue
				}
				if !result.Clean() {
					j.logger.Debug().
						Str("user_id", userID).
						Int("failures", len(result.Failures)).
						Msg("background sync round left entities pending")
				}
			}
		}
	}()
}

// Stop implements [SyncJob]. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the job
// is not running.
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
