package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/shopsync/internal/logger"
)

// spyEngine counts sync rounds without touching the network or the store.
type spyEngine struct {
	calls    atomic.Int64
	lastUser atomic.Value
	err      error
}

func (s *spyEngine) SyncRound(_ context.Context, userID string) (SyncResult, error) {
	s.calls.Add(1)
	s.lastUser.Store(userID)
	return SyncResult{}, s.err
}

func TestSyncJob_Start_RunsRoundsOnTicker(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, logger.Nop())
	require.NotNil(t, job)

	job.Start(context.Background(), testUser, 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "expected several rounds in 55ms, got %d", got)
	assert.Equal(t, testUser, spy.lastUser.Load())
}

func TestSyncJob_Stop_HaltsRounds(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), testUser, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load())
}

func TestSyncJob_StopBeforeStart_NoPanic(t *testing.T) {
	job := NewSyncJob(&spyEngine{}, logger.Nop())
	assert.NotPanics(t, func() { job.Stop() })
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_RoundErrorDoesNotStopJob(t *testing.T) {
	spy := &spyEngine{err: assert.AnError}
	job := NewSyncJob(spy, logger.Nop())

	job.Start(context.Background(), testUser, 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(3))
}

func TestSyncJob_ContextCancelStopsJob(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	job.Start(ctx, testUser, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after context cancellation")
	}
}

func TestSyncJob_Restart_ReplacesPrevious(t *testing.T) {
	spy := &spyEngine{}
	job := NewSyncJob(spy, logger.Nop())
	ctx := context.Background()

	job.Start(ctx, testUser, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	callsBefore := spy.calls.Load()
	assert.Greater(t, callsBefore, int64(0))

	job.Start(ctx, "user-2", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	assert.Greater(t, spy.calls.Load(), callsBefore)
	assert.Equal(t, "user-2", spy.lastUser.Load())
}
