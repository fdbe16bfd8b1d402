package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfwise/bookshelf/internal/config"
)

type countingEnqueuer struct {
	calls int
}

func (c *countingEnqueuer) EnqueueAll(_ context.Context) error {
	c.calls++
	return nil
}

func TestBackfillSchedulerDisabled(t *testing.T) {
	s := NewBackfillScheduler(config.Backfill{Enabled: false}, &countingEnqueuer{})
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestBackfillSchedulerRejectsBadSchedule(t *testing.T) {
	s := NewBackfillScheduler(config.Backfill{Enabled: true, Schedule: "not a schedule"}, &countingEnqueuer{})
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
}

func TestBackfillSchedulerStartStop(t *testing.T) {
	enq := &countingEnqueuer{}
	s := NewBackfillScheduler(config.Backfill{Enabled: true, Schedule: "0 4 * * *"}, enq)
	require.NoError(t, s.Start(context.Background()))
	// Start is idempotent
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
	s.Stop()
	assert.Zero(t, enq.calls)
}
