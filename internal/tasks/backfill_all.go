package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/shelfwise/bookshelf/internal/metadata"
)

// BackfillAllTask sweeps the catalogue and backfills every book that has an
// ISBN and at least one empty field. The external source is rate limited, so
// the sweep runs in a single long task rather than fanning out.
type BackfillAllTask struct{}

func (t BackfillAllTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "backfill_all",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BackfillAllProcessor creates the processor for catalogue sweeps.
func BackfillAllProcessor(backfiller *metadata.Backfiller) backlite.QueueProcessor[BackfillAllTask] {
	return func(ctx context.Context, _ BackfillAllTask) error {
		if backfiller == nil {
			return fmt.Errorf("backfiller not configured")
		}
		result, err := backfiller.BackfillAll(ctx)
		if err != nil {
			return fmt.Errorf("backfill sweep: %w", err)
		}
		log.Printf("[task] backfill sweep complete: %d total, %d filled, %d skipped, %d failed",
			result.Total, result.Filled, result.Skipped, result.Failed)
		return nil
	}
}

func NewBackfillAllQueue(backfiller *metadata.Backfiller) backlite.Queue {
	return backlite.NewQueue(BackfillAllProcessor(backfiller))
}
