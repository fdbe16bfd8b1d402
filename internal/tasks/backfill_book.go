package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/shelfwise/bookshelf/internal/metadata"
)

// BackfillBookTask fills one book's empty metadata fields from douban.
type BackfillBookTask struct {
	BookID uint `json:"book_id"`
}

func (t BackfillBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "backfill_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BackfillBookProcessor creates the processor for single-book backfills.
func BackfillBookProcessor(backfiller *metadata.Backfiller) backlite.QueueProcessor[BackfillBookTask] {
	return func(ctx context.Context, task BackfillBookTask) error {
		if backfiller == nil {
			return fmt.Errorf("backfiller not configured")
		}
		result, err := backfiller.BackfillBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("backfill book %d: %w", task.BookID, err)
		}
		if len(result.FieldsFilled) > 0 {
			log.Printf("[task] backfilled book %d (%s): filled %v",
				task.BookID, result.Book.Title, result.FieldsFilled)
		}
		return nil
	}
}

func NewBackfillBookQueue(backfiller *metadata.Backfiller) backlite.Queue {
	return backlite.NewQueue(BackfillBookProcessor(backfiller))
}
