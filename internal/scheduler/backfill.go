package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/shelfwise/bookshelf/internal/config"
)

// Enqueuer submits a catalogue-wide backfill sweep to the task queue.
type Enqueuer interface {
	EnqueueAll(ctx context.Context) error
}

// BackfillScheduler periodically enqueues a metadata backfill sweep so the
// catalogue catches up on books added with only an ISBN.
type BackfillScheduler struct {
	cfg      config.Backfill
	enqueuer Enqueuer

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewBackfillScheduler(cfg config.Backfill, enqueuer Enqueuer) *BackfillScheduler {
	return &BackfillScheduler{
		cfg:      cfg,
		enqueuer: enqueuer,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the sweep if backfill is enabled. Returns an error for an
// unparseable schedule, never for a disabled scheduler.
func (s *BackfillScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled || s.enqueuer == nil {
		log.Printf("backfill scheduler: disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.enqueuer.EnqueueAll(ctx); err != nil {
			log.Printf("backfill scheduler: enqueue sweep: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.cfg.Schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("backfill scheduler: started with schedule %q", s.cfg.Schedule)
	return nil
}

// Stop halts the scheduler and waits for any in-flight job trigger.
func (s *BackfillScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	log.Printf("backfill scheduler: stopped")
}
