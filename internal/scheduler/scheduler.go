package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/danielfonkaz/WeatherAggregator/internal/store"
)

// Scheduler periodically prunes aged entries from the access-log store.
type Scheduler struct {
	scheduler *gocron.Scheduler
	db        *store.DB
	interval  time.Duration
	maxAge    time.Duration
}

// New creates a Scheduler that deletes access-log rows older than maxAge
// every interval.
func New(db *store.DB, interval, maxAge time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		db:        db,
		interval:  interval,
		maxAge:    maxAge,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.maxAge <= 0 {
		log.Println("scheduler: access-log retention disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		cutoff := time.Now().Add(-s.maxAge).Unix()
		n, err := s.db.PruneBefore(cutoff)
		if err != nil {
			log.Printf("scheduler: access-log prune failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("scheduler: pruned %d access-log rows", n)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
