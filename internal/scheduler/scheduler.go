package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weathertweetbot/internal/pipeline"
)

// Scheduler optionally triggers the publish cycle on a fixed interval, for
// deployments without an external cron caller. The /run-tweet-task endpoint
// remains the primary trigger; this runs alongside it when enabled.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipe      *pipeline.Pipeline
	interval  time.Duration
}

// New creates a Scheduler. An interval of zero disables scheduling entirely.
func New(interval time.Duration, pipe *pipeline.Pipeline) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pipe:      pipe,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: no interval configured; relying on external trigger")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		log.Println("scheduler: running weather tweet job")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		out := s.pipe.RunPublishCycle(ctx)
		if out.Status == pipeline.StatusFailed {
			log.Printf("scheduler: cycle failed at %s: %v", out.Stage, out.Err)
			return
		}
		log.Printf("scheduler: cycle finished with status %s", out.Status)
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
