package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
	"github.com/powderhq/powder/internal/store"
)

// Scheduler periodically refreshes forecast snapshots for tracked resorts.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *snowfall.Service
	store     *store.MemoryStore
	resorts   []resort.Resort
	days      int
	interval  time.Duration
	log       *slog.Logger
}

// New creates a Scheduler that refreshes the given resorts on the interval.
func New(resorts []resort.Resort, days int, interval time.Duration,
	service *snowfall.Service, st *store.MemoryStore, log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		store:     st,
		resorts:   resorts,
		days:      days,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic refresh job and runs it once immediately so
// the store is warm before the first request.
func (s *Scheduler) Start() error {
	if len(s.resorts) == 0 {
		s.log.Info("scheduler: no tracked resorts, nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.refreshAll)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) refreshAll() {
	s.log.Info("scheduler: refreshing forecasts", slog.Int("resorts", len(s.resorts)))

	var wg sync.WaitGroup
	for _, r := range s.resorts {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			days, failures, err := s.service.FetchForecast(ctx, r, s.days)
			if err != nil {
				s.log.Warn("scheduler: refresh failed",
					slog.String("resort", r.Slug()),
					slog.Any("error", err),
				)
				return
			}

			s.store.SaveSnapshot(r.Slug(), store.ForecastSnapshot{
				FetchedAt: time.Now().UTC(),
				Days:      days,
				Failures:  failures,
			})
		}()
	}
	wg.Wait()

	s.log.Info("scheduler: refresh complete")
}

// Stop stops the scheduler and cancels future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
