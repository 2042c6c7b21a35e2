package snowfall

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/powderhq/powder/internal/resort"
)

const (
	// historyDays is the fixed window of measured snowfall to report.
	historyDays = 14

	// archiveDelayDays accounts for the reanalysis lag of the archive
	// source; the window ends this many days before the reference date.
	archiveDelayDays = 5
)

// Service orchestrates per-resort provider fan-out, aggregation and the
// historical fetch path.
type Service struct {
	router  *Router
	archive HistoricalProvider
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the reference-date source. Tests pin it so the
// forecast/history boundary does not depend on wall-clock time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over the routed providers and the archive
// source.
func NewService(router *Router, archive HistoricalProvider, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		router:  router,
		archive: archive,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchForecast queries every applicable provider for the resort
// concurrently, aggregates the successful results by calendar day and
// returns them alongside the list of provider-level failures. Partial
// failure is not an error; ErrNoProvidersSucceeded is returned only when
// every provider failed.
func (s *Service) FetchForecast(ctx context.Context, r resort.Resort, days int) ([]AggregatedDay, []ProviderFailure, error) {
	providers := s.router.Providers(r.Country)
	if len(providers) == 0 {
		return nil, nil, fmt.Errorf("no providers configured")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		results  []ProviderResult
		failures []ProviderFailure
	)

	for _, p := range providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := p.Forecast(ctx, r, days)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn("provider fetch failed",
					slog.String("provider", p.Name()),
					slog.String("resort", r.Slug()),
					slog.Any("error", err),
				)
				failures = append(failures, ProviderFailure{Provider: p.Name(), Err: err})
				return
			}
			results = append(results, result)
		}()
	}
	wg.Wait()

	if len(results) == 0 {
		return nil, failures, fmt.Errorf("%s: %w", r.Slug(), ErrNoProvidersSucceeded)
	}

	return Aggregate(results), failures, nil
}

// FetchHistorical retrieves the most recent fixed window of measured
// snowfall from the archive source. There is no averaging fallback, so a
// single-source failure propagates as an error.
func (s *Service) FetchHistorical(ctx context.Context, r resort.Resort) ([]HistoricalDay, error) {
	end := Day(s.now()).AddDate(0, 0, -archiveDelayDays)
	start := end.AddDate(0, 0, -(historyDays - 1))

	days, err := s.archive.Historical(ctx, r, DayKey(start), DayKey(end))
	if err != nil {
		return nil, fmt.Errorf("historical fetch for %s: %w", r.Slug(), err)
	}
	return days, nil
}
