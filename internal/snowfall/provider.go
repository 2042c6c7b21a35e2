package snowfall

import (
	"context"

	"github.com/powderhq/powder/internal/resort"
)

// Provider abstracts one external snowfall forecast source. Implementations
// own their endpoint, query-parameter contract, response parsing and unit
// normalization; callers only ever see DailyValue sequences in inches.
type Provider interface {
	// Name is the label attached to this provider's values in aggregated
	// output. It is not a discriminant for logic.
	Name() string

	// MaxDays is the longest forecast horizon the upstream supports.
	// Requests for more days are clamped silently, never rejected.
	MaxDays() int

	// Countries lists the ISO country codes this provider covers, or nil
	// for a global provider.
	Countries() []string

	// Forecast fetches the per-day snowfall forecast for a resort.
	Forecast(ctx context.Context, r resort.Resort, days int) (ProviderResult, error)
}

// HistoricalProvider is the degenerate single-source path for measured
// (reanalysis) snowfall. The window is passed explicitly so callers control
// the reference date.
type HistoricalProvider interface {
	Name() string
	Historical(ctx context.Context, r resort.Resort, start, end string) ([]HistoricalDay, error)
}

// ClampDays bounds a requested horizon to a provider's maximum.
func ClampDays(requested, max int) int {
	if requested > max {
		return max
	}
	return requested
}
