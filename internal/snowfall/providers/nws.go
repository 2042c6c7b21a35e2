package providers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
)

// NWSProvider is the official US regional source. It requires a two-step
// protocol: coordinates are first resolved to a forecast grid point, then
// the grid point is queried for raw snowfall amounts. The grid lookup is
// cached on its own URL key, so a failed forecast step never wastes a
// successful lookup.
type NWSProvider struct {
	baseURL string
	deps    Deps
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

// NWSOption configures an NWSProvider.
type NWSOption func(*NWSProvider)

// WithNWSClock overrides the reference date used to drop already-elapsed
// forecast days.
func WithNWSClock(now func() time.Time) NWSOption {
	return func(p *NWSProvider) { p.now = now }
}

// NewNWS returns the National Weather Service provider.
func NewNWS(deps Deps, opts ...NWSOption) *NWSProvider {
	p := &NWSProvider{
		baseURL: "https://api.weather.gov",
		deps:    deps,
		breaker: newBreaker("NWS"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *NWSProvider) Name() string        { return "NWS" }
func (p *NWSProvider) MaxDays() int        { return 7 }
func (p *NWSProvider) Countries() []string { return []string{"US"} }

func (p *NWSProvider) headers() map[string]string {
	return map[string]string{"Accept": "application/geo+json"}
}

type nwsGridPoint struct {
	GridID string
	GridX  int
	GridY  int
}

func (p *NWSProvider) lookupGridPoint(ctx context.Context, r resort.Resort) (nwsGridPoint, error) {
	var payload struct {
		Properties struct {
			GridID string `json:"gridId"`
			GridX  int    `json:"gridX"`
			GridY  int    `json:"gridY"`
		} `json:"properties"`
	}

	endpoint := fmt.Sprintf("%s/points/%.4f,%.4f", p.baseURL, r.Latitude, r.Longitude)
	if err := p.deps.getJSON(ctx, p.Name(), p.breaker, endpoint, nil, p.headers(), &payload); err != nil {
		return nwsGridPoint{}, err
	}
	if payload.Properties.GridID == "" {
		return nwsGridPoint{}, &snowfall.ParseError{
			Provider: p.Name(),
			Field:    "properties.gridId",
			Err:      fmt.Errorf("missing grid identifier for %.4f,%.4f", r.Latitude, r.Longitude),
		}
	}
	return nwsGridPoint{
		GridID: payload.Properties.GridID,
		GridX:  payload.Properties.GridX,
		GridY:  payload.Properties.GridY,
	}, nil
}

// Forecast resolves the resort's grid point and fetches its raw forecast.
// A failed grid lookup fails the provider without attempting the second
// request.
func (p *NWSProvider) Forecast(ctx context.Context, r resort.Resort, days int) (snowfall.ProviderResult, error) {
	days = snowfall.ClampDays(days, p.MaxDays())

	grid, err := p.lookupGridPoint(ctx, r)
	if err != nil {
		return snowfall.ProviderResult{}, err
	}

	var payload struct {
		Properties struct {
			SnowfallAmount struct {
				Values []struct {
					ValidTime string   `json:"validTime"`
					Value     *float64 `json:"value"`
				} `json:"values"`
			} `json:"snowfallAmount"`
		} `json:"properties"`
	}

	endpoint := fmt.Sprintf("%s/gridpoints/%s/%d,%d", p.baseURL, grid.GridID, grid.GridX, grid.GridY)
	if err := p.deps.getJSON(ctx, p.Name(), p.breaker, endpoint, nil, p.headers(), &payload); err != nil {
		return snowfall.ProviderResult{}, err
	}

	// Sum the interval amounts (mm) into daily totals.
	totals := make(map[string]float64)
	for _, entry := range payload.Properties.SnowfallAmount.Values {
		// validTime is an ISO 8601 interval, e.g.
		// "2024-01-15T06:00:00+00:00/PT6H"; only the start matters.
		timeStr, _, _ := strings.Cut(entry.ValidTime, "/")
		start, err := time.Parse(time.RFC3339, timeStr)
		if err != nil {
			continue
		}

		var mm float64
		if entry.Value != nil {
			mm = *entry.Value
		}
		if mm < 0 {
			mm = 0
		}
		totals[snowfall.DayKey(start)] += mm * mmToInches
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	today := snowfall.Day(p.now())
	values := make([]snowfall.DailyValue, 0, days)
	for _, k := range keys {
		day, err := snowfall.ParseDay(k)
		if err != nil {
			continue
		}
		if day.Before(today) {
			continue
		}
		if len(values) >= days {
			break
		}
		values = append(values, snowfall.DailyValue{Date: day, Inches: totals[k]})
	}

	return snowfall.ProviderResult{Provider: p.Name(), Days: values}, nil
}
