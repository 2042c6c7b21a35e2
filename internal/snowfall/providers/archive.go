package providers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
)

// ArchiveProvider fetches measured (reanalysis) snowfall from the
// Open-Meteo archive endpoint. It is the single historical source; there is
// no averaging across archives.
type ArchiveProvider struct {
	endpoint string
	deps     Deps
	breaker  *gobreaker.CircuitBreaker
}

// NewArchive returns the Open-Meteo archive provider.
func NewArchive(deps Deps) *ArchiveProvider {
	return &ArchiveProvider{
		endpoint: "https://archive-api.open-meteo.com/v1/archive",
		deps:     deps,
		breaker:  newBreaker("Open-Meteo-Archive"),
	}
}

func (p *ArchiveProvider) Name() string { return "Open-Meteo-Archive" }

// Historical fetches measured daily snowfall for the inclusive
// start..end window (YYYY-MM-DD).
func (p *ArchiveProvider) Historical(ctx context.Context, r resort.Resort, start, end string) ([]snowfall.HistoricalDay, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(r.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(r.Longitude, 'f', 4, 64))
	query.Set("daily", "snowfall_sum")
	query.Set("timezone", r.TimezoneOrUTC())
	query.Set("start_date", start)
	query.Set("end_date", end)

	var payload openMeteoDaily
	if err := p.deps.getJSON(ctx, p.Name(), p.breaker, p.endpoint, query, nil, &payload); err != nil {
		return nil, err
	}

	values, err := parseOpenMeteoDaily(p.Name(), payload)
	if err != nil {
		return nil, err
	}

	days := make([]snowfall.HistoricalDay, 0, len(values))
	for _, v := range values {
		days = append(days, snowfall.HistoricalDay{Date: v.Date, Inches: v.Inches, Source: p.Name()})
	}
	return days, nil
}
