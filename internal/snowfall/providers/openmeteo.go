package providers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
)

// europeanCountries is the coverage set of the ICON regional model.
var europeanCountries = []string{
	"AD", "AT", "BG", "CH", "CZ", "DE", "ES", "FI",
	"FR", "IT", "NO", "PL", "RO", "SE", "SI", "SK",
}

// OpenMeteoModel is a forecast provider backed by one of the Open-Meteo
// model endpoints. The global forecast endpoint and the ECMWF, ICON, JMA
// and BOM model endpoints all share the same query contract and daily
// response shape; they differ only in endpoint, horizon and coverage.
type OpenMeteoModel struct {
	name      string
	endpoint  string
	maxDays   int
	countries []string
	deps      Deps
	breaker   *gobreaker.CircuitBreaker
}

func newOpenMeteoModel(deps Deps, name, endpoint string, maxDays int, countries []string) *OpenMeteoModel {
	return &OpenMeteoModel{
		name:      name,
		endpoint:  endpoint,
		maxDays:   maxDays,
		countries: countries,
		deps:      deps,
		breaker:   newBreaker(name),
	}
}

// NewOpenMeteo returns the global best-match Open-Meteo provider (16-day
// horizon).
func NewOpenMeteo(deps Deps) *OpenMeteoModel {
	return newOpenMeteoModel(deps, "Open-Meteo", "https://api.open-meteo.com/v1/forecast", 16, nil)
}

// NewECMWF returns the global ECMWF IFS model provider (10-day horizon).
func NewECMWF(deps Deps) *OpenMeteoModel {
	return newOpenMeteoModel(deps, "ECMWF", "https://api.open-meteo.com/v1/ecmwf", 10, nil)
}

// NewICON returns the DWD ICON regional model provider for European resorts.
func NewICON(deps Deps) *OpenMeteoModel {
	return newOpenMeteoModel(deps, "ICON", "https://api.open-meteo.com/v1/dwd-icon", 7, europeanCountries)
}

// NewJMA returns the JMA regional model provider for Japanese resorts.
func NewJMA(deps Deps) *OpenMeteoModel {
	return newOpenMeteoModel(deps, "JMA", "https://api.open-meteo.com/v1/jma", 7, []string{"JP"})
}

// NewBOM returns the BOM ACCESS regional model provider for Australia and
// New Zealand.
func NewBOM(deps Deps) *OpenMeteoModel {
	return newOpenMeteoModel(deps, "BOM", "https://api.open-meteo.com/v1/bom", 7, []string{"AU", "NZ"})
}

func (p *OpenMeteoModel) Name() string        { return p.name }
func (p *OpenMeteoModel) MaxDays() int        { return p.maxDays }
func (p *OpenMeteoModel) Countries() []string { return p.countries }

// openMeteoDaily is the daily block shared by every Open-Meteo model
// endpoint. Snowfall is reported in centimeters and may contain nulls.
type openMeteoDaily struct {
	Daily struct {
		Time        []string   `json:"time"`
		SnowfallSum []*float64 `json:"snowfall_sum"`
	} `json:"daily"`
}

// Forecast fetches the per-day snowfall forecast, silently clamped to the
// model's horizon.
func (p *OpenMeteoModel) Forecast(ctx context.Context, r resort.Resort, days int) (snowfall.ProviderResult, error) {
	days = snowfall.ClampDays(days, p.maxDays)

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(r.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(r.Longitude, 'f', 4, 64))
	query.Set("daily", "snowfall_sum")
	query.Set("timezone", r.TimezoneOrUTC())
	query.Set("forecast_days", strconv.Itoa(days))

	var payload openMeteoDaily
	if err := p.deps.getJSON(ctx, p.name, p.breaker, p.endpoint, query, nil, &payload); err != nil {
		return snowfall.ProviderResult{}, err
	}

	values, err := parseOpenMeteoDaily(p.name, payload)
	if err != nil {
		return snowfall.ProviderResult{}, err
	}
	return snowfall.ProviderResult{Provider: p.name, Days: values}, nil
}

func parseOpenMeteoDaily(provider string, payload openMeteoDaily) ([]snowfall.DailyValue, error) {
	dates := payload.Daily.Time
	sums := payload.Daily.SnowfallSum

	values := make([]snowfall.DailyValue, 0, len(dates))
	for i, dateStr := range dates {
		day, err := snowfall.ParseDay(dateStr)
		if err != nil {
			return nil, &snowfall.ParseError{Provider: provider, Field: "daily.time", Err: err}
		}

		// Nulls mean no model output for the day's sum; the upstream
		// reports them as 0 accumulation.
		var cm float64
		if i < len(sums) && sums[i] != nil {
			cm = *sums[i]
		}
		if cm < 0 {
			cm = 0
		}

		values = append(values, snowfall.DailyValue{Date: day, Inches: cm * cmToInches})
	}
	return values, nil
}
