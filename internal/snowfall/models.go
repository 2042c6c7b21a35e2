package snowfall

import (
	"time"
)

// dateLayout is the calendar-day format used for keys and wire dates.
const dateLayout = "2006-01-02"

// DailyValue is a single provider's snowfall amount for one calendar day.
// Amounts are always in inches; unit conversion happens at the provider
// boundary, never downstream.
type DailyValue struct {
	Date   time.Time `json:"date"`
	Inches float64   `json:"inches"`
}

// ProviderResult is the ordered per-day sequence one provider returned for
// one resort. The provider name is a label only; aggregation logic never
// branches on it.
type ProviderResult struct {
	Provider string       `json:"provider"`
	Days     []DailyValue `json:"days"`
}

// AggregatedDay is one calendar day's consensus view: the arithmetic mean
// across the providers that reported a value for that day, plus each
// provider's individual value. Providers with no value for the day are
// absent from Sources, not present with a zero.
type AggregatedDay struct {
	Date      time.Time          `json:"date"`
	AvgInches float64            `json:"avgInches"`
	Sources   map[string]float64 `json:"sources"`
}

// HistoricalDay is one measured (reanalysis) snowfall day from the single
// archive source. Historical windows always precede the reference date;
// they are reported standalone and never merged into forecast output.
type HistoricalDay struct {
	Date   time.Time `json:"date"`
	Inches float64   `json:"inches"`
	Source string    `json:"source"`
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD wire date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// DayKey returns the canonical YYYY-MM-DD key for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
