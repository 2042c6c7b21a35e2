package resort

import (
	"fmt"
	"strings"
)

// Resort is the immutable identity of a ski resort. The snowfall core only
// reads coordinates, country code and timezone from it; everything else is
// presentation metadata carried through to exports.
type Resort struct {
	Name            string  `json:"name"`
	Country         string  `json:"country"` // ISO 3166-1 alpha-2
	Region          string  `json:"region,omitempty"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	ElevationBaseFt int     `json:"elevation_base_ft"`
	ElevationPeakFt int     `json:"elevation_peak_ft,omitempty"`
	LiftCount       int     `json:"lift_count,omitempty"`
	PassType        string  `json:"pass_type,omitempty"` // e.g. EPIC, IKON
	Timezone        string  `json:"timezone,omitempty"`  // IANA name, defaults to UTC
}

// Slug returns the canonical lookup key for the resort, e.g.
// "Park City Mountain" -> "park-city-mountain".
func (r Resort) Slug() string {
	slug := strings.ToLower(strings.TrimSpace(r.Name))
	slug = strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			return c
		default:
			return '-'
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// TimezoneOrUTC returns the resort's IANA timezone, falling back to UTC.
func (r Resort) TimezoneOrUTC() string {
	if r.Timezone == "" {
		return "UTC"
	}
	return r.Timezone
}

// Validate checks the fields the snowfall core depends on.
func (r Resort) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("resort name is required")
	}
	if len(r.Country) != 2 {
		return fmt.Errorf("resort %q: country must be an ISO 3166-1 alpha-2 code, got %q", r.Name, r.Country)
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("resort %q: latitude %f out of range", r.Name, r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("resort %q: longitude %f out of range", r.Name, r.Longitude)
	}
	if r.ElevationBaseFt <= 0 {
		return fmt.Errorf("resort %q: base elevation is required", r.Name)
	}
	return nil
}
