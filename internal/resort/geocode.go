package resort

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// Geocoder resolves coordinates for resorts whose catalog entries carry only
// a name and region.
type Geocoder interface {
	Locate(r Resort) (lat, lon float64, err error)
}

// GoogleGeocoder backfills coordinates through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the shared geocoder client with the given
// API key.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

// Locate resolves the resort's name/region/country to coordinates.
func (g *GoogleGeocoder) Locate(r Resort) (float64, float64, error) {
	address := geocoder.Address{
		City:    r.Name,
		State:   r.Region,
		Country: r.Country,
	}
	location, err := geocoder.Geocoding(address)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", r.Name, err)
	}
	return location.Latitude, location.Longitude, nil
}
