package resort

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed resorts.json
var defaultCatalog []byte

// Catalog is a read-only collection of resorts indexed by slug.
type Catalog struct {
	resorts []Resort
	bySlug  map[string]Resort
}

type catalogFile struct {
	Resorts []Resort `json:"resorts"`
}

// Load reads a catalog from a JSON file of the form {"resorts": [...]}.
// Entries missing coordinates are backfilled through the geocoder when one
// is configured, otherwise rejected.
func Load(path string, geo Geocoder) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resorts file: %w", err)
	}
	return parse(raw, geo)
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return parse(defaultCatalog, nil)
}

func parse(raw []byte, geo Geocoder) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse resorts file: %w", err)
	}

	c := &Catalog{bySlug: make(map[string]Resort, len(file.Resorts))}
	for _, r := range file.Resorts {
		if r.Latitude == 0 && r.Longitude == 0 {
			if geo == nil {
				return nil, fmt.Errorf("resort %q has no coordinates and no geocoder is configured", r.Name)
			}
			lat, lon, err := geo.Locate(r)
			if err != nil {
				return nil, fmt.Errorf("geocode resort %q: %w", r.Name, err)
			}
			r.Latitude, r.Longitude = lat, lon
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		slug := r.Slug()
		if _, dup := c.bySlug[slug]; dup {
			return nil, fmt.Errorf("duplicate resort slug %q", slug)
		}
		c.bySlug[slug] = r
		c.resorts = append(c.resorts, r)
	}

	sort.Slice(c.resorts, func(i, j int) bool { return c.resorts[i].Name < c.resorts[j].Name })
	return c, nil
}

// Get looks a resort up by slug.
func (c *Catalog) Get(slug string) (Resort, bool) {
	r, ok := c.bySlug[slug]
	return r, ok
}

// All returns every resort, ordered by name.
func (c *Catalog) All() []Resort {
	out := make([]Resort, len(c.resorts))
	copy(out, c.resorts)
	return out
}

// Len reports the number of resorts in the catalog.
func (c *Catalog) Len() int { return len(c.resorts) }

// FilterByCountry returns the resorts in the given ISO country code.
func (c *Catalog) FilterByCountry(country string) []Resort {
	var out []Resort
	for _, r := range c.resorts {
		if r.Country == country {
			out = append(out, r)
		}
	}
	return out
}

// FilterByPass returns the resorts affiliated with the given pass type.
func (c *Catalog) FilterByPass(passType string) []Resort {
	var out []Resort
	for _, r := range c.resorts {
		if r.PassType == passType {
			out = append(out, r)
		}
	}
	return out
}
