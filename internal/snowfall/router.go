package snowfall

// Router selects the providers to query for a resort: every global provider,
// plus at most one regional provider whose country set contains the resort's
// country. Unknown countries get the global providers only, never an error.
type Router struct {
	global   []Provider
	regional map[string]Provider // country code -> provider
}

// NewRouter builds a router from the configured provider set. Providers with
// a nil country set are global; the rest are indexed by country. The table
// is static after construction.
func NewRouter(providers ...Provider) *Router {
	r := &Router{regional: make(map[string]Provider)}
	for _, p := range providers {
		countries := p.Countries()
		if countries == nil {
			r.global = append(r.global, p)
			continue
		}
		for _, c := range countries {
			r.regional[c] = p
		}
	}
	return r
}

// Providers returns the ordered provider set for a country code: globals
// first, then the regional provider if one covers the country.
func (r *Router) Providers(country string) []Provider {
	out := make([]Provider, 0, len(r.global)+1)
	out = append(out, r.global...)
	if p, ok := r.regional[country]; ok {
		out = append(out, p)
	}
	return out
}
