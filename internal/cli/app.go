package cli

import (
	"fmt"
	"net/http"

	"github.com/powderhq/powder/internal/httpcache"
	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
	"github.com/powderhq/powder/internal/snowfall/providers"
)

// app bundles the wired-up collaborators a command needs.
type app struct {
	catalog *resort.Catalog
	service *snowfall.Service
	cache   *httpcache.Cache
}

// buildApp assembles the provider set, router, cache and catalog from the
// resolved configuration.
func buildApp() (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cache := httpcache.Disabled()
	if cfg.CacheEnabled {
		path := cfg.CachePath
		if path == "" {
			var err error
			path, err = httpcache.DefaultPath()
			if err != nil {
				return nil, err
			}
		}
		var err error
		cache, err = httpcache.Open(path, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("open http cache: %w", err)
		}
	}

	deps := providers.Deps{
		Client: &http.Client{Timeout: cfg.HTTPTimeout},
		Cache:  cache,
	}

	router := snowfall.NewRouter(
		providers.NewOpenMeteo(deps),
		providers.NewECMWF(deps),
		providers.NewICON(deps),
		providers.NewJMA(deps),
		providers.NewBOM(deps),
		providers.NewNWS(deps),
	)

	service := snowfall.NewService(router, providers.NewArchive(deps), log)

	catalog, err := loadCatalog()
	if err != nil {
		cache.Close()
		return nil, err
	}

	return &app{catalog: catalog, service: service, cache: cache}, nil
}

func loadCatalog() (*resort.Catalog, error) {
	if cfg.ResortsPath == "" {
		return resort.Default()
	}
	var geo resort.Geocoder
	if cfg.GeocoderAPIKey != "" {
		geo = resort.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
	return resort.Load(cfg.ResortsPath, geo)
}

func (a *app) close() {
	a.cache.Close()
}

// resolveResort maps a slug argument to a catalog entry, defaulting to the
// first resort when none is given.
func (a *app) resolveResort(args []string) (resort.Resort, error) {
	if len(args) == 0 {
		all := a.catalog.All()
		if len(all) == 0 {
			return resort.Resort{}, fmt.Errorf("resort catalog is empty")
		}
		return all[0], nil
	}
	r, ok := a.catalog.Get(args[0])
	if !ok {
		return resort.Resort{}, fmt.Errorf("unknown resort %q (try \"powder resorts\")", args[0])
	}
	return r, nil
}
