package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/snowfall"
	"github.com/powderhq/powder/internal/store"
)

var validate = validator.New()

// Deps are the collaborators the HTTP layer exposes.
type Deps struct {
	Catalog *resort.Catalog
	Service *snowfall.Service
	Store   *store.MemoryStore
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/resorts", func(c *fiber.Ctx) error {
		resorts := deps.Catalog.All()
		if country := c.Query("country"); country != "" {
			resorts = deps.Catalog.FilterByCountry(country)
		}
		if pass := c.Query("pass"); pass != "" {
			filtered := resorts[:0:0]
			for _, r := range resorts {
				if r.PassType == pass {
					filtered = append(filtered, r)
				}
			}
			resorts = filtered
		}
		return c.JSON(fiber.Map{"resorts": resorts})
	})

	v1.Get("/snowfall/forecast", func(c *fiber.Ctx) error {
		req, err := parseForecastQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		r, ok := deps.Catalog.Get(req.Resort)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown resort")
		}

		// Snapshots pre-warmed by the scheduler answer without touching
		// the upstreams; a cold store falls back to a live fetch.
		if snap, err := deps.Store.GetLatest(r.Slug()); err == nil {
			return c.JSON(forecastResponse(r, snap))
		}

		days, failures, err := deps.Service.FetchForecast(c.Context(), r, req.Days)
		if err != nil {
			if errors.Is(err, snowfall.ErrNoProvidersSucceeded) {
				return fiber.NewError(fiber.StatusBadGateway, "all forecast providers failed")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}

		snap := store.ForecastSnapshot{FetchedAt: time.Now().UTC(), Days: days, Failures: failures}
		deps.Store.SaveSnapshot(r.Slug(), snap)
		return c.JSON(forecastResponse(r, snap))
	})

	v1.Get("/snowfall/history", func(c *fiber.Ctx) error {
		slug := c.Query("resort")
		if slug == "" {
			return fiber.NewError(fiber.StatusBadRequest, "resort query parameter is required")
		}

		r, ok := deps.Catalog.Get(slug)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown resort")
		}

		days, err := deps.Service.FetchHistorical(c.Context(), r)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "historical source failed")
		}

		return c.JSON(fiber.Map{
			"resort":  r,
			"history": days,
		})
	})
}

func forecastResponse(r resort.Resort, snap store.ForecastSnapshot) fiber.Map {
	failed := make([]string, 0, len(snap.Failures))
	for _, f := range snap.Failures {
		failed = append(failed, f.Provider)
	}
	return fiber.Map{
		"resort":    r,
		"fetchedAt": snap.FetchedAt,
		"days":      snap.Days,
		"failures":  failed,
	}
}

// forecastQuery holds the validated query parameters for the forecast
// endpoint. The days bound matches the broadest provider horizon.
type forecastQuery struct {
	Resort string `validate:"required"`
	Days   int    `validate:"required,min=1,max=16"`
}

func parseForecastQuery(c *fiber.Ctx) (forecastQuery, error) {
	q := forecastQuery{
		Resort: c.Query("resort"),
		Days:   c.QueryInt("days", 7),
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}
