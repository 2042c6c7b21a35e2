package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/powderhq/powder/internal/api/http"
	"github.com/powderhq/powder/internal/resort"
	"github.com/powderhq/powder/internal/scheduler"
	"github.com/powderhq/powder/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the aggregated snowfall API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

		sched := scheduler.New(trackedResorts(app), cfg.ForecastDays, cfg.RefreshInterval,
			app.service, memStore, log)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		srv := fiber.New(fiber.Config{
			AppName:               "powder",
			DisableStartupMessage: true,
			ReadTimeout:           10 * time.Second,
			WriteTimeout:          30 * time.Second,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				if e, ok := err.(*fiber.Error); ok {
					code = e.Code
				}
				return c.Status(code).JSON(fiber.Map{
					"error":   true,
					"message": err.Error(),
				})
			},
		})

		srv.Use(fiberlogger.New())
		srv.Use(recover.New())

		srv.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok", "service": "powder"})
		})

		httpapi.RegisterRoutes(srv, httpapi.Deps{
			Catalog: app.catalog,
			Service: app.service,
			Store:   memStore,
		})

		go func() {
			if err := srv.Listen(":" + cfg.Port); err != nil {
				log.Error("server stopped", "error", err)
			}
		}()
		log.Info("serving snowfall API", "port", cfg.Port)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.ShutdownWithContext(shutdownCtx)
	},
}

// trackedResorts resolves the configured slugs, defaulting to the whole
// catalog when none are configured.
func trackedResorts(app *app) []resort.Resort {
	if len(cfg.TrackedResorts) == 0 {
		return app.catalog.All()
	}
	var out []resort.Resort
	for _, slug := range cfg.TrackedResorts {
		if r, ok := app.catalog.Get(slug); ok {
			out = append(out, r)
		} else {
			log.Warn("unknown tracked resort", "slug", slug)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
