package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/powderhq/powder/internal/config"
	"github.com/powderhq/powder/internal/export"
)

var (
	exportOut  string
	exportDays int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export forecasts and history for every resort as JSON",
	Long: `Export fetches the consensus forecast and the recent measured snowfall
for every resort in the catalog and writes one JSON document for frontend
consumers. A resort whose providers all failed is included with an error
field instead of aborting the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		doc := export.Document{GeneratedAt: time.Now().UTC()}

		for _, r := range app.catalog.All() {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			entry := export.ResortForecast{Resort: r}

			days, failures, err := app.service.FetchForecast(ctx, r, exportDays)
			if err != nil {
				entry.Error = err.Error()
				doc.Resorts = append(doc.Resorts, entry)
				continue
			}
			entry.Forecast = days
			for _, f := range failures {
				entry.Failures = append(entry.Failures, f.Provider)
			}

			if history, err := app.service.FetchHistorical(ctx, r); err == nil {
				entry.History = history
			} else {
				log.Warn("export: historical fetch failed",
					"resort", r.Slug(), "error", err)
			}

			doc.Resorts = append(doc.Resorts, entry)
		}

		if err := export.Write(exportOut, doc); err != nil {
			return err
		}
		fmt.Printf("Exported %d resorts to %s\n", len(doc.Resorts), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "powder.json", "output file path")
	exportCmd.Flags().IntVarP(&exportDays, "days", "d", config.DefaultForecastDays, "number of days to forecast")
	rootCmd.AddCommand(exportCmd)
}
