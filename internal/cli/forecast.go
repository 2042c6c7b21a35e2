package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/powderhq/powder/internal/config"
	"github.com/powderhq/powder/internal/snowfall"
)

var forecastDays int

var forecastCmd = &cobra.Command{
	Use:   "forecast [resort]",
	Short: "Show the consensus snowfall forecast for a resort",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r, err := app.resolveResort(args)
		if err != nil {
			return err
		}

		days, failures, err := app.service.FetchForecast(ctx, r, forecastDays)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n", strings.Repeat("=", 60))
		fmt.Printf("  Snowfall Forecast: %s, %s\n", r.Name, r.Country)
		fmt.Printf("  Base elevation: %d ft\n", r.ElevationBaseFt)
		fmt.Printf("%s\n\n", strings.Repeat("=", 60))

		if len(days) == 0 {
			fmt.Println("No forecast data available.")
			return nil
		}

		printForecastTable(days)

		for _, f := range failures {
			fmt.Printf("warning: %s\n", f.Error())
		}
		return nil
	},
}

func init() {
	forecastCmd.Flags().IntVarP(&forecastDays, "days", "d", config.DefaultForecastDays, "number of days to forecast")
	rootCmd.AddCommand(forecastCmd)
}

func printForecastTable(days []snowfall.AggregatedDay) {
	sources := sourceNames(days)

	header := fmt.Sprintf("%-12s %8s", "Date", "Average")
	for _, s := range sources {
		header += fmt.Sprintf(" %12s", s)
	}
	fmt.Println(header)
	fmt.Println(strings.Repeat("-", len(header)))

	var total float64
	for _, day := range days {
		row := fmt.Sprintf("%-12s %7.1f\"", day.Date.Format("Mon 01/02"), day.AvgInches)
		for _, s := range sources {
			if v, ok := day.Sources[s]; ok {
				row += fmt.Sprintf(" %11.1f\"", v)
			} else {
				row += fmt.Sprintf(" %12s", "-")
			}
		}
		fmt.Println(row)
		total += day.AvgInches
	}

	fmt.Println(strings.Repeat("-", len(header)))
	fmt.Printf("%-12s %7.1f\"\n\n", "Total", total)
}

func sourceNames(days []snowfall.AggregatedDay) []string {
	seen := make(map[string]bool)
	var names []string
	for _, day := range days {
		for s := range day.Sources {
			if !seen[s] {
				seen[s] = true
				names = append(names, s)
			}
		}
	}
	sort.Strings(names)
	return names
}
