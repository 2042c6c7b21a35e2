package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [resort]",
	Short: "Show the last two weeks of measured snowfall for a resort",
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

		days, err := app.service.FetchHistorical(ctx, r)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n", strings.Repeat("=", 48))
		fmt.Printf("  Recent Snowfall: %s, %s\n", r.Name, r.Country)
		fmt.Printf("%s\n\n", strings.Repeat("=", 48))

		if len(days) == 0 {
			fmt.Println("No historical data available.")
			return nil
		}

		fmt.Printf("%-12s %10s\n", "Date", "Snowfall")
		fmt.Println(strings.Repeat("-", 23))

		var total float64
		for _, day := range days {
			fmt.Printf("%-12s %9.1f\"\n", day.Date.Format("Mon 01/02"), day.Inches)
			total += day.Inches
		}

		fmt.Println(strings.Repeat("-", 23))
		fmt.Printf("%-12s %9.1f\"\n\n", "Total", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
