package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/powderhq/powder/internal/resort"
)

var (
	filterCountry string
	filterPass    string
)

var resortsCmd = &cobra.Command{
	Use:   "resorts",
	Short: "List the resorts in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		defer app.close()

		resorts := app.catalog.All()
		if filterCountry != "" {
			resorts = app.catalog.FilterByCountry(strings.ToUpper(filterCountry))
		}
		if filterPass != "" {
			resorts = filterResortsByPass(resorts, strings.ToUpper(filterPass))
		}

		if len(resorts) == 0 {
			fmt.Println("No resorts match.")
			return nil
		}

		fmt.Printf("%-28s %-24s %-3s %-12s %s\n", "Resort", "Slug", "CC", "Base (ft)", "Pass")
		fmt.Println(strings.Repeat("-", 76))
		for _, r := range resorts {
			pass := r.PassType
			if pass == "" {
				pass = "-"
			}
			fmt.Printf("%-28s %-24s %-3s %-12d %s\n", r.Name, r.Slug(), r.Country, r.ElevationBaseFt, pass)
		}
		return nil
	},
}

func filterResortsByPass(resorts []resort.Resort, passType string) []resort.Resort {
	var out []resort.Resort
	for _, r := range resorts {
		if r.PassType == passType {
			out = append(out, r)
		}
	}
	return out
}

func init() {
	resortsCmd.Flags().StringVar(&filterCountry, "country", "", "filter by ISO country code")
	resortsCmd.Flags().StringVar(&filterPass, "pass", "", "filter by pass affiliation (e.g. EPIC, IKON)")
	rootCmd.AddCommand(resortsCmd)
}
