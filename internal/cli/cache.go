package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/powderhq/powder/internal/httpcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the HTTP response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached API responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.CachePath
		if path == "" {
			var err error
			path, err = httpcache.DefaultPath()
			if err != nil {
				return err
			}
		}

		cache, err := httpcache.Open(path, cfg.CacheTTL)
		if err != nil {
			return err
		}
		defer cache.Close()

		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
