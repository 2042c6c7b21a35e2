package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/powderhq/powder/internal/config"
)

var (
	cfgFile     string
	resortsPath string
	noCache     bool
	verbose     bool

	cfg config.AppConfig
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "powder",
	Short: "Ski resort snowfall forecast aggregator",
	Long: `Powder aggregates daily snowfall predictions for ski resorts across
several independent weather models and reports a consensus forecast per day,
alongside each model's individual call.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.powder.yaml)")
	rootCmd.PersistentFlags().StringVar(&resortsPath, "resorts", "", "resort catalog JSON file (default is the embedded catalog)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the HTTP response cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".powder")
	}

	viper.SetEnvPrefix("powder")
	viper.AutomaticEnv()

	godotenv.Load()

	viper.SetDefault("http_timeout", config.DefaultHTTPTimeout.String())
	viper.SetDefault("cache_ttl", config.DefaultCacheTTL.String())
	viper.SetDefault("refresh_interval", config.DefaultRefreshInterval.String())
	viper.SetDefault("port", config.DefaultPort)
	viper.SetDefault("forecast_days", config.DefaultForecastDays)
	viper.BindEnv("geocoder_api_key", "GOOGLE_GEOCODER_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	cfg = config.Default()
	cfg.HTTPTimeout = durationSetting("http_timeout", config.DefaultHTTPTimeout)
	cfg.CacheTTL = durationSetting("cache_ttl", config.DefaultCacheTTL)
	cfg.RefreshInterval = durationSetting("refresh_interval", config.DefaultRefreshInterval)
	cfg.ForecastDays = viper.GetInt("forecast_days")
	cfg.Port = viper.GetString("port")
	cfg.CachePath = viper.GetString("cache_path")
	cfg.ResortsPath = viper.GetString("resorts_path")
	cfg.GeocoderAPIKey = viper.GetString("geocoder_api_key")
	cfg.TrackedResorts = viper.GetStringSlice("tracked_resorts")

	if resortsPath != "" {
		cfg.ResortsPath = resortsPath
	}
	if noCache {
		cfg.CacheEnabled = false
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func durationSetting(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
