package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sstent/stravaweather/internal/config"
	"github.com/sstent/stravaweather/internal/strava"
	sweather "github.com/sstent/stravaweather/internal/sync"
	"github.com/sstent/stravaweather/internal/weather"
)

var rootCmd = &cobra.Command{
	Use:   "stravaweather",
	Short: "StravaWeather annotates Strava activities with historical weather",
	Long: `StravaWeather is a CLI application that:
1. Refreshes a Strava OAuth access token
2. Lists recent activities
3. Fetches historical weather for each activity's start location and time
4. Appends a weather summary to the activity description`,
}

// Sync command flags
var maxActivities int
var pageSize int
var lookbackDays int
var providerName string
var dryRun bool
var privacy bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Annotate recent activities with weather",
	Long: `Fetches recent activities from Strava and appends a weather block
to the description of every activity that has GPS data and is not
already annotated. Individual activity failures are logged and skipped;
the run only fails on configuration, authentication or listing errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := buildRunner(cmd)
		if err != nil {
			return err
		}
		runner.DryRun = dryRun

		_, err = runner.Run(cmd.Context())
		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent activities and what sync would do with them",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := buildRunner(cmd)
		if err != nil {
			return err
		}

		return runner.List(cmd.Context())
	},
}

// buildRunner loads config, applies flag overrides, authenticates and
// wires the pipeline.
func buildRunner(cmd *cobra.Command) (*sweather.Runner, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("max-activities") {
		cfg.MaxActivities = maxActivities
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = pageSize
	}
	if cmd.Flags().Changed("lookback-days") {
		cfg.LookbackDays = lookbackDays
	}
	if cmd.Flags().Changed("provider") {
		cfg.WeatherProvider = providerName
	}
	if privacy {
		cfg.Privacy = true
	}

	var provider weather.Provider
	switch cfg.WeatherProvider {
	case config.ProviderVisualCrossing:
		if cfg.WeatherAPIKey == "" {
			return nil, fmt.Errorf("missing required environment variables: WEATHER_API_KEY")
		}
		provider = weather.NewVisualCrossing(cfg.WeatherAPIKey, cfg.HTTPTimeout)
	case config.ProviderOpenMeteo:
		provider = weather.NewOpenMeteo(cfg.HTTPTimeout)
	default:
		return nil, fmt.Errorf("unknown weather provider %q", cfg.WeatherProvider)
	}

	client := strava.NewClient(cfg.HTTPTimeout)
	fmt.Println("Refreshing Strava access token...")
	if err := client.Authenticate(cmd.Context(), cfg.StravaClientID, cfg.StravaClientSecret, cfg.StravaRefreshToken); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	fmt.Println("Token refreshed successfully")

	return sweather.NewRunner(cfg, client, provider), nil
}

func main() {
	Execute()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	for _, cmd := range []*cobra.Command{syncCmd, listCmd} {
		cmd.Flags().IntVar(&maxActivities, "max-activities", 30, "Maximum number of activities to fetch")
		cmd.Flags().IntVar(&pageSize, "page-size", 30, "Activities per page when listing")
		cmd.Flags().IntVar(&lookbackDays, "lookback-days", 7, "Only process activities newer than this many days (0 = no limit)")
		cmd.Flags().StringVar(&providerName, "provider", config.ProviderOpenMeteo, "Weather provider (openmeteo or visualcrossing)")
		cmd.Flags().BoolVar(&privacy, "privacy", false, "Suppress coordinates and dates in output")
	}
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be updated without writing")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(listCmd)
}
