package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Weather provider names accepted in WEATHER_PROVIDER.
const (
	ProviderOpenMeteo      = "openmeteo"
	ProviderVisualCrossing = "visualcrossing"
)

// Config holds application configuration
type Config struct {
	StravaClientID     string
	StravaClientSecret string
	StravaRefreshToken string
	WeatherAPIKey      string
	WeatherProvider    string
	MaxActivities      int
	PageSize           int
	LookbackDays       int
	RateLimit          time.Duration
	HTTPTimeout        time.Duration
	Marker             string
	Privacy            bool
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables. All Strava credentials are required; the weather
// API key is only required for providers that need one.
func LoadConfig() (*Config, error) {
	// A missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("weather_provider", ProviderOpenMeteo)
	v.SetDefault("max_activities", 30)
	v.SetDefault("page_size", 30)
	v.SetDefault("lookback_days", 7)
	v.SetDefault("rate_limit", "2s")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("weather_marker", "🌤️ Weather")

	v.BindEnv("strava_client_id", "STRAVA_CLIENT_ID")
	v.BindEnv("strava_client_secret", "STRAVA_CLIENT_SECRET")
	v.BindEnv("strava_refresh_token", "STRAVA_REFRESH_TOKEN")
	v.BindEnv("weather_api_key", "WEATHER_API_KEY")
	v.BindEnv("weather_provider", "WEATHER_PROVIDER")
	v.BindEnv("max_activities", "MAX_ACTIVITIES")
	v.BindEnv("page_size", "PAGE_SIZE")
	v.BindEnv("lookback_days", "LOOKBACK_DAYS")
	v.BindEnv("rate_limit", "RATE_LIMIT")
	v.BindEnv("http_timeout", "HTTP_TIMEOUT")
	v.BindEnv("weather_marker", "WEATHER_MARKER")
	v.BindEnv("privacy", "PRIVACY_MODE")

	cfg := &Config{
		StravaClientID:     v.GetString("strava_client_id"),
		StravaClientSecret: v.GetString("strava_client_secret"),
		StravaRefreshToken: v.GetString("strava_refresh_token"),
		WeatherAPIKey:      v.GetString("weather_api_key"),
		WeatherProvider:    v.GetString("weather_provider"),
		MaxActivities:      v.GetInt("max_activities"),
		PageSize:           v.GetInt("page_size"),
		LookbackDays:       v.GetInt("lookback_days"),
		RateLimit:          parseDuration(v.GetString("rate_limit"), 2*time.Second),
		HTTPTimeout:        parseDuration(v.GetString("http_timeout"), 30*time.Second),
		Marker:             v.GetString("weather_marker"),
		Privacy:            v.GetBool("privacy"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.StravaClientID == "" {
		missing = append(missing, "STRAVA_CLIENT_ID")
	}
	if c.StravaClientSecret == "" {
		missing = append(missing, "STRAVA_CLIENT_SECRET")
	}
	if c.StravaRefreshToken == "" {
		missing = append(missing, "STRAVA_REFRESH_TOKEN")
	}
	if c.WeatherProvider == ProviderVisualCrossing && c.WeatherAPIKey == "" {
		missing = append(missing, "WEATHER_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.WeatherProvider {
	case ProviderOpenMeteo, ProviderVisualCrossing:
	default:
		return fmt.Errorf("unknown weather provider %q (expected %s or %s)",
			c.WeatherProvider, ProviderOpenMeteo, ProviderVisualCrossing)
	}

	return nil
}

// parseDuration parses a duration string with a default
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return d
}
