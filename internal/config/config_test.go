package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRAVA_CLIENT_ID", "STRAVA_CLIENT_SECRET", "STRAVA_REFRESH_TOKEN",
		"WEATHER_API_KEY", "WEATHER_PROVIDER", "MAX_ACTIVITIES", "PAGE_SIZE",
		"LOOKBACK_DAYS", "RATE_LIMIT", "HTTP_TIMEOUT", "WEATHER_MARKER", "PRIVACY_MODE",
	} {
		t.Setenv(key, "")
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("STRAVA_CLIENT_ID", "id123")
	t.Setenv("STRAVA_CLIENT_SECRET", "secret456")
	t.Setenv("STRAVA_REFRESH_TOKEN", "refresh789")
}

func TestLoadConfigMissingCredentialsListsAll(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRAVA_CLIENT_ID")
	assert.Contains(t, err.Error(), "STRAVA_CLIENT_SECRET")
	assert.Contains(t, err.Error(), "STRAVA_REFRESH_TOKEN")
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "id123", cfg.StravaClientID)
	assert.Equal(t, ProviderOpenMeteo, cfg.WeatherProvider)
	assert.Equal(t, 30, cfg.MaxActivities)
	assert.Equal(t, 7, cfg.LookbackDays)
	assert.Equal(t, 2*time.Second, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "🌤️ Weather", cfg.Marker)
	assert.False(t, cfg.Privacy)
}

func TestLoadConfigVisualCrossingRequiresKey(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("WEATHER_PROVIDER", ProviderVisualCrossing)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEATHER_API_KEY")

	t.Setenv("WEATHER_API_KEY", "vc-key")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ProviderVisualCrossing, cfg.WeatherProvider)
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("WEATHER_PROVIDER", "darksky")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "darksky")
}

func TestLoadConfigOverrides(t *testing.T) {
	clearEnv(t)
	setRequired(t)
	t.Setenv("RATE_LIMIT", "5s")
	t.Setenv("MAX_ACTIVITIES", "100")
	t.Setenv("LOOKBACK_DAYS", "0")
	t.Setenv("PRIVACY_MODE", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.RateLimit)
	assert.Equal(t, 100, cfg.MaxActivities)
	assert.Zero(t, cfg.LookbackDays)
	assert.True(t, cfg.Privacy)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseDuration("", 2*time.Second))
	assert.Equal(t, 2*time.Second, parseDuration("nonsense", 2*time.Second))
	assert.Equal(t, 5*time.Second, parseDuration("5s", 2*time.Second))
}
