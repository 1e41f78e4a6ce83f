package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualCrossingFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))
		assert.Equal(t, "metric", r.URL.Query().Get("unitGroup"))
		assert.Contains(t, r.URL.Path, "2024-06-08")
		fmt.Fprint(w, `{"days": [{"temp": 18.3, "feelslike": 17.1, "windspeed": 12.0, "humidity": 64.0, "conditions": "Partially cloudy"}]}`)
	}))
	defer server.Close()

	p := NewVisualCrossing("secret-key", 5*time.Second)
	p.baseURL = server.URL

	start := time.Date(2024, 6, 8, 7, 30, 0, 0, time.UTC)
	obs, err := p.Fetch(context.Background(), 51.5074, -0.1278, start)
	require.NoError(t, err)

	require.NotNil(t, obs.Temperature)
	assert.InDelta(t, 18.3, *obs.Temperature, 0.001)
	require.NotNil(t, obs.FeelsLike)
	assert.InDelta(t, 17.1, *obs.FeelsLike, 0.001)
	require.NotNil(t, obs.WindSpeed)
	assert.InDelta(t, 12.0, *obs.WindSpeed, 0.001)
	assert.Equal(t, "Partially cloudy", obs.Condition)
}

func TestVisualCrossingPartialDay(t *testing.T) {
	// Provider may omit any field; absent must stay nil, not zero.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"days": [{"temp": 21.0}]}`)
	}))
	defer server.Close()

	p := NewVisualCrossing("secret-key", 5*time.Second)
	p.baseURL = server.URL

	obs, err := p.Fetch(context.Background(), 51.5, -0.1, time.Date(2024, 6, 8, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, obs.Temperature)
	assert.Nil(t, obs.FeelsLike)
	assert.Nil(t, obs.WindSpeed)
	assert.Nil(t, obs.Humidity)
	assert.Empty(t, obs.Condition)
}

func TestVisualCrossingNoDays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"days": []}`)
	}))
	defer server.Close()

	p := NewVisualCrossing("secret-key", 5*time.Second)
	p.baseURL = server.URL

	_, err := p.Fetch(context.Background(), 51.5, -0.1, time.Date(2024, 6, 8, 7, 0, 0, 0, time.UTC))
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "visualcrossing", fetchErr.Provider)
}
