package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultOpenMeteoURL = "https://archive-api.open-meteo.com/v1/archive"

// OpenMeteo fetches hourly archive weather from the keyless Open-Meteo
// API and picks the hour matching the activity's local start time.
type OpenMeteo struct {
	httpClient *http.Client
	baseURL    string
}

func NewOpenMeteo(timeout time.Duration) *OpenMeteo {
	return &OpenMeteo{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultOpenMeteoURL,
	}
}

type openMeteoResponse struct {
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		WindSpeed   []float64 `json:"wind_speed_10m"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"hourly"`
}

func (p *OpenMeteo) Fetch(ctx context.Context, lat, lon float64, start time.Time) (*Observation, error) {
	date := start.Format("2006-01-02")
	u := fmt.Sprintf(
		"%s?latitude=%.6f&longitude=%.6f&start_date=%s&end_date=%s&hourly=temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code",
		p.baseURL, lat, lon, date, date,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Provider: "open-meteo", Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: "open-meteo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Open-Meteo returned non-200 status", "status", resp.StatusCode, "body", string(body))
		return nil, &FetchError{Provider: "open-meteo", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var archive openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&archive); err != nil {
		return nil, &FetchError{Provider: "open-meteo", Err: fmt.Errorf("decode response: %w", err)}
	}

	hour := start.Hour()
	if len(archive.Hourly.Time) == 0 {
		return nil, &FetchError{Provider: "open-meteo", Err: fmt.Errorf("no hourly data for %s", date)}
	}

	obs := &Observation{Date: start.Truncate(24 * time.Hour)}
	if hour < len(archive.Hourly.Temperature) {
		obs.Temperature = ptr(archive.Hourly.Temperature[hour])
	}
	if hour < len(archive.Hourly.Humidity) {
		obs.Humidity = ptr(archive.Hourly.Humidity[hour])
	}
	if hour < len(archive.Hourly.WindSpeed) {
		obs.WindSpeed = ptr(archive.Hourly.WindSpeed[hour])
	}
	if hour < len(archive.Hourly.WeatherCode) {
		obs.Condition = weatherCodeDescription(archive.Hourly.WeatherCode[hour])
	}

	return obs, nil
}

// weatherCodeDescription maps WMO weather codes to human-readable text.
func weatherCodeDescription(code int) string {
	descriptions := map[int]string{
		0:  "Clear sky",
		1:  "Mainly clear",
		2:  "Partly cloudy",
		3:  "Overcast",
		45: "Foggy",
		48: "Depositing rime fog",
		51: "Light drizzle",
		53: "Moderate drizzle",
		55: "Dense drizzle",
		61: "Slight rain",
		63: "Moderate rain",
		65: "Heavy rain",
		71: "Slight snow",
		73: "Moderate snow",
		75: "Heavy snow",
		77: "Snow grains",
		80: "Slight rain showers",
		81: "Moderate rain showers",
		82: "Violent rain showers",
		85: "Slight snow showers",
		86: "Heavy snow showers",
		95: "Thunderstorm",
		96: "Thunderstorm with slight hail",
		99: "Thunderstorm with heavy hail",
	}
	if desc, ok := descriptions[code]; ok {
		return desc
	}
	return "Unknown"
}
