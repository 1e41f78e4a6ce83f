package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultVisualCrossingURL = "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline"

// VisualCrossing fetches a single day-aggregate record from the keyed
// Visual Crossing timeline API.
type VisualCrossing struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewVisualCrossing(apiKey string, timeout time.Duration) *VisualCrossing {
	return &VisualCrossing{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultVisualCrossingURL,
		apiKey:     apiKey,
	}
}

type visualCrossingResponse struct {
	Days []struct {
		Temp       *float64 `json:"temp"`
		FeelsLike  *float64 `json:"feelslike"`
		WindSpeed  *float64 `json:"windspeed"`
		Humidity   *float64 `json:"humidity"`
		Conditions string   `json:"conditions"`
	} `json:"days"`
}

func (p *VisualCrossing) Fetch(ctx context.Context, lat, lon float64, start time.Time) (*Observation, error) {
	date := start.Format("2006-01-02")
	u := fmt.Sprintf("%s/%.6f,%.6f/%s?unitGroup=metric&include=days&key=%s",
		p.baseURL, lat, lon, date, url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Provider: "visualcrossing", Err: err}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Provider: "visualcrossing", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Error("Visual Crossing returned non-200 status", "status", resp.StatusCode, "body", string(body))
		return nil, &FetchError{Provider: "visualcrossing", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var timeline visualCrossingResponse
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		return nil, &FetchError{Provider: "visualcrossing", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(timeline.Days) == 0 {
		return nil, &FetchError{Provider: "visualcrossing", Err: fmt.Errorf("no day record for %s", date)}
	}

	day := timeline.Days[0]
	return &Observation{
		Date:        start.Truncate(24 * time.Hour),
		Temperature: day.Temp,
		FeelsLike:   day.FeelsLike,
		WindSpeed:   day.WindSpeed,
		Humidity:    day.Humidity,
		Condition:   day.Conditions,
	}, nil
}
