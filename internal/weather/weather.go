package weather

import (
	"context"
	"fmt"
	"time"
)

// Observation is a single point-in-time weather reading for an activity
// start. Every numeric field is optional: providers routinely omit
// values, and absence must stay distinguishable from zero.
type Observation struct {
	Date        time.Time
	Temperature *float64 // °C
	FeelsLike   *float64 // °C
	WindSpeed   *float64 // km/h
	Humidity    *float64 // %
	Condition   string
}

// Provider fetches the weather for a location at an activity's local
// start time. Daily-aggregate providers use only the date portion;
// hourly providers also use the hour.
type Provider interface {
	Fetch(ctx context.Context, lat, lon float64, start time.Time) (*Observation, error)
}

// FetchError is a failed or malformed weather lookup. Callers treat it
// as skip-this-activity, never fatal to the run.
type FetchError struct {
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s weather fetch: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func ptr(v float64) *float64 {
	return &v
}
