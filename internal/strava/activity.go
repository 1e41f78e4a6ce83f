package strava

import (
	"fmt"
	"time"
)

// Activity is the subset of the Strava activity object this tool reads
// and writes. The list endpoint omits Description and may omit
// StartLatLng; the detail endpoint fills both in.
type Activity struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	StartDate      string    `json:"start_date"`
	StartDateLocal string    `json:"start_date_local"`
	StartLatLng    []float64 `json:"start_latlng"`
	Description    string    `json:"description"`
}

// StartTime parses the activity's local start timestamp. Strava reports
// start_date_local in RFC3339 form with a Z suffix even though the value
// is local wall-clock time, so no timezone conversion is applied.
func (a *Activity) StartTime() (time.Time, error) {
	if a.StartDateLocal == "" {
		return time.Time{}, fmt.Errorf("activity %d has no start timestamp", a.ID)
	}
	t, err := time.Parse(time.RFC3339, a.StartDateLocal)
	if err != nil {
		return time.Time{}, fmt.Errorf("activity %d start timestamp: %w", a.ID, err)
	}
	return t, nil
}

// HasCoordinates reports whether the activity carries a usable start
// position. Indoor and trainer activities have an empty start_latlng.
func (a *Activity) HasCoordinates() bool {
	return len(a.StartLatLng) >= 2
}
