// Package sync drives the weather annotation pipeline: list recent
// activities, filter, fetch weather, compose and write back the
// description. Strictly sequential, best effort per activity.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sstent/stravaweather/internal/config"
	"github.com/sstent/stravaweather/internal/describe"
	"github.com/sstent/stravaweather/internal/strava"
	"github.com/sstent/stravaweather/internal/weather"
)

// ActivityService is the slice of the Strava client the runner needs.
type ActivityService interface {
	ListActivities(ctx context.Context, max, perPage int) ([]strava.Activity, error)
	GetActivity(ctx context.Context, id int64) (*strava.Activity, error)
	UpdateDescription(ctx context.Context, id int64, description string) error
}

// Summary is the outcome of one run.
type Summary struct {
	Listed  int
	Updated int
	Skipped int
	Failed  int
}

// Runner holds the pipeline's collaborators. Now and Sleep are
// injectable so tests control the clock and skip the rate-limit pauses.
type Runner struct {
	Cfg     *config.Config
	Strava  ActivityService
	Weather weather.Provider
	DryRun  bool
	Now     func() time.Time
	Sleep   func(time.Duration)
	Out     io.Writer
}

// NewRunner wires a runner with real clock, sleep and stdout.
func NewRunner(cfg *config.Config, svc ActivityService, provider weather.Provider) *Runner {
	return &Runner{
		Cfg:     cfg,
		Strava:  svc,
		Weather: provider,
		Now:     time.Now,
		Sleep:   time.Sleep,
		Out:     os.Stdout,
	}
}

// Run processes every listed activity in remote order. A listing
// failure is fatal; weather and update failures are logged, counted and
// skipped.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	fmt.Fprintln(r.Out, "Fetching recent activities...")
	activities, err := r.Strava.ListActivities(ctx, r.Cfg.MaxActivities, r.Cfg.PageSize)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Listed: len(activities)}
	fmt.Fprintf(r.Out, "Found %d recent activities\n", len(activities))

	for i, activity := range activities {
		fmt.Fprintf(r.Out, "[%d/%d] %s%s\n", i+1, len(activities), activity.Name, r.dateSuffix(activity))

		detail, reason, err := r.prepare(ctx, &activity)
		if err != nil {
			fmt.Fprintf(r.Out, "  ⚠️ %v\n", err)
			summary.Failed++
			continue
		}
		if reason != "" {
			fmt.Fprintf(r.Out, "  ⏭️ Skipping: %s\n", reason)
			summary.Skipped++
			continue
		}

		if err := r.annotate(ctx, detail, summary); err != nil {
			fmt.Fprintf(r.Out, "  ⚠️ %v\n", err)
			summary.Failed++
		}
	}

	fmt.Fprintf(r.Out, "\n📊 Sync summary: %d updated, %d skipped, %d failed (of %d listed)\n",
		summary.Updated, summary.Skipped, summary.Failed, summary.Listed)
	return summary, nil
}

// prepare applies the skip filters in order and resolves the full
// activity record. A non-empty reason means skip; an error means the
// detail fetch failed.
func (r *Runner) prepare(ctx context.Context, activity *strava.Activity) (*strava.Activity, string, error) {
	start, err := activity.StartTime()
	if err != nil {
		return nil, "no usable start timestamp", nil
	}

	if r.Cfg.LookbackDays > 0 && dayOf(start).Before(dayOf(r.Now().AddDate(0, 0, -r.Cfg.LookbackDays))) {
		return nil, fmt.Sprintf("older than %d days", r.Cfg.LookbackDays), nil
	}

	// Coordinates and the current description only come from the
	// detail endpoint.
	detail, err := r.Strava.GetActivity(ctx, activity.ID)
	if err != nil {
		return nil, "", err
	}

	if !detail.HasCoordinates() {
		return nil, "no GPS data", nil
	}
	if describe.HasMarker(detail.Description, r.Cfg.Marker) {
		return nil, "already has weather info", nil
	}

	return detail, "", nil
}

// annotate fetches weather, composes the new description and writes it
// back, pausing afterwards to respect Strava's rate limits.
func (r *Runner) annotate(ctx context.Context, detail *strava.Activity, summary *Summary) error {
	start, err := detail.StartTime()
	if err != nil {
		return err
	}
	lat, lon := detail.StartLatLng[0], detail.StartLatLng[1]

	if r.Cfg.Privacy {
		fmt.Fprintln(r.Out, "  Getting weather...")
	} else {
		fmt.Fprintf(r.Out, "  Getting weather for %.4f, %.4f...\n", lat, lon)
	}

	obs, err := r.Weather.Fetch(ctx, lat, lon, start)
	if err != nil {
		return fmt.Errorf("weather fetch failed: %w", err)
	}

	merged, ok := describe.Compose(detail.Description, r.Cfg.Marker, obs)
	if !ok {
		fmt.Fprintln(r.Out, "  ⏭️ Skipping: no weather data available")
		summary.Skipped++
		return nil
	}

	if r.DryRun {
		fmt.Fprintf(r.Out, "  Would update with:\n%s\n", indent(describe.Block(r.Cfg.Marker, obs)))
		summary.Updated++
		return nil
	}

	if err := r.Strava.UpdateDescription(ctx, detail.ID, merged); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintln(r.Out, "  ✅ Updated activity description")
	summary.Updated++
	if r.Cfg.RateLimit > 0 {
		r.Sleep(r.Cfg.RateLimit)
	}
	return nil
}

// List prints every fetched activity with the decision the sync loop
// would make, without touching the weather provider or writing anything.
func (r *Runner) List(ctx context.Context) error {
	activities, err := r.Strava.ListActivities(ctx, r.Cfg.MaxActivities, r.Cfg.PageSize)
	if err != nil {
		return err
	}

	for i, activity := range activities {
		_, reason, err := r.prepare(ctx, &activity)
		status := "✅ would annotate"
		if err != nil {
			status = fmt.Sprintf("⚠️ %v", err)
		} else if reason != "" {
			status = "⏭️ " + reason
		}
		fmt.Fprintf(r.Out, "[%d/%d] %s%s | %s\n", i+1, len(activities), activity.Name, r.dateSuffix(activity), status)
	}

	return nil
}

func (r *Runner) dateSuffix(activity strava.Activity) string {
	if r.Cfg.Privacy || activity.StartDateLocal == "" {
		return ""
	}
	return " (" + activity.StartDateLocal + ")"
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(s, "\n", "\n    ")
}
