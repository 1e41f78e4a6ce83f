// Package describe builds the weather block appended to an activity
// description and owns the marker check that keeps runs idempotent.
package describe

import (
	"fmt"
	"strings"

	"github.com/sstent/stravaweather/internal/weather"
)

// DefaultMarker labels the weather block and doubles as the
// already-annotated guard.
const DefaultMarker = "🌤️ Weather"

// HasMarker reports whether the description was already annotated.
// Exact case-sensitive substring match: an activity whose description
// coincidentally contains the marker text is skipped forever, and
// removing the marker by hand causes re-annotation. Known quirk.
func HasMarker(description, marker string) bool {
	return strings.Contains(description, marker)
}

// Compose appends a weather block to the existing description. The
// existing text is preserved byte-for-byte as a prefix. Returns ok=false
// when the observation carries no usable field, in which case the
// activity should not be updated at all.
func Compose(existing, marker string, obs *weather.Observation) (string, bool) {
	block := Block(marker, obs)
	if block == "" {
		return existing, false
	}

	if existing == "" {
		return block, true
	}
	return existing + "\n\n" + block, true
}

// Block renders just the weather lines: the marker line followed by
// temperature (with feels-like when present), wind, humidity and
// condition, each only when the field is present. Empty string when
// every optional field is absent.
func Block(marker string, obs *weather.Observation) string {
	if obs == nil {
		return ""
	}

	var lines []string
	if obs.Temperature != nil {
		line := fmt.Sprintf("🌡️ %.1f°C", *obs.Temperature)
		if obs.FeelsLike != nil {
			line += fmt.Sprintf(" (feels like %.1f°C)", *obs.FeelsLike)
		}
		lines = append(lines, line)
	}
	if obs.WindSpeed != nil {
		lines = append(lines, fmt.Sprintf("💨 %.1f km/h", *obs.WindSpeed))
	}
	if obs.Humidity != nil {
		lines = append(lines, fmt.Sprintf("💧 %.0f%%", *obs.Humidity))
	}
	if obs.Condition != "" {
		lines = append(lines, obs.Condition)
	}

	if len(lines) == 0 {
		return ""
	}

	return marker + "\n" + strings.Join(lines, "\n")
}
