package subtitle

import (
	"fmt"
	"math"

	"transcriber/internal/services"
)

// FormatTimestamp renders seconds as an SRT timestamp, HH:MM:SS,mmm. Hours are
// not wrapped at 24 and milliseconds are truncated, never rounded. Negative
// input is a contract violation and fails with a validation error.
func FormatTimestamp(seconds float64) (string, error) {
	if seconds < 0 || math.IsNaN(seconds) {
		return "", services.Wrap(services.ErrValidation, "subtitle", "format timestamp",
			fmt.Sprintf("seconds must not be negative (got %f)", seconds), nil)
	}
	millis := int64(math.Floor(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis), nil
}

// FormatHMS renders seconds as HH:MM:SS without milliseconds, used for the
// duration line in transcript headers. Negative values clamp to zero.
func FormatHMS(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	hours := total / 3600
	total -= hours * 3600
	minutes := total / 60
	total -= minutes * 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, total)
}
