// Package util holds small formatting helpers shared by the mail templates.
package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a link lifetime for people, e.g. "24 hours",
// "1 hour 30 minutes" or "15 minutes". Durations are rounded to the minute.
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Minute)

	if duration < time.Minute {
		return "less than a minute"
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	parts := make([]string, 0, 2)
	if h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m > 0 {
		parts = append(parts, plural(m, "minute"))
	}

	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
