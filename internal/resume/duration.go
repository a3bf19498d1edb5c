package resume

import (
	"fmt"
	"strings"
	"time"
)

// Date range strings look like "Jan 2022 - Present" or "Aug 2024 - May 2025".
// Month names may be abbreviated or full.

const presentKeyword = "present"

// CalculateDuration converts a "start - end" range into a human-readable span.
// Month counting is inclusive of both boundary months, and a "Present" end
// date (resolved against now) counts one additional month, matching the
// instructions given to the model. Example with now = May 2025:
// "Aug 2024 - Present" -> "11 months".
func CalculateDuration(duration string, now time.Time) (string, bool) {
	parts := strings.Split(duration, "-")
	if len(parts) != 2 {
		// Also accept an en dash, seen in resumes exported from word processors.
		parts = strings.Split(duration, "–")
		if len(parts) != 2 {
			return "", false
		}
	}

	start, ok := parseMonthYear(strings.TrimSpace(parts[0]))
	if !ok {
		return "", false
	}

	endRaw := strings.TrimSpace(parts[1])
	isPresent := strings.EqualFold(endRaw, presentKeyword)

	var end time.Time
	if isPresent {
		end = now
	} else {
		end, ok = parseMonthYear(endRaw)
		if !ok {
			return "", false
		}
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if isPresent {
		months++
	}
	if months < 1 {
		return "", false
	}

	return formatMonths(months), true
}

func parseMonthYear(s string) (time.Time, bool) {
	for _, layout := range []string{"Jan 2006", "January 2006", "Jan. 2006", "01/2006", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatMonths(months int) string {
	years := months / 12
	rem := months % 12

	switch {
	case years == 0:
		return plural(rem, "month")
	case rem == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(rem, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
