package booking

import (
	"fmt"

	"github.com/jwalitptl/salon-api/pkg/errors"
)

const minutesPerDay = 24 * 60

// ParseClock parses a zero-padded 24-hour "HH:MM" string.
func ParseClock(value string) (hour, minute int, err error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, 0, errors.InvalidTimeFormat(value)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if value[i] < '0' || value[i] > '9' {
			return 0, 0, errors.InvalidTimeFormat(value)
		}
	}

	hour = int(value[0]-'0')*10 + int(value[1]-'0')
	minute = int(value[3]-'0')*10 + int(value[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, errors.InvalidTimeFormat(value)
	}
	return hour, minute, nil
}

// FormatClock renders minutes-since-midnight as "HH:MM".
func FormatClock(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

// ComputeEndTime derives a slot's end from its start and the service
// duration. A slot may not roll past midnight: any end at or beyond
// 24:00 fails with CrossesMidnight, so a returned end time is always
// strictly later than the start within the same day.
func ComputeEndTime(start string, durationMinutes int) (string, error) {
	hour, minute, err := ParseClock(start)
	if err != nil {
		return "", err
	}
	if durationMinutes < 1 {
		return "", errors.Validation("service duration must be at least 1 minute")
	}

	end := hour*60 + minute + durationMinutes
	if end >= minutesPerDay {
		return "", errors.CrossesMidnight(start, durationMinutes)
	}
	return FormatClock(end), nil
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Zero-padded "HH:MM" strings order lexicographically, so
// plain string comparison is the interval comparison. Touching slots
// (one ending exactly when the other starts) do not overlap. This is
// the same predicate the booking repository evaluates in SQL.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && e1 > s2
}
