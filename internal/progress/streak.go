package progress

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for lastActiveDate.
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// Both dates are compared as calendar days, so a DST shift between them
// never turns a one-day gap into 23 hours.
func DaysBetween(from, to string) (int, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// UpdateStreak advances the daily streak for activity on `today`.
// It is pure and does not persist anything.
//
//	no previous date      -> streak 1
//	same day              -> unchanged
//	next day              -> streak + 1
//	gap of 2+ days, or a date in the future (clock skew) -> streak 1
func UpdateStreak(data UserSessionData, today string) UserSessionData {
	if data.LastActiveDate == "" {
		data.Streak = 1
		data.LastActiveDate = today
		return data
	}

	diff, err := DaysBetween(data.LastActiveDate, today)
	if err != nil {
		// An unreadable date is treated like a first visit.
		data.Streak = 1
		data.LastActiveDate = today
		return data
	}

	switch diff {
	case 0:
	case 1:
		data.Streak++
		data.LastActiveDate = today
	default:
		data.Streak = 1
		data.LastActiveDate = today
	}
	return data
}
