package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastActive string
		streak     int
		today      string
		wantStreak int
		wantDate   string
	}{
		{"first ever session", "", 0, "2026-03-10", 1, "2026-03-10"},
		{"same day", "2026-03-10", 4, "2026-03-10", 4, "2026-03-10"},
		{"next day", "2026-03-10", 4, "2026-03-11", 5, "2026-03-11"},
		{"across month end", "2026-02-28", 2, "2026-03-01", 3, "2026-03-01"},
		{"across year end", "2025-12-31", 9, "2026-01-01", 10, "2026-01-01"},
		{"two days later", "2026-03-10", 4, "2026-03-12", 1, "2026-03-12"},
		{"weeks later", "2026-03-10", 30, "2026-04-02", 1, "2026-04-02"},
		{"clock went backwards", "2026-03-10", 4, "2026-03-09", 1, "2026-03-09"},
		{"unreadable date", "yesterday", 7, "2026-03-10", 1, "2026-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Default()
			data.LastActiveDate = tt.lastActive
			data.Streak = tt.streak

			got := UpdateStreak(data, tt.today)
			assert.Equal(t, tt.wantStreak, got.Streak)
			assert.Equal(t, tt.wantDate, got.LastActiveDate)
		})
	}
}

func TestUpdateStreakLeavesOtherFields(t *testing.T) {
	data := Default()
	data.TotalXP = 150
	data.Level = 2
	data.WeeklyMinutes = 12.5

	got := UpdateStreak(data, "2026-03-10")
	assert.Equal(t, 150, got.TotalXP)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 12.5, got.WeeklyMinutes)
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	// US spring-forward night: the local day is only 23 hours long.
	diff, err := DaysBetween("2026-03-07", "2026-03-08")
	require.NoError(t, err)
	assert.Equal(t, 1, diff)

	diff, err = DaysBetween("2026-10-31", "2026-11-01")
	require.NoError(t, err)
	assert.Equal(t, 1, diff)
}

func TestDaysBetweenInvalid(t *testing.T) {
	_, err := DaysBetween("2026-02-30", "2026-03-01")
	assert.Error(t, err)
}

func TestDateOfUsesClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 20:00 UTC is already the next morning at UTC+10.
	ts := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2026-05-02", DateOf(ts))
}
