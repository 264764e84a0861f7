package progress

import (
	"time"

	"github.com/abhisek/musiclab/internal/labs"
)

// DefaultWeeklyGoal is the weekly practice target in minutes for a new learner.
const DefaultWeeklyGoal = 30

// LabStats aggregates every recorded session for a single lab.
type LabStats struct {
	LabID         labs.ID `json:"labId"`
	TotalSessions int     `json:"totalSessions"`
	TotalTimeMs   int64   `json:"totalTimeMs"`
	TotalActivity int     `json:"totalActivity"`
	TotalXP       int     `json:"totalXP"`
	LastVisit     int64   `json:"lastVisit"` // Unix milliseconds
}

// LastVisitTime returns LastVisit as a time.Time. Zero if the lab was never visited.
func (s LabStats) LastVisitTime() time.Time {
	if s.LastVisit == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.LastVisit)
}

// UserSessionData is the single persisted progress record.
type UserSessionData struct {
	TotalXP        int                  `json:"totalXP"`
	Level          int                  `json:"level"`
	Streak         int                  `json:"streak"`
	LastActiveDate string               `json:"lastActiveDate"` // "" or YYYY-MM-DD
	LabStats       map[labs.ID]LabStats `json:"labStats"`
	WeeklyGoal     int                  `json:"weeklyGoal"`    // minutes
	WeeklyMinutes  float64              `json:"weeklyMinutes"` // fractional minutes
}

// Default returns the record of a first-time user.
func Default() UserSessionData {
	return UserSessionData{
		TotalXP:        0,
		Level:          1,
		Streak:         0,
		LastActiveDate: "",
		LabStats:       make(map[labs.ID]LabStats),
		WeeklyGoal:     DefaultWeeklyGoal,
		WeeklyMinutes:  0,
	}
}

// Clone returns a deep copy so callers can mutate freely.
func (d UserSessionData) Clone() UserSessionData {
	out := d
	out.LabStats = make(map[labs.ID]LabStats, len(d.LabStats))
	for id, s := range d.LabStats {
		out.LabStats[id] = s
	}
	return out
}

// LabSession is one visit to a lab screen. It is never persisted as-is;
// the recorder folds it into LabStats.
type LabSession struct {
	LabID         labs.ID
	StartedAt     time.Time
	DurationMs    int64
	ActivityCount int
	XPEarned      int
}

// Admitted reports whether the session clears the admission rule.
func (s LabSession) Admitted() bool {
	return Admit(s.DurationMs, s.ActivityCount)
}
