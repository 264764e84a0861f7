package progress

import (
	"context"
	"math"

	"github.com/abhisek/musiclab/internal/labs"
)

// Queries below re-load the record on every call; nothing is cached.

// SessionData returns the current record.
func (s *Service) SessionData(ctx context.Context) (UserSessionData, Status) {
	return s.store.Load(ctx)
}

// LabStats returns the aggregate for one lab; false if it was never visited.
func (s *Service) LabStats(ctx context.Context, id labs.ID) (LabStats, bool) {
	data, _ := s.store.Load(ctx)
	st, ok := data.LabStats[id]
	return st, ok
}

// SuggestedLab returns the least-practiced lab.
func (s *Service) SuggestedLab(ctx context.Context) (labs.ID, bool) {
	data, _ := s.store.Load(ctx)
	return SuggestLab(data, s.labs)
}

// WeeklyProgress returns progress toward the weekly goal.
func (s *Service) WeeklyProgress(ctx context.Context) WeeklyProgress {
	data, _ := s.store.Load(ctx)
	return WeeklyProgressFor(data)
}

// SuggestLab picks the lab in ids with the smallest total time. Labs never
// visited count as zero. Ties go to the lab listed first in ids, so on a
// fresh record the first lab wins. Returns false only if ids is empty.
func SuggestLab(data UserSessionData, ids []labs.ID) (labs.ID, bool) {
	var (
		best    labs.ID
		bestMs  int64
		haveAny bool
	)
	for _, id := range ids {
		ms := data.LabStats[id].TotalTimeMs
		if !haveAny || ms < bestMs {
			best, bestMs, haveAny = id, ms, true
		}
	}
	return best, haveAny
}

// WeeklyProgress is the weekly-goal view of the record.
type WeeklyProgress struct {
	Minutes float64 `json:"minutes"` // rounded to one decimal place
	Goal    int     `json:"goal"`
	Percent int     `json:"percent"` // 0..100
}

// WeeklyProgressFor computes the weekly-goal view. Percent is clamped at 100.
func WeeklyProgressFor(data UserSessionData) WeeklyProgress {
	goal := data.WeeklyGoal
	if goal <= 0 {
		goal = DefaultWeeklyGoal
	}
	percent := int(math.Round(data.WeeklyMinutes / float64(goal) * 100))
	return WeeklyProgress{
		Minutes: math.Round(data.WeeklyMinutes*10) / 10,
		Goal:    goal,
		Percent: min(100, percent),
	}
}
