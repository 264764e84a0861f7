package progress

const (
	// XPPerLevel is the XP span of a single level.
	XPPerLevel = 100

	// MaxSessionXP caps the XP a single lab visit can earn.
	MaxSessionXP = 30

	// MinDwellMs is the dwell time a session without any activity must exceed.
	MinDwellMs = 3000

	msPerMinute = 60000

	// xpPerMinute is awarded for each full minute spent in a lab.
	xpPerMinute = 5

	// activityPerXP interactions earn one XP.
	activityPerXP = 2
)

// LevelFor derives the level from total XP. Level is never stored on its own.
func LevelFor(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// XPForSession computes the XP award for a lab visit:
// min(30, activity/2 + fullMinutes*5).
func XPForSession(durationMs int64, activityCount int) int {
	if durationMs < 0 {
		durationMs = 0
	}
	if activityCount < 0 {
		activityCount = 0
	}
	xp := activityCount/activityPerXP + int(durationMs/msPerMinute)*xpPerMinute
	return min(MaxSessionXP, xp)
}

// Admit reports whether a session is worth recording: the learner either
// stayed longer than MinDwellMs or interacted at least once.
func Admit(durationMs int64, activityCount int) bool {
	return durationMs > MinDwellMs || activityCount > 0
}

// LevelProgress describes where the learner sits within the current level.
type LevelProgress struct {
	Level     int
	XPInLevel int // 0..XPPerLevel-1
	XPToNext  int // 1..XPPerLevel
	Percent   int // 0..99
}

// LevelProgressFor computes the level bar shown on progress screens.
func LevelProgressFor(totalXP int) LevelProgress {
	if totalXP < 0 {
		totalXP = 0
	}
	in := totalXP % XPPerLevel
	return LevelProgress{
		Level:     LevelFor(totalXP),
		XPInLevel: in,
		XPToNext:  XPPerLevel - in,
		Percent:   in * 100 / XPPerLevel,
	}
}
