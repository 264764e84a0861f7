package progress

import (
	"time"

	"github.com/abhisek/musiclab/internal/labs"
)

// Tracker measures one lab visit: it starts when the lab screen opens,
// counts interactions while it is open, and produces a LabSession when
// the screen closes.
type Tracker struct {
	labID     labs.ID
	startedAt time.Time
	activity  int
	finished  bool
}

// StartTracker begins measuring a visit to lab id at now.
func StartTracker(id labs.ID, now time.Time) *Tracker {
	return &Tracker{labID: id, startedAt: now}
}

// LabID returns the lab being measured.
func (t *Tracker) LabID() labs.ID { return t.labID }

// Record counts n interactions. Non-positive counts and counts after
// Finish are ignored.
func (t *Tracker) Record(n int) {
	if n <= 0 || t.finished {
		return
	}
	t.activity += n
}

// Activity returns the interactions counted so far.
func (t *Tracker) Activity() int { return t.activity }

// Elapsed returns the time the lab has been open at now.
func (t *Tracker) Elapsed(now time.Time) time.Duration {
	d := now.Sub(t.startedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Finish closes the visit and returns the session with its XP computed.
// Only the first call returns ok; later calls return a zero session.
func (t *Tracker) Finish(now time.Time) (LabSession, bool) {
	if t.finished {
		return LabSession{}, false
	}
	t.finished = true

	durationMs := t.Elapsed(now).Milliseconds()
	return LabSession{
		LabID:         t.labID,
		StartedAt:     t.startedAt,
		DurationMs:    durationMs,
		ActivityCount: t.activity,
		XPEarned:      XPForSession(durationMs, t.activity),
	}, true
}
