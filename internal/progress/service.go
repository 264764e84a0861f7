package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/musiclab/internal/labs"
)

var (
	// ErrUnknownLab is returned when a session names a lab outside the catalog.
	ErrUnknownLab = errors.New("unknown lab")

	// ErrInvalidSession is returned for sessions with negative measurements.
	ErrInvalidSession = errors.New("invalid lab session")

	// ErrInvalidGoal is returned when a weekly goal is not a positive number of minutes.
	ErrInvalidGoal = errors.New("weekly goal must be a positive number of minutes")
)

// SessionLog receives every admitted session for the history view.
type SessionLog interface {
	AppendLabSession(ctx context.Context, s LabSession) error
}

// Service is the only write path into the progress record. It owns the
// Store and serializes every load-mutate-save sequence.
type Service struct {
	mu    sync.Mutex
	store *Store
	log   SessionLog
	now   func() time.Time
	labs  []labs.ID
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock. The clock's location decides which
// calendar day a session counts toward.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSessionLog appends every admitted session to log.
func WithSessionLog(log SessionLog) Option {
	return func(s *Service) { s.log = log }
}

// WithLabs overrides the lab enumeration used by SuggestedLab.
func WithLabs(ids []labs.ID) Option {
	return func(s *Service) { s.labs = ids }
}

// NewService creates a Service around store.
func NewService(store *Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		labs:  labs.IDs(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RecordResult describes what RecordSession did.
type RecordResult struct {
	// Admitted is false when the session failed the admission rule and
	// was dropped without touching storage.
	Admitted bool

	// Data is the record after the session was folded in.
	Data UserSessionData

	// PreviousLevel is the level before the session.
	PreviousLevel int

	LoadStatus Status
	SaveStatus Status

	// LogErr is set when the session log rejected the entry. The record
	// itself is still saved.
	LogErr error
}

// LeveledUp reports whether the session crossed a level boundary.
func (r RecordResult) LeveledUp() bool {
	return r.Admitted && r.Data.Level > r.PreviousLevel
}

// RecordSession folds a completed lab visit into the record and persists it.
// Sessions failing the admission rule are dropped silently. The session's
// XPEarned is taken as given; callers compute it with XPForSession.
func (s *Service) RecordSession(ctx context.Context, sess LabSession) (RecordResult, error) {
	if !sess.LabID.Valid() {
		return RecordResult{}, fmt.Errorf("%w: %q", ErrUnknownLab, sess.LabID)
	}
	if sess.DurationMs < 0 || sess.ActivityCount < 0 || sess.XPEarned < 0 {
		return RecordResult{}, fmt.Errorf("%w: duration=%dms activity=%d xp=%d",
			ErrInvalidSession, sess.DurationMs, sess.ActivityCount, sess.XPEarned)
	}
	if !sess.Admitted() {
		return RecordResult{Admitted: false}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, loadStatus := s.store.Load(ctx)
	prevLevel := data.Level

	now := s.now()
	data = UpdateStreak(data, DateOf(now))

	stats, ok := data.LabStats[sess.LabID]
	if !ok {
		stats = LabStats{LabID: sess.LabID}
	}
	stats.TotalSessions++
	stats.TotalTimeMs += sess.DurationMs
	stats.TotalActivity += sess.ActivityCount
	stats.TotalXP += sess.XPEarned
	stats.LastVisit = now.UnixMilli()
	data.LabStats[sess.LabID] = stats

	data.TotalXP += sess.XPEarned
	data.Level = LevelFor(data.TotalXP)
	data.WeeklyMinutes += float64(sess.DurationMs) / msPerMinute

	result := RecordResult{
		Admitted:      true,
		Data:          data.Clone(),
		PreviousLevel: prevLevel,
		LoadStatus:    loadStatus,
		SaveStatus:    s.store.Save(ctx, data),
	}

	if s.log != nil {
		if err := s.log.AppendLabSession(ctx, sess); err != nil {
			result.LogErr = fmt.Errorf("append session log: %w", err)
		}
	}

	return result, nil
}

// SetWeeklyGoal changes the weekly target. Accumulated minutes are kept.
func (s *Service) SetWeeklyGoal(ctx context.Context, minutes int) (Status, error) {
	if minutes <= 0 {
		return Status{}, fmt.Errorf("%w: %d", ErrInvalidGoal, minutes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := s.store.Load(ctx)
	data.WeeklyGoal = minutes
	return s.store.Save(ctx, data), nil
}

// Reset wipes the stored record.
func (s *Service) Reset(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Clear(ctx)
}
