package store

import (
	"context"
	"time"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
	LabID  labs.ID   // lab sessions only; empty matches every lab

	Purpose string // LLM events only; empty matches every purpose
}

// LabSessionEvent is one admitted lab visit as stored in the event log.
type LabSessionEvent struct {
	ID            int
	Sequence      int64
	Timestamp     time.Time
	SessionID     string
	LabID         labs.ID
	StartedAt     time.Time
	DurationMs    int64
	ActivityCount int
	XPEarned      int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLabSession records an admitted lab visit.
	AppendLabSession(ctx context.Context, s progress.LabSession) error

	// QueryLabSessions returns recorded lab visits.
	QueryLabSessions(ctx context.Context, opts QueryOpts) ([]LabSessionEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recorded LLM calls.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM call by row id, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose, busiest first.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM calls per model, busiest first.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}

var _ progress.SessionLog = EventRepo(nil)
