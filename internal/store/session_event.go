package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
)

func (r *eventRepo) AppendLabSession(ctx context.Context, s progress.LabSession) error {
	err := r.insert(ctx, labSessionTable,
		[]string{"session_id", "lab_id", "started_at", "duration_ms", "activity_count", "xp_earned"},
		[]any{uuid.NewString(), string(s.LabID), s.StartedAt.UTC(), s.DurationMs, s.ActivityCount, s.XPEarned},
	)
	if err != nil {
		return fmt.Errorf("save lab session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLabSessions(ctx context.Context, opts QueryOpts) ([]LabSessionEvent, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select("id", "sequence", "timestamp", "session_id", "lab_id",
			"started_at", "duration_ms", "activity_count", "xp_earned").
		From(entsql.Table(labSessionTable))
	if opts.LabID != "" {
		sel.Where(entsql.EQ("lab_id", string(opts.LabID)))
	}
	query, args := applyOpts(sel, opts).Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query lab sessions: %w", err)
	}
	defer rows.Close()

	var events []LabSessionEvent
	for rows.Next() {
		var (
			e     LabSessionEvent
			labID string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &labID,
			&e.StartedAt, &e.DurationMs, &e.ActivityCount, &e.XPEarned); err != nil {
			return nil, fmt.Errorf("scan lab session: %w", err)
		}
		e.LabID = labs.ID(labID)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read lab sessions: %w", err)
	}
	return events, nil
}
