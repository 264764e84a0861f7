package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/musiclab/internal/progress"
)

// ProgressRepo is a progress.Backend over the progress_records table.
type ProgressRepo struct {
	drv *entsql.Driver
}

var _ progress.Backend = (*ProgressRepo)(nil)

func (r *ProgressRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.drv.Dialect())
}

// Get returns the stored value for key, or progress.ErrNotFound.
func (r *ProgressRepo) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := r.builder().
		Select("value").
		From(entsql.Table(progressRecordsTable)).
		Where(entsql.EQ("record_key", key)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query progress record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("read progress record: %w", err)
		}
		return nil, progress.ErrNotFound
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("scan progress record: %w", err)
	}
	return []byte(value), nil
}

// Put inserts or overwrites the value stored under key.
func (r *ProgressRepo) Put(ctx context.Context, key string, value []byte) error {
	query, args := r.builder().
		Insert(progressRecordsTable).
		Columns("record_key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("record_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save progress record: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *ProgressRepo) Delete(ctx context.Context, key string) error {
	query, args := r.builder().
		Delete(progressRecordsTable).
		Where(entsql.EQ("record_key", key)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete progress record: %w", err)
	}
	return nil
}
