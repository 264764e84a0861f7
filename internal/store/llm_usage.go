package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// LLMUsage aggregates LLM calls that share a purpose or a model.
type LLMUsage struct {
	Key          string // purpose or model, depending on the query
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMUsageByPurpose sums token usage per request purpose.
func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose")
}

// LLMUsageByModel sums token usage per model.
func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model")
}

func (r *eventRepo) llmUsage(ctx context.Context, column string) ([]LLMUsage, error) {
	sel := entsql.Dialect(r.drv.Dialect()).
		Select(
			entsql.As(column, "usage_key"),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency_ms"),
		).
		From(entsql.Table(llmRequestTable)).
		GroupBy(column).
		OrderBy(entsql.Desc("calls"), column)
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u       LLMUsage
			in, o   sql.NullInt64
			latency sql.NullFloat64
		)
		if err := rows.Scan(&u.Key, &u.Calls, &in, &o, &latency); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.InputTokens = int(in.Int64)
		u.OutputTokens = int(o.Int64)
		u.AvgLatencyMs = int64(latency.Float64)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read LLM usage: %w", err)
	}
	return out, nil
}
