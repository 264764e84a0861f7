package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names used by the repositories.
const (
	progressRecordsTable = "progress_records"
	labSessionTable      = "lab_session_events"
	llmRequestTable      = "llm_request_events"
)

// eventColumns returns the columns every event table starts with: a row id,
// the global sequence number, and the UTC wall-clock time of the event.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

// eventIndexes indexes the shared event columns plus any extra column by name.
func eventIndexes(table string, cols []*schema.Column, extra ...string) []*schema.Index {
	byName := make(map[string]*schema.Column, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	var idx []*schema.Index
	for _, name := range append([]string{"timestamp"}, extra...) {
		idx = append(idx, &schema.Index{
			Name:    table + "_" + name,
			Columns: []*schema.Column{byName[name]},
		})
	}
	return idx
}

var (
	// ProgressRecordsColumns holds the key/value progress store.
	ProgressRecordsColumns = []*schema.Column{
		{Name: "record_key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeTime},
	}
	ProgressRecordsTable = &schema.Table{
		Name:       progressRecordsTable,
		Columns:    ProgressRecordsColumns,
		PrimaryKey: []*schema.Column{ProgressRecordsColumns[0]},
	}

	// LabSessionEventsColumns holds one row per admitted lab visit.
	LabSessionEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString, Unique: true},
		&schema.Column{Name: "lab_id", Type: field.TypeString},
		&schema.Column{Name: "started_at", Type: field.TypeTime},
		&schema.Column{Name: "duration_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "activity_count", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "xp_earned", Type: field.TypeInt, Default: 0},
	)
	LabSessionEventsTable = &schema.Table{
		Name:       labSessionTable,
		Columns:    LabSessionEventsColumns,
		PrimaryKey: []*schema.Column{LabSessionEventsColumns[0]},
		Indexes:    eventIndexes(labSessionTable, LabSessionEventsColumns, "lab_id"),
	}

	// LLMRequestEventsColumns records every LLM API call for cost tracking and debugging.
	LLMRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	LLMRequestEventsTable = &schema.Table{
		Name:       llmRequestTable,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes:    eventIndexes(llmRequestTable, LLMRequestEventsColumns, "provider", "purpose", "success"),
	}

	// Tables lists every table created by auto-migration.
	Tables = []*schema.Table{
		ProgressRecordsTable,
		LabSessionEventsTable,
		LLMRequestEventsTable,
	}
)
