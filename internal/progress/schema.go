package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/musiclab/internal/labs"
)

const recordSchemaURL = "schema://music-lab-progress.json"

// recordSchema describes the persisted record. No field is required so
// records written before a field existed still load and pick up defaults.
var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"totalXP":        map[string]any{"type": "integer", "minimum": 0},
		"level":          map[string]any{"type": "integer", "minimum": 1},
		"streak":         map[string]any{"type": "integer", "minimum": 0},
		"lastActiveDate": map[string]any{"type": "string"},
		"weeklyGoal":     map[string]any{"type": "integer"},
		"weeklyMinutes":  map[string]any{"type": "number", "minimum": 0},
		"labStats": map[string]any{
			"type": []any{"object", "null"},
			"additionalProperties": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"labId":         map[string]any{"type": "string"},
					"totalSessions": map[string]any{"type": "integer", "minimum": 0},
					"totalTimeMs":   map[string]any{"type": "integer", "minimum": 0},
					"totalActivity": map[string]any{"type": "integer", "minimum": 0},
					"totalXP":       map[string]any{"type": "integer", "minimum": 0},
					"lastVisit":     map[string]any{"type": "integer", "minimum": 0},
				},
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledRecordSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants JSON-shaped values (float64 numbers), so the
		// Go literal is round-tripped through encoding/json first.
		defBytes, err := json.Marshal(recordSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal record schema: %w", err)
			return
		}
		var def any
		if err := json.Unmarshal(defBytes, &def); err != nil {
			compileErr = fmt.Errorf("parse record schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(recordSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(recordSchemaURL)
	})
	return compiled, compileErr
}

// decodeRecord validates raw against the record schema and merges it over
// the defaults. Fields absent from raw keep their default values.
func decodeRecord(raw []byte) (UserSessionData, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Default(), fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiledRecordSchema()
	if err != nil {
		return Default(), fmt.Errorf("compile record schema: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return Default(), fmt.Errorf("schema validation failed: %w", err)
	}

	// The schema accepts 45.0 as an integer but encoding/json does not.
	canonical, err := json.Marshal(integralNumbers(parsed))
	if err != nil {
		return Default(), fmt.Errorf("re-encode record: %w", err)
	}
	data := Default()
	if err := json.Unmarshal(canonical, &data); err != nil {
		return Default(), fmt.Errorf("decode record: %w", err)
	}
	return normalize(data), nil
}

// integralNumbers rewrites numbers with no fractional part, such as 45.0
// or 4.5e1, into plain integer literals.
func integralNumbers(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = integralNumbers(e)
		}
	case []any:
		for i, e := range v {
			v[i] = integralNumbers(e)
		}
	case json.Number:
		if r, ok := new(big.Rat).SetString(v.String()); ok && r.IsInt() {
			return json.Number(r.Num().String())
		}
	}
	return v
}

// normalize restores the invariants a hand-edited or older record may break.
func normalize(data UserSessionData) UserSessionData {
	if data.LabStats == nil {
		data.LabStats = make(map[labs.ID]LabStats)
	}
	for id, s := range data.LabStats {
		if s.LabID == "" {
			s.LabID = id
			data.LabStats[id] = s
		}
	}
	if data.WeeklyGoal <= 0 {
		data.WeeklyGoal = DefaultWeeklyGoal
	}
	data.Level = LevelFor(data.TotalXP)
	return data
}
