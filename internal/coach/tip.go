package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/llm"
	"github.com/abhisek/musiclab/internal/progress"
)

// TipSchema is the structured output requested from the LLM.
var TipSchema = &llm.Schema{
	Name:        "coach-tip",
	Description: "A short practice tip pointing the learner at one lab",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip": map[string]any{
				"type":        "string",
				"description": "One or two encouraging sentences, under 200 characters",
			},
			"labId": map[string]any{
				"type":        "string",
				"enum":        labEnum(),
				"description": "The lab the tip is about",
			},
		},
		"required":             []any{"tip", "labId"},
		"additionalProperties": false,
	},
}

func labEnum() []any {
	ids := labs.IDs()
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

const tipSystemPrompt = `You are a friendly music teacher coaching a beginner through six short practice labs. Reply with one concrete, encouraging tip for their next session.`

// Source says where a tip came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Tip is a practice suggestion.
type Tip struct {
	LabID  labs.ID
	Text   string
	Source Source
	Err    error // set when the LLM was tried and failed
}

// Config holds tip generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns defaults for tip generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   200,
		Temperature: 0.7,
		Timeout:     20 * time.Second,
	}
}

// Coach produces practice tips. The provider is optional.
type Coach struct {
	provider llm.Provider
	cfg      Config
}

// New creates a coach. A nil provider always uses the offline tips.
func New(provider llm.Provider, cfg Config) *Coach {
	return &Coach{provider: provider, cfg: cfg}
}

type tipOutput struct {
	Tip   string `json:"tip"`
	LabID string `json:"labId"`
}

// Tip suggests what to practice next given the learner's progress.
// It never fails: LLM errors fall back to a catalog tip for the
// suggested lab, with the error kept on the result.
func (c *Coach) Tip(ctx context.Context, data progress.UserSessionData) Tip {
	fallback := FallbackTip(data)
	if c.provider == nil {
		return fallback
	}

	tip, err := c.generate(ctx, data)
	if err != nil {
		fallback.Err = err
		return fallback
	}
	return tip
}

func (c *Coach) generate(ctx context.Context, data progress.UserSessionData) (Tip, error) {
	ctx = llm.WithPurpose(ctx, "coach-tip")
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: tipSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTipUserMessage(data)},
		},
		Schema:      TipSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return Tip{}, fmt.Errorf("coach tip: %w", err)
	}

	var out tipOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Tip{}, fmt.Errorf("parse coach tip: %w", err)
	}
	id, err := labs.Parse(out.LabID)
	if err != nil {
		return Tip{}, fmt.Errorf("coach tip: %w", err)
	}
	text := strings.TrimSpace(out.Tip)
	if text == "" {
		return Tip{}, fmt.Errorf("coach tip: empty tip")
	}
	return Tip{LabID: id, Text: text, Source: SourceLLM}, nil
}

func buildTipUserMessage(data progress.UserSessionData) string {
	var b strings.Builder

	wp := progress.WeeklyProgressFor(data)
	fmt.Fprintf(&b, "Level: %d (%d XP)\n", data.Level, data.TotalXP)
	fmt.Fprintf(&b, "Streak: %d days\n", data.Streak)
	fmt.Fprintf(&b, "This week: %.1f of %d minutes\n", wp.Minutes, wp.Goal)

	b.WriteString("\nLabs:\n")
	for _, l := range labs.All() {
		st, ok := data.LabStats[l.ID]
		if !ok {
			fmt.Fprintf(&b, "- %s (%s): never visited\n", l.Name, l.ID)
			continue
		}
		fmt.Fprintf(&b, "- %s (%s): %d sessions, %.1f minutes, %d XP\n",
			l.Name, l.ID, st.TotalSessions, float64(st.TotalTimeMs)/60000, st.TotalXP)
	}

	if id, ok := progress.SuggestLab(data, labs.IDs()); ok {
		fmt.Fprintf(&b, "\nLeast practiced lab: %s\n", id)
	}
	b.WriteString("\nSuggest one lab and give a tip the learner can try right away.")
	return b.String()
}

// FallbackTip picks a catalog tip for the least practiced lab. The tip
// rotates with the number of sessions in that lab.
func FallbackTip(data progress.UserSessionData) Tip {
	id, ok := progress.SuggestLab(data, labs.IDs())
	if !ok {
		return Tip{Source: SourceFallback}
	}
	lab, _ := labs.Lookup(id)
	text := lab.Description
	if len(lab.Tips) > 0 {
		text = lab.Tips[data.LabStats[id].TotalSessions%len(lab.Tips)]
	}
	return Tip{
		LabID:  id,
		Text:   fmt.Sprintf("Try the %s: %s", lab.Name, text),
		Source: SourceFallback,
	}
}
