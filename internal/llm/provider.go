// Package llm talks to hosted language models for coaching tips. Every
// vendor sits behind Provider; retries, event logging and schema
// validation are layered on top of it.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one response per request.
type Provider interface {
	// Generate returns Content that satisfies req.Schema when one is set.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System    string
	Messages  []Message
	Schema    *Schema
	MaxTokens int

	// Temperature in [0,1]. Zero leaves the vendor default.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema the response must match. Name doubles as the
// structured-output name vendors ask for, e.g. "practice-tip".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons reported in Response.StopReason.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Response struct {
	// Content is validated JSON when the request carried a Schema,
	// otherwise the model's raw text.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type purposeKey struct{}

// WithPurpose labels requests made with ctx, e.g. "coach-tip". The label
// is what `musiclab llm stats` groups by.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
