package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tipJSON = `{"tip":"Tap along with the metronome at 80 BPM before speeding up.","labId":"rhythm"}`

func tipSchema() *Schema {
	return &Schema{
		Name:        "practice-tip",
		Description: "One short practice tip",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tip":   map[string]any{"type": "string"},
				"labId": map[string]any{"type": "string", "enum": []any{"rhythm", "pitch"}},
			},
			"required":             []any{"tip", "labId"},
			"additionalProperties": false,
		},
	}
}

func tipRequest() Request {
	return Request{
		System:    "You are a friendly music teacher.",
		Messages:  []Message{{Role: RoleUser, Content: "Suggest what to practice next."}},
		Schema:    tipSchema(),
		MaxTokens: 256,
	}
}

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-mini", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func anthropicMessage(text string) http.HandlerFunc {
	return anthropicReply(text, "end_turn")
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"content":     []map[string]any{{"type": "text", "text": text}},
			"model":       "claude-haiku-4-5",
			"stop_reason": stop,
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}
}

func openAICompletion(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4.1-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func errorStatus(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": http.StatusText(status)},
		})
	}
}

func TestAdapters(t *testing.T) {
	adapters := []struct {
		name     string
		build    func(t *testing.T, h http.HandlerFunc) Provider
		success  func(text string) http.HandlerFunc
		inTokens int
	}{
		{
			name:     "anthropic",
			build:    func(t *testing.T, h http.HandlerFunc) Provider { return newTestAnthropicProvider(t, h) },
			success:  anthropicMessage,
			inTokens: 50,
		},
		{
			name:     "openai",
			build:    func(t *testing.T, h http.HandlerFunc) Provider { return newTestOpenAIProvider(t, h) },
			success:  openAICompletion,
			inTokens: 40,
		},
	}

	for _, a := range adapters {
		t.Run(a.name+"/valid tip", func(t *testing.T) {
			p := a.build(t, a.success(tipJSON))
			resp, err := p.Generate(context.Background(), tipRequest())
			require.NoError(t, err)
			assert.JSONEq(t, tipJSON, string(resp.Content))
			assert.Equal(t, a.inTokens, resp.Usage.InputTokens)
			assert.Equal(t, "end", resp.StopReason)
		})

		t.Run(a.name+"/off-schema tip", func(t *testing.T) {
			p := a.build(t, a.success(`{"tip":"Sing scales.","labId":"karaoke"}`))
			_, err := p.Generate(context.Background(), tipRequest())
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
		})

		t.Run(a.name+"/rate limited", func(t *testing.T) {
			p := a.build(t, errorStatus(http.StatusTooManyRequests))
			_, err := p.Generate(context.Background(), tipRequest())
			var rl *ErrRateLimit
			require.ErrorAs(t, err, &rl)
		})

		t.Run(a.name+"/server error", func(t *testing.T) {
			p := a.build(t, errorStatus(http.StatusBadGateway))
			_, err := p.Generate(context.Background(), tipRequest())
			var unavail *ErrProviderUnavailable
			require.ErrorAs(t, err, &unavail)
		})
	}
}

func TestAnthropicTruncatedTip(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"tip":"Tap al`, "max_tokens"))
	_, err := p.Generate(context.Background(), tipRequest())
	var trunc *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &trunc)
	assert.Equal(t, `{"tip":"Tap al`, string(trunc.Content))
}

func TestAnthropicRetryAfter(t *testing.T) {
	p := newTestAnthropicProvider(t, errorStatus(http.StatusTooManyRequests))
	_, err := p.Generate(context.Background(), tipRequest())
	var rl *ErrRateLimit
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 2*time.Second, rl.RetryAfter)
}

func TestAdapterIdentity(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicMessage(tipJSON))
	assert.Equal(t, "anthropic", p.Vendor())
	assert.Equal(t, "claude-haiku-4-5", p.ModelID(), "aliases resolve at construction")

	_, err := NewAnthropicProvider(AnthropicConfig{})
	assert.Error(t, err)
}

func TestModelMapping(t *testing.T) {
	tests := []struct {
		models map[string]string
		input  string
		want   string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5"},
		{anthropicModels, "claude-opus-4-1", "claude-opus-4-1"},
		{openaiModels, "gpt-mini", "gpt-4.1-mini"},
		{geminiModels, "gemini-flash", "gemini-2.5-flash"},
		{geminiModels, "gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveModel(tt.input, tt.models), "resolveModel(%q)", tt.input)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-haiku-4.5"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-haiku-4.5", p.ModelID(), "OpenRouter model ids pass through")
	assert.Equal(t, "openrouter", p.Vendor())

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.Error(t, err)
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tip":   map[string]any{"type": "string"},
			"labId": map[string]any{"type": "string", "enum": []any{"rhythm", "pitch", "harmony"}},
			"bpm":   map[string]any{"type": "integer"},
			"steps": map[string]any{"type": "array", "items": map[string]any{"type": "boolean"}},
		},
		"required": []any{"tip", "labId"},
	}

	s := geminiSchema(def)
	require.Len(t, s.Properties, 4)
	assert.EqualValues(t, "OBJECT", s.Type)
	assert.EqualValues(t, "STRING", s.Properties["tip"].Type)
	assert.EqualValues(t, "INTEGER", s.Properties["bpm"].Type)
	assert.Len(t, s.Properties["labId"].Enum, 3)
	assert.EqualValues(t, "ARRAY", s.Properties["steps"].Type)
	assert.EqualValues(t, "BOOLEAN", s.Properties["steps"].Items.Type)
	assert.Equal(t, []string{"tip", "labId"}, s.Required)
	assert.EqualValues(t, "STRING", geminiSchema(map[string]any{"type": "date"}).Type)
}
