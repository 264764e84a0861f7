package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"b":2}`)})

	first, err := mock.Generate(context.Background(), Request{System: "sys"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(first.Content))
	assert.Equal(t, 10, first.Usage.InputTokens)
	assert.Equal(t, StopEnd, first.StopReason)

	_, err = mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	third, err := mock.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(third.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "an exhausted script reports the provider as down")

	assert.Equal(t, 4, mock.CallCount())
	assert.Equal(t, "sys", mock.Calls[0].System)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "coach-tip", PurposeFrom(WithPurpose(ctx, "coach-tip")))
	assert.Equal(t, "unknown", PurposeFrom(WithPurpose(ctx, "")))
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("vendor said no")

	h := http.Header{}
	h.Set("Retry-After", "3")
	var rl *ErrRateLimit
	require.ErrorAs(t, classifyStatus(http.StatusTooManyRequests, h, cause), &rl)
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
	assert.ErrorIs(t, rl, cause)

	require.ErrorAs(t, classifyStatus(http.StatusTooManyRequests, nil, cause), &rl)
	assert.Zero(t, rl.RetryAfter)

	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, classifyStatus(http.StatusInternalServerError, nil, cause), &unavail)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "karaoke"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
