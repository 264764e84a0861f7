package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-mini": "gpt-4.1-mini",
	"gpt-nano": "gpt-4.1-nano",
}

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

type openaiClient struct {
	sdk *openai.Client
}

// NewOpenAIProvider builds a Provider on the chat completions API.
// BaseURL points it at any OpenAI-compatible endpoint.
func NewOpenAIProvider(cfg OpenAIConfig) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newAdapter("openai", cfg.Model, openaiModels, newOpenAIClient(cfg.APIKey, cfg.BaseURL)), nil
}

// NewOpenRouterProvider talks to OpenRouter's OpenAI-compatible API.
// Model ids are vendor-prefixed ("google/...") and pass through as is.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	return newAdapter("openrouter", cfg.Model, nil, newOpenAIClient(cfg.APIKey, base)), nil
}

func newOpenAIClient(key, baseURL string) *openaiClient {
	conf := openai.DefaultConfig(key)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &openaiClient{sdk: openai.NewClientWithConfig(conf)}
}

func (c *openaiClient) complete(ctx context.Context, model string, req Request) (completion, error) {
	chat := openai.ChatCompletionRequest{
		Model:               model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return completion{}, fmt.Errorf("marshal schema %s: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}

	resp, err := c.sdk.CreateChatCompletion(ctx, chat)
	if err != nil {
		return completion{}, openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return completion{}, &ErrInvalidResponse{Err: errors.New("no choices in chat completion")}
	}

	choice := resp.Choices[0]
	out := completion{
		text:  choice.Message.Content,
		model: resp.Model,
		stop:  StopEnd,
		usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
	if choice.FinishReason == openai.FinishReasonLength {
		out.stop = StopMaxTokens
	}
	return out, nil
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, nil, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
