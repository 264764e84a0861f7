package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5",
	"claude-haiku":  "claude-haiku-4-5",
}

type anthropicClient struct {
	sdk anthropic.Client
}

// NewAnthropicProvider builds a Provider on the Messages API. Extra
// request options are passed to the SDK client.
func NewAnthropicProvider(cfg AnthropicConfig, opts ...option.RequestOption) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	c := &anthropicClient{sdk: anthropic.NewClient(opts...)}
	return newAdapter("anthropic", cfg.Model, anthropicModels, c), nil
}

func (c *anthropicClient) complete(ctx context.Context, model string, req Request) (completion, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(req.MaxTokens),
	}
	for _, m := range req.Messages {
		role := anthropic.MessageParamRoleUser
		if m.Role == RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		params.Messages = append(params.Messages, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
		})
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := c.sdk.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			var header http.Header
			if apiErr.Response != nil {
				header = apiErr.Response.Header
			}
			return completion{}, classifyStatus(apiErr.StatusCode, header, err)
		}
		return completion{}, &ErrProviderUnavailable{Err: err}
	}

	out := completion{
		model: string(msg.Model),
		stop:  StopEnd,
		usage: Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)},
	}
	if string(msg.StopReason) == "max_tokens" {
		out.stop = StopMaxTokens
	}
	for _, block := range msg.Content {
		if block.Type == "text" {
			out.text = block.Text
			return out, nil
		}
	}
	return completion{}, &ErrInvalidResponse{Err: fmt.Errorf("no text block in %s response", model)}
}
