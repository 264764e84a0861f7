package llm

import (
	"context"
	"encoding/json"
)

// completion is what a vendor client hands back before validation.
type completion struct {
	text  string
	usage Usage
	model string
	stop  string
}

// completer is the vendor-specific half of a Provider.
type completer interface {
	complete(ctx context.Context, model string, req Request) (completion, error)
}

// Adapter turns a vendor client into a Provider. It resolves the model
// name, rejects truncated output and validates against the schema.
type Adapter struct {
	vendor string
	model  string
	client completer
}

func newAdapter(vendor, model string, aliases map[string]string, c completer) *Adapter {
	return &Adapter{vendor: vendor, model: resolveModel(model, aliases), client: c}
}

func (a *Adapter) Generate(ctx context.Context, req Request) (*Response, error) {
	out, err := a.client.complete(ctx, a.model, req)
	if err != nil {
		return nil, err
	}

	content := json.RawMessage(out.text)
	if out.stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	model := out.model
	if model == "" {
		model = a.model
	}
	usage := out.usage
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: out.stop}, nil
}

func (a *Adapter) ModelID() string { return a.model }

// Vendor names the backing service ("anthropic", "openai", ...).
func (a *Adapter) Vendor() string { return a.vendor }

// resolveModel maps a short alias to a vendor model id. Unknown names
// pass through so full ids can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
