package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/musiclab/internal/store"
)

// LoggingProvider appends an llm_request_events row for every call,
// successful or not. A failing event log never fails the request.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	now      func() time.Time
}

// WithLogging wraps p. provider is the configured vendor name.
func WithLogging(p Provider, provider string, events store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: provider, events: events, now: time.Now}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   l.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if lerr := l.events.AppendLLMRequest(ctx, ev); lerr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", lerr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// transcript renders a request the way `musiclab llm view` shows it.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
