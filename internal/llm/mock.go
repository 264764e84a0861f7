package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead
// of content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted responses in order and keeps every
// request it saw. It is selected with MUSICLAB_LLM_PROVIDER=mock.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	next   int
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Generate returns ErrProviderUnavailable once the script runs out.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.next >= len(m.script) {
		return nil, &ErrProviderUnavailable{}
	}
	r := m.script[m.next]
	m.next++
	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, r)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
