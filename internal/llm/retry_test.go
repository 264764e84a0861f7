package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okTip = MockResponse{Content: json.RawMessage(`{"tip":"ok","labId":"rhythm"}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func badJSON() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
}

// newRetry returns a retrying provider that records its waits instead of
// sleeping.
func newRetry(mock *MockProvider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(mock, cfg).(*RetryProvider)
	r.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func defaultRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}
}

func TestRetryAttempts(t *testing.T) {
	tests := []struct {
		name      string
		script    []MockResponse
		cfg       RetryConfig
		wantCalls int
		wantErr   any
	}{
		{"first try", []MockResponse{okTip}, defaultRetry(), 1, nil},
		{"transient then ok", []MockResponse{down(), okTip}, defaultRetry(), 2, nil},
		{"gives up", []MockResponse{down(), down(), down(), okTip}, defaultRetry(), 3, &ErrProviderUnavailable{}},
		{"truncation is final", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okTip}, defaultRetry(), 1, &ErrMaxTokensExceeded{}},
		{"schema miss retried once", []MockResponse{badJSON(), badJSON(), okTip}, defaultRetry(), 2, &ErrInvalidResponse{}},
		{"zero attempts still calls", []MockResponse{okTip}, RetryConfig{}, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			p, _ := newRetry(mock, tt.cfg)

			resp, err := p.Generate(context.Background(), Request{})
			assert.Equal(t, tt.wantCalls, mock.CallCount())
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.JSONEq(t, string(okTip.Content), string(resp.Content))
			case *ErrProviderUnavailable:
				assert.ErrorAs(t, err, &want)
			case *ErrMaxTokensExceeded:
				assert.ErrorAs(t, err, &want)
			case *ErrInvalidResponse:
				assert.ErrorAs(t, err, &want)
			}
		})
	}
}

func TestRetryBackoffGrowsAndCaps(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), down(), down())
	cfg := RetryConfig{MaxAttempts: 5, InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}
	p, waits := newRetry(mock, cfg)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	require.Len(t, *waits, 4)

	// Nominal 100, 200, 300 (capped), 300, each within ±20%.
	for i, nominal := range []time.Duration{100, 200, 300, 300} {
		nominal *= time.Millisecond
		assert.InDelta(t, float64(nominal), float64((*waits)[i]), float64(nominal)*0.2+1, "wait %d", i)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 7 * time.Second}}, okTip)
	p, waits := newRetry(mock, defaultRetry())

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits)
}

func TestRetryStopsOnCancel(t *testing.T) {
	mock := NewMockProvider(down(), okTip)
	p, _ := newRetry(mock, defaultRetry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryDoesNotRetryContextErrors(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.DeadlineExceeded}, okTip)
	p, _ := newRetry(mock, defaultRetry())

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
}

func TestRetryModelID(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), defaultRetry()).ModelID())
}
