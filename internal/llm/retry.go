package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential
// backoff and ±20% jitter.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	wait  func(ctx context.Context, d time.Duration) error
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, cfg: cfg, wait: sleep}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(1, r.cfg.MaxAttempts)
	invalidSeen := false

	var err error
	for attempt := range attempts {
		var resp *Response
		if resp, err = r.inner.Generate(ctx, req); err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) || attempt == attempts-1 {
			return nil, err
		}
		if werr := r.wait(ctx, r.delay(attempt, err)); werr != nil {
			return nil, werr
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// retryable reports whether err is worth another attempt. A schema
// miss is retried once since resampling often fixes it.
func retryable(err error, invalidSeen *bool) bool {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &maxTok):
		return false
	case errors.As(err, &invalid):
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	d := r.cfg.InitialWait
	for range attempt {
		d = time.Duration(float64(d) * r.cfg.Multiplier)
		if r.cfg.MaxWait > 0 && d >= r.cfg.MaxWait {
			d = r.cfg.MaxWait
			break
		}
	}
	jitter := (rand.Float64()*0.4 - 0.2) * float64(d)
	return max(0, d+time.Duration(jitter))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
