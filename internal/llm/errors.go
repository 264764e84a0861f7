package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// ErrRateLimit is a 429 from the vendor. RetryAfter is zero when the
// vendor did not say.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return "rate limited, retry after " + e.RetryAfter.String() + ": " + errText(e.Err)
	}
	return "rate limited: " + errText(e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the output was not JSON or broke the schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return "invalid LLM response: " + errText(e.Err) }

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers network failures and non-429 API errors.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means generation stopped at Request.MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "LLM response truncated at max tokens" }

func errText(err error) string {
	if err == nil {
		return "no detail"
	}
	return err.Error()
}

// classifyStatus maps a vendor HTTP status onto the retry taxonomy.
// header may be nil.
func classifyStatus(status int, header http.Header, err error) error {
	if status != http.StatusTooManyRequests {
		return &ErrProviderUnavailable{Err: err}
	}
	return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
