// internal/audit/synthesize-diagnosis/generator.go
package synthesizediagnosis

import (
	"context"
	"fmt"
	"time"
)

// Request is one completion call: a system prompt, a user prompt and the
// sampling settings.
type Request struct {
	System      string
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Generator produces the diagnosis text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// NewGenerator builds the provider selected by cfg.Provider.
func NewGenerator(ctx context.Context, cfg *Config) (Generator, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg), nil
	case ProviderAnthropic:
		return NewAnthropicGenerator(cfg), nil
	case ProviderGemini:
		return NewGeminiGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// retryable marks provider errors worth another attempt.
type retryable struct{ err error }

func (r retryable) Error() string { return r.err.Error() }
func (r retryable) Unwrap() error { return r.err }

// withRetry runs fn up to maxRetries+1 times with 100ms·2^n backoff while
// it returns retryable errors.
func withRetry(ctx context.Context, maxRetries int, fn func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := fn()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if _, ok := err.(retryable); !ok {
			break
		}
	}
	return "", lastErr
}
