package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Veraticus/ledgerlens/internal/common"
)

// Config selects and tunes the provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// completer is implemented by each provider client.
type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// Writer generates prose for a prompt.
type Writer struct {
	client   completer
	limiter  *rate.Limiter
	provider string
	retry    common.RetryOptions
}

// NewWriter creates a writer for the configured provider.
func NewWriter(cfg Config) (*Writer, error) {
	var (
		client completer
		err    error
	)
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	rpm := cfg.RateLimit
	if rpm <= 0 {
		rpm = 60
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	return &Writer{
		client:   client,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(float64(rpm)/60), rpm),
		retry: common.RetryOptions{
			MaxAttempts:  retries,
			InitialDelay: delay,
			MaxDelay:     delay * 10,
			Multiplier:   2.0,
		},
	}, nil
}

// Provider returns the normalized provider name.
func (w *Writer) Provider() string {
	return w.provider
}

// Generate returns the model's completion for prompt.
func (w *Writer) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := common.WithRetry(ctx, func() error {
		if err := w.limiter.Wait(ctx); err != nil {
			return &common.RetryableError{Err: fmt.Errorf("rate limiter canceled: %w", err), Retryable: false}
		}
		out, err := w.client.complete(ctx, prompt)
		if err != nil {
			return err
		}
		text = out
		return nil
	}, w.retry)
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", w.provider, err)
	}

	slog.Debug("Generated narrative", "provider", w.provider, "chars", len(text))
	return strings.TrimSpace(text), nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// statusError classifies a non-200 response for the retry loop.
func statusError(provider string, status int, body []byte) error {
	err := fmt.Errorf("%s API error (status %d): %s", provider, status, strings.TrimSpace(string(body)))
	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{Err: fmt.Errorf("%w: %v", common.ErrRateLimit, err), Retryable: true}
	case status >= 500:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}
