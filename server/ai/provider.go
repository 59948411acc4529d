// Package ai wraps the reasoning service behind a small chat interface.
package ai

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// SystemPrompt creates a system message.
func SystemPrompt(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Completer is the reasoning-service contract the reconciliation
// pipeline depends on: role-tagged messages in, a single JSON object
// out. Tests substitute a deterministic implementation.
type Completer interface {
	// CompleteJSON performs a chat completion constrained to return a
	// single JSON object and returns the raw reply text.
	CompleteJSON(ctx context.Context, messages []Message) (string, error)
}

// Config holds the reasoning service configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxRetries  int
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-4.1",
		MaxRetries:  3,
		Timeout:     30 * time.Second,
		MaxTokens:   1000,
		Temperature: 0.2,
	}
}

// Provider is the OpenAI-compatible implementation of Completer.
type Provider struct {
	client  *openai.Client
	config  *Config
	limiter *rate.Limiter
}

// NewProvider creates a new reasoning service provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, errors.New("reasoning service API key is required")
	}

	// Apply defaults for unset values
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
		// The service is a shared rate-limited dependency; smooth the
		// per-day fan-out bursts instead of tripping its limiter.
		limiter: rate.NewLimiter(rate.Every(time.Second/10), 20),
	}, nil
}

// CompleteJSON performs a chat completion in JSON-object mode.
func (p *Provider) CompleteJSON(ctx context.Context, messages []Message) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		llmMessages := make([]openai.ChatCompletionMessage, len(messages))
		for i, msg := range messages {
			llmMessages[i] = openai.ChatCompletionMessage{
				Role:    msg.Role,
				Content: msg.Content,
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()

		resp, err := p.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model:       p.config.Model,
			Messages:    llmMessages,
			Temperature: p.config.Temperature,
			MaxTokens:   p.config.MaxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		return "", errors.Wrap(err, "failed to complete chat")
	}

	return result, nil
}

// doWithRetry executes a function with exponential backoff retry.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < p.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("reasoning service request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
