package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/xaenox/helpdesk-bot/internal/models"
	"go.uber.org/zap"
)

// StubReply is returned by Complete when stub mode is enabled.
const StubReply = "[stub] LLM stubbed response"

// ChatCompleter is the slice of the OpenAI client the resilient client
// depends on, kept narrow so tests can inject fakes.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Options struct {
	Model       string
	MaxTokens   int
	Temperature float32
	TopP        float32
	Timeout     time.Duration
	Retries     int
	Fallback    string
	Stub        bool
}

// Client wraps the chat completion call with a per-attempt timeout,
// bounded retries with linear backoff for transient failures, and a
// fixed fallback reply once the budget is exhausted. Callers never see
// an error from Complete; the only refusal is at construction time.
type Client struct {
	api    ChatCompleter
	opts   Options
	sleep  func(time.Duration)
	logger *zap.Logger
}

func NewClient(apiKey string, opts Options, logger *zap.Logger) (*Client, error) {
	c := &Client{
		opts:   opts,
		sleep:  time.Sleep,
		logger: logger,
	}
	if opts.Stub {
		return c, nil
	}
	if apiKey == "" {
		return nil, errors.New("openai api key is required (or enable stub mode)")
	}
	c.api = openai.NewClient(apiKey)
	return c, nil
}

// Complete sends [system] + history to the model and returns the
// trimmed reply with its token usage. Transient failures are retried up
// to Retries additional attempts, waiting 1.5 × attempt number between
// tries; anything else, or an exhausted budget, degrades to the
// fallback text with zero tokens.
func (c *Client) Complete(ctx context.Context, systemPrompt string, history []models.Turn) models.CompletionOutcome {
	if c.opts.Stub {
		return models.CompletionOutcome{Text: StubReply}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       c.opts.Model,
		Messages:    messages,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
	}

	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		start := time.Now()
		resp, err := c.attempt(ctx, req)
		if err == nil {
			text := ""
			if len(resp.Choices) > 0 {
				text = strings.TrimSpace(resp.Choices[0].Message.Content)
			}
			c.logger.Debug("completion succeeded",
				zap.Duration("latency", time.Since(start)),
				zap.Int("tokens", resp.Usage.TotalTokens))
			return models.CompletionOutcome{Text: text, TokensUsed: resp.Usage.TotalTokens}
		}

		if !isTransient(err) {
			c.logger.Warn("completion failed with non-retryable error", zap.Error(err))
			return models.CompletionOutcome{Text: c.opts.Fallback}
		}

		if attempt < c.opts.Retries {
			wait := time.Duration(float64(attempt+1) * 1.5 * float64(time.Second))
			c.logger.Warn("transient completion error, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", wait))
			c.sleep(wait)
			continue
		}

		c.logger.Warn("completion retries exhausted", zap.Error(err))
	}

	return models.CompletionOutcome{Text: c.opts.Fallback}
}

func (c *Client) attempt(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return c.api.CreateChatCompletion(attemptCtx, req)
}

// isTransient reports whether err is worth a retry: rate limits,
// timeouts, connectivity problems and 5xx backend errors.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	return false
}

func retryableStatus(status int) bool {
	switch {
	case status == 408, status == 429:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
