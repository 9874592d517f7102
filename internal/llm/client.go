// Package llm wraps the chat-completion API used by the moderation gate and
// the ranker. Clients are constructed explicitly and injected; nothing here is
// a package-level singleton.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/metrics"
)

// ErrEmptyResponse is returned when the service answers without any choice.
var ErrEmptyResponse = errors.New("llm: empty response")

// requestSeed is sent with every call so providers that honor it return the
// same answer for the same prompt.
var requestSeed = 0

// Completer returns the raw JSON text the model produced for a system and user prompt.
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// ChatAPI is the subset of the go-openai client used here.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config configures a Client.
type Config struct {
	Name    string // circuit breaker and metrics label
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI compatible chat endpoint with JSON output and
// deterministic sampling. Every call is bounded by Timeout and passes through a
// circuit breaker.
type Client struct {
	api     ChatAPI
	model   string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[string]
	logger  *zap.Logger
}

// NewClient builds a Client backed by go-openai.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return NewClientWithAPI(openai.NewClientWithConfig(apiCfg), cfg, logger)
}

// NewClientWithAPI builds a Client around an existing ChatAPI.
func NewClientWithAPI(api ChatAPI, cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "llm"
	}
	logger = logger.With(zap.String("llm_client", cfg.Name))
	metrics.LLMCircuitState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit state change", zap.String("from", from.String()), zap.String("to", to.String()))
			metrics.LLMCircuitState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{api: api, model: cfg.Model, timeout: cfg.Timeout, cb: cb, logger: logger}
}

// CompleteJSON sends one system and one user message and returns the content
// of the first choice.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := c.cb.Execute(func() (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			// Temperature is tagged omitempty, so 0 would fall back to the
			// provider default of 1. 1e-45 is greedy decoding in practice.
			Temperature: math.SmallestNonzeroFloat32,
			Seed:        &requestSeed,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		c.logger.Warn("llm completion failed", zap.Error(err), zap.Duration("latency", time.Since(start)))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	c.logger.Debug("llm completion", zap.Duration("latency", time.Since(start)), zap.Int("bytes", len(content)))
	return content, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
