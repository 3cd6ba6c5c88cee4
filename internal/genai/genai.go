// Package genai provides the AI-tier clients MoodPipe cascades call: an OpenAI-compatible
// chat-completions client and a native Gemini client, both behind the Generator interface.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider names accepted by New.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default configuration constants
const (
	DefaultOpenAIModel         = "gpt-4o-mini"
	DefaultGeminiModel         = "gemini-1.5-flash"
	DefaultTemperature         = 0.7
	DefaultMaxCompletionTokens = 512
	DefaultRequestTimeout      = 30 * time.Second
)

var (
	// ErrNoChoicesReturned is returned when the completion carries no choices.
	ErrNoChoicesReturned = errors.New("no choices returned")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrMissingAPIKey is returned when a client is constructed without a credential.
	ErrMissingAPIKey = errors.New("API key not set")
	// ErrUnknownProvider is returned by New for unsupported providers.
	ErrUnknownProvider = errors.New("unknown genai provider")
)

// Generator produces text from a system prompt and a user prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Opts holds configuration options for GenAI clients.
type Opts struct {
	APIKey              string
	Model               string
	BaseURL             string
	Temperature         float64
	MaxCompletionTokens int64
	RequestTimeout      time.Duration
}

// Option defines a configuration option for GenAI clients.
type Option func(*Opts)

// WithAPIKey sets the credential used by the client.
func WithAPIKey(key string) Option {
	return func(o *Opts) {
		o.APIKey = key
	}
}

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(o *Opts) {
		o.Model = model
	}
}

// WithBaseURL points the OpenAI-compatible client at another endpoint.
func WithBaseURL(url string) Option {
	return func(o *Opts) {
		o.BaseURL = url
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Opts) {
		o.Temperature = t
	}
}

// WithMaxCompletionTokens caps the generated length.
func WithMaxCompletionTokens(n int64) Option {
	return func(o *Opts) {
		o.MaxCompletionTokens = n
	}
}

// WithRequestTimeout bounds each remote call.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Opts) {
		o.RequestTimeout = d
	}
}

func buildOpts(defaultModel string, opts []Option) Opts {
	cfg := Opts{
		Model:               defaultModel,
		Temperature:         DefaultTemperature,
		MaxCompletionTokens: DefaultMaxCompletionTokens,
		RequestTimeout:      DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return cfg
}

// New constructs the Generator for the named provider.
func New(ctx context.Context, provider string, opts ...Option) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderOpenAI:
		return NewClient(opts...)
	case ProviderGemini:
		return NewGeminiClient(ctx, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}

// chatService defines minimal interface for chat completions.
type chatService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client wraps the OpenAI ChatCompletion service.
type Client struct {
	chat                chatService
	model               string
	temperature         float64
	maxCompletionTokens int64
	timeout             time.Duration
}

var _ Generator = (*Client)(nil)

// NewClient initializes an OpenAI-compatible client. An API key is required.
func NewClient(opts ...Option) (*Client, error) {
	cfg := buildOpts(DefaultOpenAIModel, opts)
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	cli := openai.NewClient(reqOpts...)
	slog.Debug("GenAI client created", "provider", ProviderOpenAI, "model", cfg.Model, "base_url_set", cfg.BaseURL != "")
	return &Client{
		chat:                &cli.Chat.Completions,
		model:               cfg.Model,
		temperature:         cfg.Temperature,
		maxCompletionTokens: cfg.MaxCompletionTokens,
		timeout:             cfg.RequestTimeout,
	}, nil
}

// Generate sends one system+user exchange and returns the first choice's content.
// An empty system prompt sends the user prompt alone.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if c.temperature > 0 {
		params.Temperature = openai.Float(c.temperature)
	}
	if c.maxCompletionTokens > 0 {
		params.MaxCompletionTokens = openai.Int(c.maxCompletionTokens)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.chat.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoicesReturned
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// ClientSource hands out the AI client when the held credential is currently usable.
type ClientSource interface {
	Client(ctx context.Context) (Generator, bool)
}
