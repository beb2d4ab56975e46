// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API. Any OpenAI-compatible endpoint works by overriding
// BaseURL; the default configuration targets Groq.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hupe1980/supportmesh/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Groq defaults. Groq serves an OpenAI-compatible chat completions API.
const (
	GroqBaseURL = "https://api.groq.com/openai/v1/"
	GroqModel   = "mixtral-8x7b-32768"
)

// Options configure the OpenAI model adapter.
type Options struct {
	Model       string
	BaseURL     string
	APIKey      string
	Provider    string
	Temperature float64
	MaxTokens   int64
	HTTPClient  *http.Client
}

// Model wraps the Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new model using the official client. SDK retries are
// disabled; retrying belongs to the runner.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithMaxRetries(0)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	client := openai.NewClient(clientOpts...)
	return &Model{client: &client, opts: opts}
}

func defaultOptions() Options {
	return Options{
		Model:       GroqModel,
		BaseURL:     GroqBaseURL,
		Provider:    "groq",
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// Complete sends prompt as a single user message.
func (m *Model) Complete(ctx context.Context, req model.Request) (model.Response, error) {
	resp, err := m.client.Chat.Completions.New(ctx, m.buildParams(req))
	if err != nil {
		return model.Response{}, classifyError(m.opts.Provider, err)
	}
	if len(resp.Choices) == 0 {
		return model.Response{}, fmt.Errorf("%w: no choices returned", model.ErrInvalidResponse)
	}

	ch0 := resp.Choices[0]
	return model.Response{
		Text:         strings.TrimSpace(ch0.Message.Content),
		FinishReason: ch0.FinishReason,
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// classifyError maps API statuses and transport failures to model.ErrRequest
// and everything else, such as an undecodable body, to
// model.ErrInvalidResponse.
func classifyError(provider string, err error) error {
	var (
		apiErr *openai.Error
		urlErr *url.Error
	)
	if errors.As(err, &apiErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s api error: %w", model.ErrRequest, provider, err)
	}
	return fmt.Errorf("%w: %s response: %w", model.ErrInvalidResponse, provider, err)
}

func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}
	temperature := m.opts.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model:       m.opts.Model,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	}
}

// Info returns metadata describing this model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: m.opts.Provider}
}
