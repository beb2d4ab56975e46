package model

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrRequest classifies transport failures and non-2xx statuses.
	ErrRequest = errors.New("model request failed")

	// ErrInvalidResponse classifies bodies without a usable completion.
	ErrInvalidResponse = errors.New("invalid model response")
)

// Request is a single-turn completion request.
type Request struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the generated text of one completion.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "groq", "anthropic", "mock"
}

// Model is the minimal interface required by the completion client.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Replies are matched by prompt substring in registration order.
type MockModel struct {
	info     Info
	mu       sync.Mutex
	rules    []mockRule
	fallback string
	prompts  []string
}

type mockRule struct{ contains, reply string }

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: "mock"}}
}

// AddResponse registers reply for prompts containing substr.
func (m *MockModel) AddResponse(substr, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{contains: substr, reply: reply})
}

// SetFallback sets the reply used when no rule matches.
func (m *MockModel) SetFallback(reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = reply
}

// Prompts returns every prompt received so far.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, req.Prompt)
	for _, r := range m.rules {
		if strings.Contains(req.Prompt, r.contains) {
			return Response{Text: r.reply, FinishReason: "stop"}, nil
		}
	}
	if m.fallback == "" {
		return Response{}, ErrInvalidResponse
	}
	return Response{Text: m.fallback, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
