package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_Complete(t *testing.T) {
	m := NewMockModel("mock")
	m.AddResponse("category", "Billing|2")
	m.SetFallback("fallback")

	resp, err := m.Complete(context.Background(), Request{Prompt: "pick a category"})
	require.NoError(t, err)
	assert.Equal(t, "Billing|2", resp.Text)

	resp, err = m.Complete(context.Background(), Request{Prompt: "anything else"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Text)

	assert.Equal(t, []string{"pick a category", "anything else"}, m.Prompts())
	assert.Equal(t, Info{Name: "mock", Provider: "mock"}, m.Info())
}

func TestMockModel_NoFallback(t *testing.T) {
	m := NewMockModel("mock")
	_, err := m.Complete(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestMockModel_CancelledContext(t *testing.T) {
	m := NewMockModel("mock")
	m.SetFallback("x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Complete(ctx, Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
