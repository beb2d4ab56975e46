package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/supportmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_RoundTrip(t *testing.T) {
	c := newFixedReply("Technical Issue|3")
	a := NewTicketClassificationAgent(c)

	got, err := a.Classify(context.Background(), "Cannot log in", "I get an error when I try to log in to my account")
	require.NoError(t, err)
	assert.Equal(t, "Technical Issue", got.Category)
	assert.Equal(t, 3, got.Priority)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	assert.Equal(t, "Technical Issue|3", got.RawResponse)

	prompt := c.lastPrompt()
	assert.Contains(t, prompt, "Title: Cannot log in")
	assert.Contains(t, prompt, "Description: I get an error when I try to log in to my account")
	assert.Contains(t, prompt, "category|priority_number")
	assert.Contains(t, prompt, "Technical Issue, Account Related, Billing, Feature Request, General Inquiry")
}

func TestClassify_Fallbacks(t *testing.T) {
	tests := []struct {
		name         string
		reply        string
		wantCategory string
		wantPriority int
	}{
		{"garbage", "garbage", DefaultCategory, DefaultPriority},
		{"non numeric priority", "Billing|high", DefaultCategory, DefaultPriority},
		{"sentinel", "Error: Unable to process request", DefaultCategory, DefaultPriority},
		{"unknown category sanitized", "Hardware|3", DefaultCategory, 3},
		{"out of range priority sanitized", "Billing|9", "Billing", DefaultPriority},
		{"zero priority sanitized", "Billing|0", "Billing", DefaultPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewTicketClassificationAgent(newFixedReply(tt.reply))
			got, err := a.Classify(context.Background(), "Cannot log in", "I get an error")
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantPriority, got.Priority)
		})
	}
}

func TestClassify_InvalidInputFailsLoud(t *testing.T) {
	c := newFixedReply("Technical Issue|3")
	a := NewTicketClassificationAgent(c)

	for _, in := range []Input{
		{Title: "", Description: "desc"},
		{Title: "title", Description: ""},
		{Title: "   ", Description: "desc"},
		{Title: "title", Description: "\n\t"},
	} {
		_, err := a.Classify(context.Background(), in.Title, in.Description)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		assert.ErrorIs(t, a.ValidateInput(in), core.ErrInvalidInput)

		_, err = a.Process(context.Background(), in)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	}
	assert.Equal(t, 0, c.calls(), "no model call for invalid input")
}

func TestClassification_SanitizeResponse(t *testing.T) {
	a := NewTicketClassificationAgent(newFixedReply(""))

	got := a.SanitizeResponse(map[string]any{"category": "Billing", "priority": 4})
	assert.Equal(t, map[string]any{"category": "Billing", "priority": 4}, got)

	got = a.SanitizeResponse(map[string]any{"category": "Nope", "priority": "4"})
	assert.Equal(t, map[string]any{"category": DefaultCategory, "priority": DefaultPriority}, got)

	got = a.SanitizeResponse(map[string]any{})
	assert.Equal(t, map[string]any{"category": DefaultCategory, "priority": DefaultPriority}, got)
}

func TestClassification_Process(t *testing.T) {
	a := NewTicketClassificationAgent(newFixedReply("Billing|1"))
	out, err := a.Process(context.Background(), Input{Title: "Refund", Description: "Please refund my order"})
	require.NoError(t, err)
	assert.Equal(t, "Billing", out["category"])
	assert.Equal(t, 1, out["priority"])
}
