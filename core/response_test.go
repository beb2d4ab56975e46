package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentResponse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		resp    AgentResponse
		wantErr bool
	}{
		{"success with data", NewSuccessResponse("A", map[string]any{"k": "v"}, time.Millisecond), false},
		{"success nil data", NewSuccessResponse("A", nil, 0), true},
		{"success empty data", NewSuccessResponse("A", map[string]any{}, 0), true},
		{"failure with message", NewErrorResponse("A", "boom", 0), false},
		{"failure without message", NewErrorResponse("A", "", 0), true},
		{"zero value", AgentResponse{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.resp.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidResponse))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAgentResponse_Immutable(t *testing.T) {
	data := map[string]any{"category": "Billing"}
	resp := NewSuccessResponse("A", data, 0)

	data["category"] = "changed"
	assert.Equal(t, "Billing", resp.Data()["category"])

	out := resp.Data()
	out["category"] = "changed again"
	v, ok := resp.Get("category")
	require.True(t, ok)
	assert.Equal(t, "Billing", v)

	_, ok = resp.Get("missing")
	assert.False(t, ok)
}

func TestAgentResponse_Accessors(t *testing.T) {
	resp := NewErrorResponse("ContentGenerationAgent", "timeout", 2*time.Second)
	assert.False(t, resp.Success())
	assert.Equal(t, "timeout", resp.Error())
	assert.Equal(t, "ContentGenerationAgent", resp.AgentName())
	assert.Equal(t, 2*time.Second, resp.ExecutionTime())
	assert.Nil(t, resp.Data())
	assert.WithinDuration(t, time.Now().UTC(), resp.Timestamp(), time.Minute)
}

func TestAgentResponse_Message(t *testing.T) {
	ok := NewSuccessResponse("A", map[string]any{"k": 1}, 1500*time.Millisecond).Message()
	assert.Equal(t, true, ok["success"])
	assert.Equal(t, "A", ok["agent_name"])
	assert.InDelta(t, 1.5, ok["execution_time"], 1e-9)
	assert.Equal(t, map[string]any{"k": 1}, ok["data"])
	assert.NotContains(t, ok, "error")
	assert.Contains(t, ok, "timestamp")

	failed := NewErrorResponse("A", "boom", 0).Message()
	assert.Equal(t, false, failed["success"])
	assert.Equal(t, "boom", failed["error"])
	assert.NotContains(t, failed, "data")
}
