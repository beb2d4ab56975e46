package testutil

import (
	"context"
	"sync"

	"github.com/hupe1980/supportmesh/model"
)

// Step is one scripted model outcome. When Block is non-nil the call waits
// for it to be closed (or for ctx to end) before answering.
type Step struct {
	Reply string
	Err   error
	Block <-chan struct{}
}

// ScriptedModel is a model.Model that replays Steps in order. Once the script
// is exhausted the last step repeats. Safe for concurrent use.
type ScriptedModel struct {
	mu       sync.Mutex
	steps    []Step
	requests []model.Request
}

// NewScriptedModel creates a model answering with replies in order.
func NewScriptedModel(replies ...string) *ScriptedModel {
	steps := make([]Step, len(replies))
	for i, r := range replies {
		steps[i] = Step{Reply: r}
	}
	return &ScriptedModel{steps: steps}
}

// NewScriptedModelSteps creates a model from explicit steps.
func NewScriptedModelSteps(steps ...Step) *ScriptedModel {
	return &ScriptedModel{steps: steps}
}

// Complete implements model.Model.
func (m *ScriptedModel) Complete(ctx context.Context, req model.Request) (model.Response, error) {
	m.mu.Lock()
	idx := len(m.requests)
	m.requests = append(m.requests, req)
	var step Step
	if len(m.steps) > 0 {
		step = m.steps[min(idx, len(m.steps)-1)]
	}
	m.mu.Unlock()

	if step.Block != nil {
		select {
		case <-step.Block:
		case <-ctx.Done():
			return model.Response{}, ctx.Err()
		}
	}
	if step.Err != nil {
		return model.Response{}, step.Err
	}
	return model.Response{Text: step.Reply, FinishReason: "stop"}, nil
}

// Info implements model.Model.
func (m *ScriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "mock"}
}

// Requests returns all received requests in call order.
func (m *ScriptedModel) Requests() []model.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Request(nil), m.requests...)
}

// Calls returns the number of received requests.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
