package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/supportmesh/completion"
	"github.com/hupe1980/supportmesh/internal/util"
	"github.com/hupe1980/supportmesh/protocol"
)

// Sentiment and urgency scales.
var (
	SentimentLevels = []string{"Very Negative", "Negative", "Neutral", "Positive", "Very Positive"}
	UrgencyLevels   = []string{"Low", "Medium", "High", "Critical"}
)

// Semantics defaults.
const (
	DefaultSentiment = "Neutral"
	DefaultUrgency   = "Medium"
)

var semanticsPrompt = util.MustParse("semantics", `
Analyze the language and semantics of this support ticket:
Title: {{.Title}}
Description: {{.Description}}

Provide analysis in the following format:
sentiment|urgency|key_phrases|technical_terms

Where:
- sentiment is one of: {{join ", " .Sentiments}}
- urgency is one of: {{join ", " .Urgencies}}
- key_phrases are the most important phrases (comma-separated)
- technical_terms are any technical terms used (comma-separated)
`)

// Semantics is the result of LanguageSemanticsAgent.
type Semantics struct {
	Sentiment      string   `json:"sentiment"`
	Urgency        string   `json:"urgency"`
	KeyPhrases     []string `json:"key_phrases"`
	TechnicalTerms []string `json:"technical_terms"`
}

// ToMap renders the analysis as an agent result mapping.
func (s Semantics) ToMap() map[string]any {
	return map[string]any{
		"sentiment":       s.Sentiment,
		"urgency":         s.Urgency,
		"key_phrases":     s.KeyPhrases,
		"technical_terms": s.TechnicalTerms,
	}
}

// DefaultSemantics is the fallback analysis.
func DefaultSemantics() Semantics {
	return Semantics{
		Sentiment:      DefaultSentiment,
		Urgency:        DefaultUrgency,
		KeyPhrases:     []string{},
		TechnicalTerms: []string{},
	}
}

// LanguageSemanticsAgent extracts sentiment, urgency, key phrases and
// technical terms.
type LanguageSemanticsAgent struct {
	Base
}

// NewLanguageSemanticsAgent creates the semantics agent.
func NewLanguageSemanticsAgent(client completion.Completer, optFns ...func(o *Options)) *LanguageSemanticsAgent {
	return &LanguageSemanticsAgent{Base: NewBase("LanguageSemanticsAgent", client, optFns...)}
}

// Analyze runs the semantic analysis.
func (a *LanguageSemanticsAgent) Analyze(ctx context.Context, title, description string) (Semantics, error) {
	prompt, err := util.Render(semanticsPrompt, map[string]any{
		"Title":       title,
		"Description": description,
		"Sentiments":  SentimentLevels,
		"Urgencies":   UrgencyLevels,
	})
	if err != nil {
		return Semantics{}, fmt.Errorf("render semantics prompt: %w", err)
	}

	reply := a.complete(ctx, prompt)
	fields, err := protocol.Parse(reply, 4)
	if err != nil {
		a.logParseFailure(reply, err)
		return DefaultSemantics(), nil
	}
	return Semantics{
		Sentiment:      fields.Text(0),
		Urgency:        fields.Text(1),
		KeyPhrases:     fields.List(2),
		TechnicalTerms: fields.List(3),
	}, nil
}

// Process implements Agent.
func (a *LanguageSemanticsAgent) Process(ctx context.Context, in Input) (map[string]any, error) {
	s, err := a.Analyze(ctx, in.Title, in.Description)
	if err != nil {
		return nil, err
	}
	return s.ToMap(), nil
}
