package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tmpl := MustParse("t", `
Title: {{.Title}}
Categories: {{join ", " .Categories}}
Priority: {{default "Not set" .Priority}}
`)
	out, err := Render(tmpl, map[string]any{
		"Title":      "Can't <log> in",
		"Categories": []string{"Billing", "General Inquiry"},
		"Priority":   0,
	})
	require.NoError(t, err)
	assert.Equal(t, "Title: Can't <log> in\nCategories: Billing, General Inquiry\nPriority: Not set", out)
}
