package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/supportmesh"
	"github.com/hupe1980/supportmesh/config"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
)

const kbYAML = `entries:
  - title: Password reset
    content: Use the 'Forgot password' link on the login page.
    category: Account Related
    tags: [login, password]
  - title: Invoice copy
    content: Download invoices from the billing page.
    category: Billing
    tags: [invoice]
`

func mockFactory(m model.Model) meshFactory {
	return func(ctx context.Context, cfg *config.Config, logger logging.Logger) (*supportmesh.Mesh, error) {
		return supportmesh.New(ctx, func(o *supportmesh.Options) {
			o.Config = cfg
			o.Model = m
			o.Logger = logger
		})
	}
}

func happyModel() *model.MockModel {
	m := model.NewMockModel("mock")
	m.AddResponse("category|priority_number", "Account Related|2")
	m.AddResponse("Find the most relevant solution", "Use the 'Forgot password' link on the login page.")
	m.AddResponse("Generate a professional and helpful response", "Dear customer, use the reset link.")
	m.AddResponse("priority_level|sla_requirement", "2|8 hours|Single user|Medium")
	m.AddResponse("sentiment|urgency", "Negative|Medium|login|account")
	m.AddResponse("primary_intent|secondary_intents", "account_management|none|reset_password|Support")
	m.AddResponse("primary_solution|alternative_approaches", "Reset password|Contact admin|10|95%")
	m.AddResponse("can_automate|automation_steps", "yes|Send reset link|90%|/api/reset")
	return m
}

// run executes the CLI against a sqlite database in dir.
func run(t *testing.T, m model.Model, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "")
	base := []string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--store", "sqlite",
		"--dsn", filepath.Join(dir, "support.db"),
		"--log-level", "error",
	}
	cmd := newRootCmd(mockFactory(m))
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeKB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(kbYAML), 0o600))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd(defaultMeshFactory)
	assert.Equal(t, "supportmesh", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, config.DefaultConfigFile, flag.DefValue)

	for _, name := range []string{"store", "dsn", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["process"])
	assert.True(t, names["analyze"])
	assert.True(t, names["kb"])
}

func TestKBImportAndList(t *testing.T) {
	dir := t.TempDir()
	m := happyModel()

	out, err := run(t, m, dir, "kb", "import", writeKB(t, dir))
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 entries")

	out, err = run(t, m, dir, "kb", "list", "--category", "Billing")
	require.NoError(t, err)

	var entries []core.KnowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Invoice copy", entries[0].Title)
	assert.Equal(t, []string{"invoice"}, entries[0].Tags)
}

func TestKBAdd(t *testing.T) {
	dir := t.TempDir()
	m := happyModel()

	out, err := run(t, m, dir, "kb", "add",
		"--title", "VPN", "--content", "Reinstall the client.", "--category", "Technical Issue", "--tags", "vpn, network")
	require.NoError(t, err)
	assert.Contains(t, out, "added entry 1")

	out, err = run(t, m, dir, "kb", "list")
	require.NoError(t, err)

	var entries []core.KnowledgeEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"vpn", "network"}, entries[0].Tags)
}

func TestProcessAndAnalyze(t *testing.T) {
	dir := t.TempDir()
	m := happyModel()

	_, err := run(t, m, dir, "kb", "import", writeKB(t, dir))
	require.NoError(t, err)

	out, err := run(t, m, dir, "process",
		"--title", "Cannot log in", "--description", "I forgot my password and the login page rejects me.")
	require.NoError(t, err)

	var res supportmesh.TicketResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, int64(1), res.TicketID)
	assert.Equal(t, "Account Related", res.Category)
	assert.Equal(t, 2, res.Priority)
	assert.True(t, res.SolutionFound)
	assert.Equal(t, "Dear customer, use the reset link.", res.Reply)

	out, err = run(t, m, dir, "analyze", "--ticket", "1")
	require.NoError(t, err)

	var analysis map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.Len(t, analysis, 5)
	for name, msg := range analysis {
		assert.Equal(t, true, msg["success"], name)
	}
}

func TestAnalyze_RequiresInput(t *testing.T) {
	_, err := run(t, happyModel(), t.TempDir(), "analyze", "--title", "only a title")
	assert.ErrorContains(t, err, "--ticket")
}

func TestProcess_RequiresFlags(t *testing.T) {
	_, err := run(t, happyModel(), t.TempDir(), "process", "--title", "x")
	assert.Error(t, err)
}

func TestReadKnowledgeFile_MissingTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - content: no title\n"), 0o600))

	_, err := readKnowledgeFile(path)
	assert.ErrorContains(t, err, "entry 1 has no title")
}
