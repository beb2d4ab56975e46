package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*StructuredLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf}), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		out = append(out, entry)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" INFO ":  LogLevelInfo,
		"warn":    LogLevelWarn,
		"warning": LogLevelWarn,
		"Error":   LogLevelError,
		"verbose": LogLevelInfo,
		"":        LogLevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	l.Error("shown too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, "ERROR", lines[1]["level"])
}

func TestStructuredLogger_ComponentAndAttrs(t *testing.T) {
	base, buf := newBufferLogger(LogLevelDebug)
	scoped := base.WithComponent("runner").WithAttr("ticket", 7)

	scoped.Info("scoped")
	base.Info("plain")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "runner", lines[0]["component"])
	assert.EqualValues(t, 7, lines[0]["ticket"])
	assert.NotContains(t, lines[1], "component")
	assert.NotContains(t, lines[1], "ticket")
}

func TestStructuredLogger_CallHelpers(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l.LogLLMCall("mixtral-8x7b-32768", 120, 50*time.Millisecond, true, nil)
	l.LogLLMCall("mixtral-8x7b-32768", 0, time.Millisecond, false, errors.New("timeout"))
	l.LogAgentCall("TicketClassificationAgent", 2, time.Millisecond, false, errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "LLM call completed", lines[0]["msg"])
	assert.EqualValues(t, 120, lines[0]["token_count"])
	assert.Equal(t, true, lines[0]["success"])

	assert.Equal(t, "LLM call failed", lines[1]["msg"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "timeout", lines[1]["error"])

	assert.Equal(t, "Agent attempt failed", lines[2]["msg"])
	assert.Equal(t, "WARN", lines[2]["level"])
	assert.EqualValues(t, 2, lines[2]["attempt"])
	assert.Equal(t, "TicketClassificationAgent", lines[2]["agent"])
}

func TestStructuredLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})
	l.Info("hello", "who", "world")
	assert.True(t, strings.Contains(buf.String(), "who=world"))
}

func TestStartTimer(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	stop := l.StartTimer("process_ticket")
	stop()

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "process_ticket", lines[0]["operation"])
}

func TestAdapters(t *testing.T) {
	var buf bytes.Buffer
	var l Logger = NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))
	l.Info("via adapter")
	assert.Contains(t, buf.String(), "via adapter")

	var noop Logger = NoOpLogger{}
	noop.Error("discarded")
}
