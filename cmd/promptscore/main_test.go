package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptscore/internal/model"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	verbose, provider, noLang = false, "", false

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGateCommand(t *testing.T) {
	out, err := runCLI(t, "", "gate", "--no-language-check", "buy", "buy", "buy", "now")
	require.NoError(t, err)

	var result model.GateResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	assert.Equal(t, "Detected repetitive spam.", result.Reason)
}

func TestAnalyzeCommandWithMockJudge(t *testing.T) {
	t.Setenv("SCORER_URL", "http://127.0.0.1:1/score")
	t.Setenv("SCORER_TIMEOUT_MS", "100")

	out, err := runCLI(t, "Write a short story outline about a lighthouse keeper, in five bullet points.",
		"analyze", "--provider", "mock", "--no-language-check")
	require.NoError(t, err)

	var resp model.AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.StatusAccepted, resp.Status)
	assert.Zero(t, resp.BertScore)
}

func TestAnalyzeCommandNeedsPrompt(t *testing.T) {
	_, err := runCLI(t, "   ", "analyze", "--provider", "mock")
	assert.EqualError(t, err, "Please enter a prompt.")
}
