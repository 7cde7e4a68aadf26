package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguard/internal/types/wellness"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPromptCommand(t *testing.T) {
	out, err := run(t, "prompt", "--heart-rate", "88", "--symptoms", "dizzy", "--diet", "vegetarian")
	require.NoError(t, err)
	assert.Contains(t, out, "Heart Rate: 88 bpm")
	assert.Contains(t, out, "Symptoms: dizzy")
	assert.Contains(t, out, "Diet Habits: Vegetarian")
}

func TestPromptRejectsOutOfRange(t *testing.T) {
	_, err := run(t, "prompt", "--stress", "11")
	assert.ErrorIs(t, err, wellness.ErrOutOfRange)
}

func TestHistoryCommandIsReproducibleWithSeed(t *testing.T) {
	first, err := run(t, "history", "--seed", "42", "--heart-rate", "100")
	require.NoError(t, err)
	second, err := run(t, "history", "--seed", "42", "--heart-rate", "100")
	require.NoError(t, err)

	var a, b []wellness.HistoricalPoint
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	require.Len(t, a, 12)
	for i := range a {
		assert.Equal(t, a[i].HeartRate, b[i].HeartRate)
		assert.Equal(t, a[i].Stress, b[i].Stress)
		assert.InDelta(t, 100, a[i].HeartRate, 5)
	}
}

func TestAnalyzeCommandWithFakeProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "fake")
	t.Setenv("LOG_LEVEL", "error")
	out, err := run(t, "analyze", "--sleep", "4.5")
	require.NoError(t, err)

	var res wellness.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, wellness.RiskLow, res.RiskLevel)
	assert.NotEmpty(t, res.Summary)
}

func TestAnalyzeCommandReportsKind(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
	_, err := run(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RequestFailed")
}
