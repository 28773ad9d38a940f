package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/humanizer/pkg/preset"
)

func TestWelcome(t *testing.T) {
	p, err := preset.Lookup("gemini")
	require.NoError(t, err)

	out := Welcome(p)
	assert.Contains(t, out, "Humanizer")
	assert.Contains(t, out, "Burstiness")
	assert.Contains(t, out, "gemini-2.5-pro-preview-06-05")
	assert.Contains(t, out, "temperature=0.95")
	assert.Contains(t, out, "exit")
}

func TestWelcome_ReasoningPreset(t *testing.T) {
	p, err := preset.Lookup("gpt5")
	require.NoError(t, err)

	out := Welcome(p)
	assert.Contains(t, out, "gpt-5")
	assert.Contains(t, out, "reasoning_effort=minimal")
	assert.NotContains(t, out, "temperature")
}

func TestWelcomeText_Unstyled(t *testing.T) {
	p, err := preset.Lookup("openai")
	require.NoError(t, err)

	out := WelcomeText(p)
	assert.Contains(t, out, "Model: gpt-4o\n")
	assert.Contains(t, out, "Parameters: temperature=0.95")
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "╭")
}
