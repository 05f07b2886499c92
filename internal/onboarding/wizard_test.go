package onboarding

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicleagent/internal/config"
)

func TestWizard_Run(t *testing.T) {
	input := strings.Join([]string{
		"2",                // ollama
		"",                 // default model
		"http://car:11434", // base URL
		"ow-key",           // weather
		"",                 // google
		"3",                // toggle navigation_agent
		"9",                // invalid
		"0",
	}, "\n") + "\n"

	var out bytes.Buffer
	cfg, err := NewWizard(strings.NewReader(input), &out, handlerIDs).Run(config.Default())
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "http://car:11434", cfg.LLM.BaseURL)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, "ow-key", cfg.Maps.WeatherAPIKey)
	assert.Equal(t, []string{"navigation_agent"}, cfg.Handlers.Disabled)
	assert.Contains(t, out.String(), "Invalid selection")
	assert.Contains(t, out.String(), "Disabled: navigation_agent")
}

func TestWizard_DefaultsOnEmptyInput(t *testing.T) {
	base := config.Default()
	base.LLM.APIKey = "gsk-secret"
	base.Maps.GoogleAPIKey = "g-key-1234"

	var out bytes.Buffer
	cfg, err := NewWizard(strings.NewReader(""), &out, handlerIDs).Run(base)
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.LLM.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLM.Model)
	assert.Equal(t, "gsk-secret", cfg.LLM.APIKey)
	assert.Equal(t, "g-key-1234", cfg.Maps.GoogleAPIKey)
	assert.Empty(t, cfg.Handlers.Disabled)
	assert.Contains(t, out.String(), "****1234")
	assert.NotContains(t, out.String(), "g-key-1234")
}

func TestWizard_ProviderNone(t *testing.T) {
	var out bytes.Buffer
	cfg, err := NewWizard(strings.NewReader("x\n6\n\n\n0\n"), &out, nil).Run(nil)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Contains(t, out.String(), "Invalid choice")
}
