package onboarding

import (
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicleagent/internal/config"
)

var handlerIDs = []string{"climate_agent", "entertainment_agent", "navigation_agent"}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	space = tea.KeyMsg{Type: tea.KeySpace}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	m := NewModel(config.Default(), path, handlerIDs)
	m.discover = func(string) []list.Item {
		return []list.Item{item{title: "qwen2.5", desc: "Local Ollama model"}}
	}
	return m, path
}

// drive feeds msgs in order and returns the model and the last command.
func drive(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func TestTUI_CloudProviderFlow(t *testing.T) {
	m, path := newTestModel(t)

	m, _ = drive(t, m, enter)
	assert.Equal(t, stepAPIKey, m.step)
	assert.Contains(t, m.View(), "Groq API Key")

	m, _ = drive(t, m, typed("gsk-test"), enter)
	assert.Equal(t, stepModel, m.step)

	m, _ = drive(t, m, down, enter)
	assert.Equal(t, stepWeatherKey, m.step)

	m, _ = drive(t, m, typed("ow-key"), enter, enter)
	assert.Equal(t, stepHandlers, m.step)

	m, cmd := drive(t, m, down, space, enter)
	assert.Equal(t, stepSaving, m.step)
	require.NotNil(t, cmd)

	m, _ = drive(t, m, cmd())
	require.NoError(t, m.Err())
	assert.True(t, m.Done())

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "groq", got.LLM.Provider)
	assert.Equal(t, "gsk-test", got.LLM.APIKey)
	assert.Equal(t, "llama-3.1-8b-instant", got.LLM.Model)
	assert.Equal(t, "ow-key", got.Maps.WeatherAPIKey)
	assert.Empty(t, got.Maps.GoogleAPIKey)
	assert.Equal(t, []string{"entertainment_agent"}, got.Handlers.Disabled)
}

func TestTUI_OllamaSkipsAPIKey(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = drive(t, m, down, enter)
	assert.Equal(t, stepModel, m.step)
	assert.Equal(t, defaultOllamaURL, m.Config().LLM.BaseURL)

	m, _ = drive(t, m, enter)
	assert.Equal(t, "qwen2.5", m.Config().LLM.Model)
	assert.Equal(t, stepWeatherKey, m.step)
}

func TestTUI_NoneSkipsModel(t *testing.T) {
	m, _ := newTestModel(t)

	for range 5 {
		m, _ = drive(t, m, down)
	}
	m, _ = drive(t, m, enter)
	assert.Equal(t, "none", m.Config().LLM.Provider)
	assert.Equal(t, stepWeatherKey, m.step)
}

func TestTUI_KeepsExistingKeys(t *testing.T) {
	base := config.Default()
	base.LLM.Provider = "anthropic"
	base.LLM.APIKey = "sk-ant"
	base.Maps.GoogleAPIKey = "g-key"
	base.Handlers.Disabled = []string{"navigation_agent"}

	m := NewModel(base, filepath.Join(t.TempDir(), "c.yaml"), handlerIDs)
	m, _ = drive(t, m, enter)
	assert.Equal(t, stepAPIKey, m.step)

	m, _ = drive(t, m, enter, enter, enter, enter)
	assert.Equal(t, stepHandlers, m.step)

	cfg := m.Config()
	assert.Equal(t, "sk-ant", cfg.LLM.APIKey)
	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.LLM.Model)
	assert.Equal(t, "g-key", cfg.Maps.GoogleAPIKey)
	assert.Equal(t, []string{"navigation_agent"}, cfg.Handlers.Disabled)
	assert.Contains(t, m.View(), "[ ] navigation_agent")
}

func TestTUI_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := drive(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
	assert.False(t, m.Done())
}

func TestTUI_SaveRejectsInvalidConfig(t *testing.T) {
	base := config.Default()
	base.History.Limit = 0
	m := NewModel(base, filepath.Join(t.TempDir(), "c.yaml"), nil)

	m.step = stepHandlers
	m, cmd := drive(t, m, enter)
	m, _ = drive(t, m, cmd())
	assert.ErrorContains(t, m.Err(), "history limit")
	assert.Contains(t, m.View(), "Save failed")
}
