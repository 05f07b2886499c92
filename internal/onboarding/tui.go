// Package onboarding walks a new user through provider, maps and handler
// settings and writes the result as a config file.
package onboarding

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vehicleagent/internal/config"
	"vehicleagent/internal/llm"
)

var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle   = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().Padding(0, 1)

	windowStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1)
)

type step int

const (
	stepProvider step = iota
	stepAPIKey
	stepModel
	stepWeatherKey
	stepGoogleKey
	stepHandlers
	stepSaving
	stepDone
)

var tabs = []string{"Provider", "Model", "Maps", "Handlers", "Finish"}

func (s step) tab() int {
	switch s {
	case stepProvider, stepAPIKey:
		return 0
	case stepModel:
		return 1
	case stepWeatherKey, stepGoogleKey:
		return 2
	case stepHandlers:
		return 3
	default:
		return 4
	}
}

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

var providerItems = []list.Item{
	item{title: string(llm.ProviderGroq), desc: "Groq hosted models (requires API key)"},
	item{title: string(llm.ProviderOllama), desc: "Local execution via Ollama"},
	item{title: string(llm.ProviderOpenAI), desc: "OpenAI GPT models (requires API key)"},
	item{title: string(llm.ProviderAnthropic), desc: "Claude models (requires API key)"},
	item{title: string(llm.ProviderGemini), desc: "Google Gemini models (requires API key)"},
	item{title: string(llm.ProviderNone), desc: "No general conversation, vehicle commands only"},
}

var cloudModels = map[string][]list.Item{
	string(llm.ProviderGroq): {
		item{title: "llama-3.3-70b-versatile", desc: "Best Groq model"},
		item{title: "llama-3.1-8b-instant", desc: "Fast Groq model"},
	},
	string(llm.ProviderOpenAI): {
		item{title: "gpt-4o", desc: "Best OpenAI model"},
		item{title: "gpt-4o-mini", desc: "Fast OpenAI model"},
	},
	string(llm.ProviderAnthropic): {
		item{title: "claude-3-5-sonnet-latest", desc: "Best Anthropic model"},
		item{title: "claude-3-5-haiku-latest", desc: "Fast Anthropic model"},
	},
	string(llm.ProviderGemini): {
		item{title: "gemini-2.5-flash", desc: "Fast Google model"},
		item{title: "gemini-2.5-pro", desc: "Powerful Google model"},
	},
}

const defaultOllamaURL = "http://localhost:11434"

type ollamaResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// fetchOllamaModels lists the models a local Ollama server has pulled.
func fetchOllamaModels(baseURL string) []list.Item {
	fallback := []list.Item{item{title: "llama3.2", desc: "Default (Ollama not responding)"}}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/api/tags")
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	var data ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || len(data.Models) == 0 {
		return fallback
	}
	items := make([]list.Item, len(data.Models))
	for i, m := range data.Models {
		items[i] = item{title: m.Name, desc: "Local Ollama model"}
	}
	return items
}

// HandlerToggle is one specialist handler and whether it stays enabled.
type HandlerToggle struct {
	ID      string
	Enabled bool
}

func toggles(ids, disabled []string) []HandlerToggle {
	out := make([]HandlerToggle, len(ids))
	for i, id := range ids {
		out[i] = HandlerToggle{ID: id, Enabled: !slices.Contains(disabled, id)}
	}
	return out
}

func disabledIDs(ts []HandlerToggle) []string {
	var out []string
	for _, t := range ts {
		if !t.Enabled {
			out = append(out, t.ID)
		}
	}
	return out
}

type savedMsg struct{ err error }

// Model is the bubbletea setup wizard. It edits a copy of the config it
// was created with and saves it on the last step.
type Model struct {
	step     step
	cfg      config.Config
	path     string
	handlers []HandlerToggle
	discover func(baseURL string) []list.Item

	list     list.Model
	input    textinput.Model
	cursor   int
	err      error
	quitting bool
	width    int
	height   int
}

// NewModel starts the wizard from base, offering handlerIDs for toggling.
// The result is written to path.
func NewModel(base *config.Config, path string, handlerIDs []string) Model {
	if base == nil {
		base = config.Default()
	}
	cfg := *base

	l := list.New(providerItems, list.NewDefaultDelegate(), 60, 20)
	l.Title = "Select AI Provider"
	l.SetShowHelp(false)
	if i := slices.IndexFunc(providerItems, func(it list.Item) bool {
		return it.(item).title == cfg.LLM.Provider
	}); i >= 0 {
		l.Select(i)
	}

	ti := textinput.New()
	ti.EchoMode = textinput.EchoPassword
	ti.Focus()

	return Model{
		step:     stepProvider,
		cfg:      cfg,
		path:     path,
		handlers: toggles(handlerIDs, cfg.Handlers.Disabled),
		discover: fetchOllamaModels,
		list:     l,
		input:    ti,
		width:    80,
		height:   35,
	}
}

// Config returns the settings gathered so far.
func (m Model) Config() config.Config {
	cfg := m.cfg
	cfg.Handlers.Disabled = disabledIDs(m.handlers)
	return cfg
}

// Err is the save error, if any.
func (m Model) Err() error { return m.err }

func (m Model) Done() bool { return m.step == stepDone && m.err == nil }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-10, msg.Height-15)
	case savedMsg:
		m.err = msg.err
		m.step = stepDone
		return m, tea.Quit
	}

	enter := false
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		enter = true
	}

	var cmd tea.Cmd
	switch m.step {
	case stepProvider:
		m.list, cmd = m.list.Update(msg)
		if enter {
			if i, ok := m.list.SelectedItem().(item); ok {
				m = m.chooseProvider(i.title)
			}
		}

	case stepAPIKey:
		m.input, cmd = m.input.Update(msg)
		if enter {
			if v := strings.TrimSpace(m.input.Value()); v != "" {
				m.cfg.LLM.APIKey = v
			}
			m.list.SetItems(cloudModels[m.cfg.LLM.Provider])
			m.list.Title = "Select Cloud Model"
			m.list.Select(0)
			m.step = stepModel
		}

	case stepModel:
		m.list, cmd = m.list.Update(msg)
		if enter {
			if i, ok := m.list.SelectedItem().(item); ok {
				m.cfg.LLM.Model = i.title
				m = m.askKey(stepWeatherKey, "OpenWeather API Key (optional): ", m.cfg.Maps.WeatherAPIKey)
			}
		}

	case stepWeatherKey:
		m.input, cmd = m.input.Update(msg)
		if enter {
			m.cfg.Maps.WeatherAPIKey = strings.TrimSpace(m.input.Value())
			m = m.askKey(stepGoogleKey, "Google Maps API Key (optional): ", m.cfg.Maps.GoogleAPIKey)
		}

	case stepGoogleKey:
		m.input, cmd = m.input.Update(msg)
		if enter {
			m.cfg.Maps.GoogleAPIKey = strings.TrimSpace(m.input.Value())
			m.step = stepHandlers
			m.cursor = 0
		}

	case stepHandlers:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.handlers)-1 {
					m.cursor++
				}
			case " ":
				if len(m.handlers) > 0 {
					m.handlers[m.cursor].Enabled = !m.handlers[m.cursor].Enabled
				}
			case "enter":
				m.step = stepSaving
				return m, m.save()
			}
		}

	case stepDone:
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m Model) chooseProvider(p string) Model {
	if p != m.cfg.LLM.Provider {
		m.cfg.LLM.APIKey = ""
		m.cfg.LLM.Model = ""
		m.cfg.LLM.BaseURL = ""
	}
	m.cfg.LLM.Provider = p

	switch llm.Provider(p) {
	case llm.ProviderNone:
		return m.askKey(stepWeatherKey, "OpenWeather API Key (optional): ", m.cfg.Maps.WeatherAPIKey)
	case llm.ProviderOllama:
		if m.cfg.LLM.BaseURL == "" {
			m.cfg.LLM.BaseURL = defaultOllamaURL
		}
		m.list.SetItems(m.discover(m.cfg.LLM.BaseURL))
		m.list.Title = "Select Local Model"
		m.list.Select(0)
		m.step = stepModel
		return m
	default:
		title := cases.Title(language.English).String(p)
		return m.askKey(stepAPIKey, title+" API Key: ", m.cfg.LLM.APIKey)
	}
}

func (m Model) askKey(next step, prompt, current string) Model {
	m.input.Prompt = prompt
	m.input.SetValue(current)
	m.input.CursorEnd()
	m.step = next
	return m
}

func (m Model) save() tea.Cmd {
	cfg := m.Config()
	path := m.path
	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{err: cfg.Save(path)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(" Vehicle Assistant Setup "))
	s.WriteString("\n\n")

	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		if i == m.step.tab() {
			rendered[i] = activeTabStyle.Render(t)
		} else {
			rendered[i] = inactiveTabStyle.Render(t)
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	s.WriteString("\n\n")

	var content string
	switch m.step {
	case stepProvider, stepModel:
		content = m.list.View()
	case stepAPIKey, stepWeatherKey, stepGoogleKey:
		content = "\n" + m.input.View() + "\n\n" + helpStyle.Render("Press enter to continue")
	case stepHandlers:
		var b strings.Builder
		b.WriteString("Toggle handlers with [SPACE], press [ENTER] to save.\n\n")
		for i, h := range m.handlers {
			cursor, checked := " ", " "
			if m.cursor == i {
				cursor = ">"
			}
			if h.Enabled {
				checked = "x"
			}
			line := fmt.Sprintf("%s [%s] %s", cursor, checked, h.ID)
			if m.cursor == i {
				line = focusedStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		content = b.String()
	case stepSaving:
		content = "\nSaving configuration to " + m.path + "..."
	case stepDone:
		if m.err != nil {
			content = "\n" + errorStyle.Render("Save failed: "+m.err.Error())
		} else {
			content = "\nSaved to " + m.path + ". Press any key to exit."
		}
	}

	s.WriteString(windowStyle.Width(max(m.width-10, 20)).Render(content))
	if m.step < stepSaving {
		s.WriteString("\n\n" + helpStyle.Render("esc/ctrl+c: quit • ↑/↓: navigate • enter: select"))
	}
	return docStyle.Render(s.String())
}

// RunTUI runs the wizard on the terminal and saves to path.
func RunTUI(base *config.Config, path string, handlerIDs []string) error {
	final, err := tea.NewProgram(NewModel(base, path, handlerIDs), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
