package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vehicleagent/internal/chat"
)

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	agentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const headerHeight, footerHeight = 2, 3

type replyMsg struct{ resp chat.AgentMessage }

// Model is the bubbletea chat view. Turns run as commands so the view
// stays responsive while a handler or the language model works.
type Model struct {
	ctx     context.Context
	session Session
	opts    Options
	loc     *chat.Location

	viewport viewport.Model
	input    textinput.Model
	lines    []string
	busy     bool
	quitting bool
}

func NewModel(ctx context.Context, s Session, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about climate, music, navigation or the car..."
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	vp := viewport.New(80, 20)
	m := Model{
		ctx:      ctx,
		session:  s,
		opts:     opts,
		loc:      opts.Location,
		viewport: vp,
		input:    ti,
	}
	m.notice("Type /help for commands, /exit to quit.")
	return m
}

func (m *Model) notice(s string) {
	m.lines = append(m.lines, noticeStyle.Render(s))
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// Transcript returns the rendered conversation lines.
func (m Model) Transcript() []string { return m.lines }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case replyMsg:
		m.busy = false
		m.lines = append(m.lines, agentStyle.Render(speaker(msg.resp.AgentID)+":")+" "+msg.resp.Content)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.busy {
		return m, nil
	}
	m.input.Reset()

	cmd := parseCommand(text)
	switch cmd.kind {
	case cmdExit:
		m.quitting = true
		return m, tea.Quit
	case cmdState:
		m.notice(FormatState(m.session.VehicleState()))
		return m, nil
	case cmdWhere:
		loc, err := parseLocation(cmd.arg)
		if err != nil {
			m.notice("error: " + err.Error())
			return m, nil
		}
		m.loc = loc
		m.notice(describeLocation(loc))
		return m, nil
	case cmdClear:
		m.lines = nil
		m.refresh()
		return m, nil
	case cmdHelp:
		m.notice(helpText)
		return m, nil
	case cmdUnknown:
		m.notice(fmt.Sprintf("unknown command %s, try /help", cmd.arg))
		return m, nil
	}

	m.lines = append(m.lines, userStyle.Render("you:")+" "+text)
	m.refresh()
	m.busy = true

	ctx, s, user, loc := m.ctx, m.session, m.opts.userID(), m.loc
	return m, func() tea.Msg {
		return replyMsg{resp: s.Turn(ctx, user, text, loc)}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	status := ""
	if m.busy {
		status = noticeStyle.Render(" thinking...")
	}
	return titleStyle.Render(" Vehicle Assistant ") + status + "\n\n" +
		m.viewport.View() + "\n\n" + m.input.View()
}

// Run starts the chat view on the terminal until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, s Session, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
