// Package tui provides a Bubble Tea terminal user interface for stemline.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/stemline/internal/app"
	"github.com/handiism/stemline/internal/link"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/pipeline"
	stemprogress "github.com/handiism/stemline/internal/progress"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	stemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateStarting State = iota
	StatePrompt
	StateRunning
	StateComplete
	StateError
)

const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   stemprogress.Level
}

// Message types
type (
	// PromptMsg asks the user for a line of input.
	PromptMsg struct {
		Text string
	}

	// ProgressMsg carries a separation progress snapshot.
	ProgressMsg struct {
		State model.ProgressState
	}

	// SaveMsg carries a file write snapshot.
	SaveMsg struct {
		State stemprogress.SaveState
	}

	// EventMsg is a pipeline event line.
	EventMsg struct {
		Event stemprogress.Event
	}

	// EscalateMsg carries the full trace of a failed separation.
	EscalateMsg struct {
		Trace []string
	}

	// DoneMsg is sent when the pipeline returns.
	DoneMsg struct {
		Outcome *pipeline.Outcome
		Err     error
	}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	overall   progress.Model
	current   progress.Model
	saveBar   progress.Model

	prompt  string
	answers chan<- string
	cancel  context.CancelFunc

	logs    []LogEntry
	trace   []string
	sep     model.ProgressState
	save    stemprogress.SaveState
	outcome *pipeline.Outcome
	err     error

	downloadsPath string
	verbose       bool

	width  int
	height int
}

// NewModel creates a new TUI model. Submitted lines are sent on answers;
// cancel stops the pipeline.
func NewModel(answers chan<- string, cancel context.CancelFunc, downloadsPath string) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	overall := progress.New(progress.WithDefaultGradient())
	overall.Width = 50
	current := progress.New(progress.WithDefaultGradient())
	current.Width = 50
	saveBar := progress.New(progress.WithSolidFill("#95E1A3"))
	saveBar.Width = 30

	return Model{
		state:         StateStarting,
		textInput:     ti,
		spinner:       sp,
		overall:       overall,
		current:       current,
		saveBar:       saveBar,
		answers:       answers,
		cancel:        cancel,
		downloadsPath: downloadsPath,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := min(max(msg.Width-20, 20), 80)
		m.overall.Width = w
		m.current.Width = w
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StatePrompt {
				m.cancel()
				return m, tea.Quit
			}

		case "enter":
			if m.state == StatePrompt {
				answer := m.textInput.Value()
				m.textInput.SetValue("")
				m.textInput.Blur()
				m.state = StateRunning
				answers := m.answers
				return m, func() tea.Msg {
					answers <- answer
					return nil
				}
			}

		case "v":
			if m.state != StatePrompt {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case PromptMsg:
		m.state = StatePrompt
		m.prompt = msg.Text
		if msg.Text == link.Prompt {
			m.textInput.Placeholder = "https://www.youtube.com/watch?v=..."
		} else {
			m.textInput.Placeholder = "1 or 2"
		}
		cmds = append(cmds, m.textInput.Focus())

	case EventMsg:
		if msg.Event.Level == stemprogress.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
		// Keep only last logs
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case ProgressMsg:
		m.sep = msg.State

	case SaveMsg:
		m.save = msg.State

	case EscalateMsg:
		m.trace = msg.Trace

	case DoneMsg:
		m.outcome = msg.Outcome
		switch {
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		case msg.Outcome != nil && msg.Outcome.Success:
			m.state = StateComplete
		default:
			m.state = StateError
		}
	}

	// Update text input
	if m.state == StatePrompt {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 stemline"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Link to stems"))
	b.WriteString("\n\n")

	switch m.state {
	case StateStarting:
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Checking dependencies..."))
		b.WriteString("\n")
	case StatePrompt:
		b.WriteString(m.viewPrompt())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewPrompt() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(m.prompt))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.downloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	if m.sep.OverallTotal == 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Working..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Stems %d/%d", m.sep.OverallDone, m.sep.OverallTotal)))
		b.WriteString("\n")
		b.WriteString(m.overall.ViewAs(m.sep.OverallFraction()))
		b.WriteString("\n")
		b.WriteString(stemStyle.Render(fmt.Sprintf("♪ %s", m.sep.CurrentLabel)))
		b.WriteString("\n")
		b.WriteString(m.current.ViewAs(m.sep.CurrentFraction()))
		b.WriteString("\n\n")
	}

	if m.save.Label != "" && !m.save.Done {
		b.WriteString(dimStyle.Render("saving " + m.save.Label + " "))
		b.WriteString(m.saveBar.ViewAs(m.save.Fraction()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	var lines []string
	lines = append(lines, "✨ Separation Complete!", "")
	if m.outcome != nil && m.outcome.Run != nil {
		for _, s := range m.outcome.Run.StemList() {
			lines = append(lines, fmt.Sprintf("%-7s %s", s.Stem, s.Path))
		}
		if m.outcome.ReportPath != "" {
			lines = append(lines, "", "Report: "+m.outcome.ReportPath)
		}
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Process failed"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s\n", m.err.Error()))
	}
	if m.outcome != nil {
		b.WriteString(m.outcome.Report.Text)
		if m.outcome.ReportPath != "" {
			b.WriteString("\nReport: " + m.outcome.ReportPath + "\n")
		}
	} else {
		for _, line := range m.trace {
			b.WriteString(dimStyle.Render("  "+line) + "\n")
		}
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case stemprogress.LevelError:
			style = errorStyle
			prefix = "✗"
		case stemprogress.LevelWarning:
			style = warningStyle
			prefix = "!"
		case stemprogress.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case stemprogress.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StatePrompt:
		return "enter: submit • esc: quit"
	case StateStarting, StateRunning:
		return "v: verbose • ctrl+c: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// Run starts the TUI application and runs the pipeline behind it.
func Run(a *app.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newBridge()
	p := tea.NewProgram(NewModel(b.answers, cancel, a.Config.Paths.DownloadsPath), tea.WithAltScreen())
	b.send = p.Send

	ctrl, err := a.Controller(b, b)
	if err != nil {
		return err
	}

	go func() {
		out, err := ctrl.Run(ctx)
		p.Send(DoneMsg{Outcome: out, Err: err})
	}()

	_, err = p.Run()
	return err
}
