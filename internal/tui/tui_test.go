package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/stemline/internal/link"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/pipeline"
	"github.com/handiism/stemline/internal/progress"
)

func newTestModel() (Model, chan string, *bool) {
	answers := make(chan string, 1)
	cancelled := false
	m := NewModel(answers, func() { cancelled = true }, "/tmp/stems")
	return m, answers, &cancelled
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModel_PromptSubmitsAnswer(t *testing.T) {
	m, answers, _ := newTestModel()

	m, _ = update(t, m, PromptMsg{Text: link.Prompt})
	if m.state != StatePrompt {
		t.Fatalf("state = %v, want StatePrompt", m.state)
	}
	if !strings.Contains(m.View(), link.Prompt) {
		t.Errorf("View() missing prompt:\n%s", m.View())
	}

	m.textInput.SetValue("https://youtu.be/dQw4w9WgXcQ")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateRunning {
		t.Errorf("state = %v, want StateRunning", m.state)
	}
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	cmd()

	select {
	case got := <-answers:
		if got != "https://youtu.be/dQw4w9WgXcQ" {
			t.Errorf("answer = %q", got)
		}
	default:
		t.Fatal("no answer sent")
	}
	if m.textInput.Value() != "" {
		t.Errorf("input not cleared: %q", m.textInput.Value())
	}
}

func TestModel_VerboseEventsHiddenByDefault(t *testing.T) {
	m, _, _ := newTestModel()

	m, _ = update(t, m, EventMsg{Event: progress.Event{Level: progress.LevelVerbose, Message: "yt-dlp chatter"}})
	m, _ = update(t, m, EventMsg{Event: progress.Event{Level: progress.LevelSuccess, Message: "method success"}})
	if len(m.logs) != 1 || m.logs[0].Message != "method success" {
		t.Errorf("logs = %+v", m.logs)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m, _ = update(t, m, EventMsg{Event: progress.Event{Level: progress.LevelVerbose, Message: "yt-dlp chatter"}})
	if len(m.logs) != 2 {
		t.Errorf("verbose logs = %+v", m.logs)
	}
}

func TestModel_LogsAreCapped(t *testing.T) {
	m, _, _ := newTestModel()
	for i := 0; i < maxLogs+5; i++ {
		m, _ = update(t, m, EventMsg{Event: progress.Event{Level: progress.LevelInfo, Message: "line"}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestModel_RunningShowsStemProgress(t *testing.T) {
	m, _, _ := newTestModel()
	m.state = StateRunning

	m, _ = update(t, m, ProgressMsg{State: model.ProgressState{
		OverallTotal: 4,
		OverallDone:  1,
		CurrentLabel: "bass",
		CurrentTotal: 100,
		CurrentDone:  40,
	}})
	view := m.View()
	for _, want := range []string{"Stems 1/4", "bass"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModel_Done(t *testing.T) {
	tests := []struct {
		name  string
		msg   DoneMsg
		state State
	}{
		{
			name:  "success",
			msg:   DoneMsg{Outcome: &pipeline.Outcome{Success: true, Run: model.NewRunContext(model.PlatformMac)}},
			state: StateComplete,
		},
		{
			name:  "failed run",
			msg:   DoneMsg{Outcome: &pipeline.Outcome{Success: false}},
			state: StateError,
		},
		{
			name:  "error",
			msg:   DoneMsg{Err: errors.New("missing dependencies")},
			state: StateError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestModel()
			m, _ = update(t, m, tt.msg)
			if m.state != tt.state {
				t.Errorf("state = %v, want %v", m.state, tt.state)
			}
			if tt.msg.Err != nil && !strings.Contains(m.View(), tt.msg.Err.Error()) {
				t.Errorf("View() missing error:\n%s", m.View())
			}
		})
	}
}

func TestModel_CtrlCCancels(t *testing.T) {
	m, _, cancelled := newTestModel()
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !*cancelled {
		t.Error("ctrl+c did not cancel the pipeline")
	}
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestBridge_ReadLine(t *testing.T) {
	b := newBridge()
	var sent []tea.Msg
	b.send = func(msg tea.Msg) { sent = append(sent, msg) }

	go func() { b.answers <- "2" }()
	got, err := b.ReadLine(context.Background(), "Enter 1 or 2:")
	if err != nil {
		t.Fatalf("ReadLine() error = %v", err)
	}
	if got != "2" {
		t.Errorf("ReadLine() = %q, want %q", got, "2")
	}
	if len(sent) != 1 {
		t.Fatalf("sent = %v", sent)
	}
	if p, ok := sent[0].(PromptMsg); !ok || p.Text != "Enter 1 or 2:" {
		t.Errorf("sent[0] = %#v", sent[0])
	}
}

func TestBridge_ReadLineCancelled(t *testing.T) {
	b := newBridge()
	b.send = func(tea.Msg) {}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.ReadLine(ctx, link.Prompt); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadLine() error = %v, want context.Canceled", err)
	}
}
