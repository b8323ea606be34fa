package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/progress"
)

// bridge lets the pipeline goroutine talk to the Bubble Tea program. It
// implements prompt.Reader and progress.Observer.
type bridge struct {
	send    func(tea.Msg)
	answers chan string
}

func newBridge() *bridge {
	return &bridge{answers: make(chan string)}
}

// ReadLine shows the prompt and blocks until the user submits a line.
func (b *bridge) ReadLine(ctx context.Context, prompt string) (string, error) {
	b.send(PromptMsg{Text: prompt})
	select {
	case answer := <-b.answers:
		return answer, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *bridge) OnProgress(state model.ProgressState) {
	b.send(ProgressMsg{State: state})
}

func (b *bridge) OnSave(state progress.SaveState) {
	b.send(SaveMsg{State: state})
}

func (b *bridge) OnEvent(ev progress.Event) {
	b.send(EventMsg{Event: ev})
}

func (b *bridge) Escalate(trace []string) {
	b.send(EscalateMsg{Trace: trace})
}
