package progress

import "github.com/handiism/stemline/internal/model"

// Level indicates the importance of an Event.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event is a user-facing message.
type Event struct {
	Message string
	Level   Level
}

// Observer receives progress updates synchronously on the caller's path.
type Observer interface {
	OnProgress(state model.ProgressState)
	OnSave(state SaveState)
	OnEvent(ev Event)
	// Escalate shows a failing stage's full trace.
	Escalate(trace []string)
}

// Discard is an Observer that ignores everything.
var Discard Observer = discard{}

type discard struct{}

func (discard) OnProgress(model.ProgressState) {}
func (discard) OnSave(SaveState) {}
func (discard) OnEvent(Event) {}
func (discard) Escalate([]string) {}

// Multi fans every update out to several observers in order.
type Multi []Observer

func (m Multi) OnProgress(state model.ProgressState) {
	for _, o := range m {
		o.OnProgress(state)
	}
}

func (m Multi) OnSave(state SaveState) {
	for _, o := range m {
		o.OnSave(state)
	}
}

func (m Multi) OnEvent(ev Event) {
	for _, o := range m {
		o.OnEvent(ev)
	}
}

func (m Multi) Escalate(trace []string) {
	for _, o := range m {
		o.Escalate(trace)
	}
}

// LevelFor maps a pipeline event to a display level.
func LevelFor(ev model.LogEvent) Level {
	switch {
	case ev.Detail:
		return LevelVerbose
	case ev.IsFailure():
		return LevelWarning
	default:
		return LevelInfo
	}
}
