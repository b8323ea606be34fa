package progress

import (
	"slices"

	"github.com/handiism/stemline/internal/model"
)

// Sink is the two-level tracker as seen by a separation engine.
type Sink interface {
	// Begin resets the tracker for the given item labels in order.
	Begin(labels ...string)
	// StartItem starts the current counter for label at 0 of total.
	StartItem(label string, total int)
	// Advance moves the current counter forward to done.
	Advance(done int)
	// FinishItem completes the current item and returns its completion line.
	FinishItem() string
	// Trace records one sub-step for the failure trace.
	Trace(line string)
}

// Tracker is the Sink implementation shared by every engine.
type Tracker struct {
	obs      Observer
	labels   []string
	state    model.ProgressState
	trace    []string
	messages []string
}

// NewTracker creates a Tracker publishing to obs. A nil obs discards updates.
func NewTracker(obs Observer) *Tracker {
	if obs == nil {
		obs = Discard
	}
	return &Tracker{obs: obs}
}

// Begin implements Sink.
func (t *Tracker) Begin(labels ...string) {
	t.labels = slices.Clone(labels)
	t.state = model.ProgressState{OverallTotal: len(labels)}
	if len(labels) > 0 {
		t.state.CurrentLabel = labels[0]
	}
	t.trace = nil
	t.messages = nil
	t.publish()
}

// StartItem implements Sink.
func (t *Tracker) StartItem(label string, total int) {
	if total < 0 {
		total = 0
	}
	t.state.CurrentLabel = label
	t.state.CurrentTotal = total
	t.state.CurrentDone = 0
	t.publish()
}

// Advance implements Sink. Values are clamped to the current total and
// never move the counter backwards.
func (t *Tracker) Advance(done int) {
	if done > t.state.CurrentTotal {
		done = t.state.CurrentTotal
	}
	if done <= t.state.CurrentDone {
		return
	}
	t.state.CurrentDone = done
	t.publish()
}

// FinishItem implements Sink. It returns "" when every item is already done.
func (t *Tracker) FinishItem() string {
	if t.state.OverallDone >= t.state.OverallTotal {
		return ""
	}

	t.state.CurrentDone = t.state.CurrentTotal
	t.state.OverallDone++
	t.publish()

	msg := "Finished"
	if t.state.OverallDone < len(t.labels) {
		next := t.labels[t.state.OverallDone]
		msg = "Finished, next is " + next
		t.state.CurrentLabel = next
		t.state.CurrentDone = 0
		t.publish()
	}

	t.messages = append(t.messages, msg)
	t.obs.OnEvent(Event{Message: msg, Level: LevelInfo})
	return msg
}

// Trace implements Sink.
func (t *Tracker) Trace(line string) {
	t.trace = append(t.trace, line)
	t.obs.OnEvent(Event{Message: line, Level: LevelVerbose})
}

// State returns the current snapshot.
func (t *Tracker) State() model.ProgressState {
	return t.state
}

// TraceLines returns every traced sub-step since Begin.
func (t *Tracker) TraceLines() []string {
	return slices.Clone(t.trace)
}

// Messages returns the completion lines emitted since Begin.
func (t *Tracker) Messages() []string {
	return slices.Clone(t.messages)
}

func (t *Tracker) publish() {
	t.obs.OnProgress(t.state)
}
