package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/handiism/stemline/internal/model"
)

type recorder struct {
	states    []model.ProgressState
	saves     []SaveState
	events    []Event
	escalated []string
}

func (r *recorder) OnProgress(s model.ProgressState) { r.states = append(r.states, s) }
func (r *recorder) OnSave(s SaveState)               { r.saves = append(r.saves, s) }
func (r *recorder) OnEvent(ev Event)                 { r.events = append(r.events, ev) }
func (r *recorder) Escalate(trace []string)          { r.escalated = append(r.escalated, trace...) }

var stems = []string{"drums", "bass", "vocals", "other"}

func TestTracker_CompletionLines(t *testing.T) {
	tr := NewTracker(nil)
	tr.Begin(stems...)

	var got []string
	for _, s := range stems {
		tr.StartItem(s, 100)
		tr.Advance(50)
		got = append(got, tr.FinishItem())
	}

	want := []string{
		"Finished, next is bass",
		"Finished, next is vocals",
		"Finished, next is other",
		"Finished",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("completion lines mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, tr.Messages()); diff != "" {
		t.Errorf("Messages() mismatch (-want +got):\n%s", diff)
	}
	if extra := tr.FinishItem(); extra != "" {
		t.Errorf("FinishItem() after the last item = %q, want empty", extra)
	}
}

func TestTracker_Invariants(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)
	tr.Begin(stems...)

	for _, s := range stems {
		tr.StartItem(s, 10)
		for _, d := range []int{3, 1, 7, 25} {
			tr.Advance(d)
		}
		tr.FinishItem()
	}

	prevOverall := 0
	for i, st := range rec.states {
		if st.OverallDone > st.OverallTotal {
			t.Fatalf("state %d: OverallDone %d > OverallTotal %d", i, st.OverallDone, st.OverallTotal)
		}
		if st.CurrentDone > st.CurrentTotal {
			t.Fatalf("state %d: CurrentDone %d > CurrentTotal %d", i, st.CurrentDone, st.CurrentTotal)
		}
		if d := st.OverallDone - prevOverall; d != 0 && d != 1 {
			t.Fatalf("state %d: OverallDone jumped by %d", i, d)
		}
		prevOverall = st.OverallDone
	}

	final := tr.State()
	if !final.Complete() || final.OverallDone != 4 || final.CurrentLabel != "other" {
		t.Errorf("final state = %+v", final)
	}
}

func TestTracker_CurrentResetsOnNextStem(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)
	tr.Begin("drums", "bass")
	tr.StartItem("drums", 100)
	tr.Advance(100)
	tr.FinishItem()

	// The completed snapshot reaches 100% before moving on.
	completed := rec.states[len(rec.states)-2]
	if completed.CurrentDone != completed.CurrentTotal || completed.CurrentLabel != "drums" || completed.OverallDone != 1 {
		t.Errorf("completed snapshot = %+v", completed)
	}
	moved := rec.states[len(rec.states)-1]
	if moved.CurrentLabel != "bass" || moved.CurrentDone != 0 {
		t.Errorf("after finish = %+v, want bass at 0", moved)
	}

	tr.StartItem("bass", 40)
	if st := tr.State(); st.CurrentDone != 0 || st.CurrentTotal != 40 {
		t.Errorf("StartItem state = %+v", st)
	}
}

func TestTracker_AdvanceIsMonotonicAndClamped(t *testing.T) {
	tr := NewTracker(nil)
	tr.Begin("drums")
	tr.StartItem("drums", 100)

	tr.Advance(60)
	tr.Advance(20)
	if got := tr.State().CurrentDone; got != 60 {
		t.Errorf("after regress CurrentDone = %d, want 60", got)
	}
	tr.Advance(250)
	if got := tr.State().CurrentDone; got != 100 {
		t.Errorf("after overshoot CurrentDone = %d, want 100", got)
	}
}

func TestTracker_TraceIsVerbose(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)
	tr.Begin("drums")
	tr.Trace("$ demucs --two-stems drums song.wav")
	tr.Trace(" 12%|█▏        |")

	if diff := cmp.Diff([]string{"$ demucs --two-stems drums song.wav", " 12%|█▏        |"}, tr.TraceLines()); diff != "" {
		t.Errorf("TraceLines() mismatch (-want +got):\n%s", diff)
	}
	for _, ev := range rec.events {
		if ev.Level != LevelVerbose {
			t.Errorf("trace event level = %v, want LevelVerbose", ev.Level)
		}
	}

	tr.Begin("drums")
	if len(tr.TraceLines()) != 0 {
		t.Error("Begin should reset the trace")
	}
}

func TestSaveTracker(t *testing.T) {
	rec := &recorder{}
	s := NewSaveTracker(rec)

	s.Start("drums", 1000)
	s.Update(400, 1000)
	s.Update(1500, 1000)
	s.Finish()

	if s.Completed() != 1 {
		t.Errorf("Completed() = %d, want 1", s.Completed())
	}
	if got := rec.saves[2].Written; got != 1000 {
		t.Errorf("clamped Written = %d, want 1000", got)
	}
	if st := s.State(); !st.Done || st.Fraction() != 1 {
		t.Errorf("final state = %+v", st)
	}

	s.Start("bass", 10)
	s.Fail(errors.New("disk full"))
	if s.Completed() != 1 {
		t.Errorf("failed write counted as completed")
	}
	last := rec.events[len(rec.events)-1]
	if last.Level != LevelError || !strings.Contains(last.Message, "disk full") {
		t.Errorf("fail event = %+v", last)
	}
}

func TestLineRenderer_HidesVerboseUntilEscalated(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineRenderer(&buf)

	r.OnEvent(Event{Message: "This works!", Level: LevelInfo})
	r.OnEvent(Event{Message: "tqdm noise", Level: LevelVerbose})
	r.OnProgress(model.ProgressState{OverallTotal: 4, CurrentLabel: "drums", CurrentTotal: 100, CurrentDone: 5})
	r.Escalate([]string{"$ demucs", "RuntimeError: CUDA out of memory"})
	r.OnEvent(Event{Message: "late detail", Level: LevelVerbose})

	out := buf.String()
	if !strings.Contains(out, "ℹ️  This works!") {
		t.Errorf("missing info line in %q", out)
	}
	if strings.Contains(out, "tqdm noise") {
		t.Errorf("verbose line shown before escalation: %q", out)
	}
	if !strings.Contains(out, "RuntimeError: CUDA out of memory") {
		t.Errorf("escalated trace missing from %q", out)
	}
	if !strings.Contains(out, "late detail") {
		t.Errorf("verbose line hidden after escalation: %q", out)
	}
	if strings.Contains(out, clearLine) {
		t.Errorf("live status drawn on a non-terminal writer")
	}
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, b}
	m.OnEvent(Event{Message: "x"})
	m.OnSave(SaveState{Label: "drums"})
	m.OnProgress(model.ProgressState{OverallTotal: 4})
	m.Escalate([]string{"t"})

	for _, r := range []*recorder{a, b} {
		if len(r.events) != 1 || len(r.saves) != 1 || len(r.states) != 1 || len(r.escalated) != 1 {
			t.Errorf("observer missed updates: %+v", r)
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		ev   model.LogEvent
		want Level
	}{
		{model.Succeeded(model.StageLink, "ok"), LevelInfo},
		{model.Failed(model.StageLink, "bad"), LevelWarning},
		{model.Failed(model.StageSeparation, "trace").AsDetail(), LevelVerbose},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.ev); got != tt.want {
			t.Errorf("LevelFor(%+v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}
