package progress

// SaveState is a snapshot of the export of one stem.
type SaveState struct {
	Label   string
	Total   int64
	Written int64
	Done    bool
	Err     string
}

// Fraction returns the written share in [0, 1].
func (s SaveState) Fraction() float64 {
	if s.Done {
		return 1
	}
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Written) / float64(s.Total)
}

// SaveTracker tracks stem writes, one at a time.
type SaveTracker struct {
	obs       Observer
	state     SaveState
	completed int
}

// NewSaveTracker creates a SaveTracker publishing to obs.
func NewSaveTracker(obs Observer) *SaveTracker {
	if obs == nil {
		obs = Discard
	}
	return &SaveTracker{obs: obs}
}

// Start begins tracking a write of total bytes.
func (s *SaveTracker) Start(label string, total int64) {
	s.state = SaveState{Label: label, Total: total}
	s.obs.OnSave(s.state)
}

// Update records bytes written so far. It matches the OnUpdate callback of
// ioutils.ProgressWriter.
func (s *SaveTracker) Update(written, total int64) {
	if total > 0 {
		s.state.Total = total
	}
	if s.state.Total > 0 && written > s.state.Total {
		written = s.state.Total
	}
	s.state.Written = written
	s.obs.OnSave(s.state)
}

// Finish marks the current write complete.
func (s *SaveTracker) Finish() {
	s.state.Done = true
	s.state.Written = s.state.Total
	s.completed++
	s.obs.OnSave(s.state)
}

// Fail marks the current write as failed.
func (s *SaveTracker) Fail(err error) {
	s.state.Err = err.Error()
	s.obs.OnSave(s.state)
	s.obs.OnEvent(Event{Message: "saving " + s.state.Label + " failed: " + s.state.Err, Level: LevelError})
}

// Completed returns the number of finished writes.
func (s *SaveTracker) Completed() int {
	return s.completed
}

// State returns the current snapshot.
func (s *SaveTracker) State() SaveState {
	return s.state
}
