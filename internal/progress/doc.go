// Package progress implements the two-level progress model shared by
// every separation engine, the independent save tracker for stem export,
// and the renderers that display them.
//
// # Separation Progress
//
// A Tracker exposes two nested counters: overall (one unit per stem) and
// current (progress inside the stem being produced). Engines drive it
// through the Sink interface and never see how it is rendered:
//
//	t := progress.NewTracker(renderer)
//	t.Begin("drums", "bass", "vocals", "other")
//	t.StartItem("drums", 100)
//	t.Advance(40)
//	msg := t.FinishItem() // "Finished, next is bass"
//
// Finishing the last item yields "Finished".
//
// # Verbosity
//
// Every sub-step an engine attempts is handed to Trace. Trace lines are
// published at LevelVerbose, which renderers hide during normal
// operation. When an engine fails, the controller hands the collected
// trace to Observer.Escalate so the full detail is shown.
//
// # Save Progress
//
// SaveTracker counts bytes for each stem write. It is separate from the
// separation counters so export failures can be told apart from
// separation failures.
//
// # Rendering
//
// LineRenderer draws one live status line with bubbles progress bars when
// writing to a terminal, and plain prefixed lines otherwise. The TUI in
// internal/tui implements Observer as well.
package progress
