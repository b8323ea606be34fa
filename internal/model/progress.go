package model

// ProgressState is a snapshot of the two-level separation progress.
//
// OverallDone never exceeds OverallTotal and CurrentDone never exceeds
// CurrentTotal. CurrentLabel names the active stem.
type ProgressState struct {
	OverallTotal int
	OverallDone  int
	CurrentLabel string
	CurrentTotal int
	CurrentDone  int
}

// OverallFraction returns overall progress in [0, 1].
func (p ProgressState) OverallFraction() float64 {
	return fraction(p.OverallDone, p.OverallTotal)
}

// CurrentFraction returns progress of the active stem in [0, 1].
func (p ProgressState) CurrentFraction() float64 {
	return fraction(p.CurrentDone, p.CurrentTotal)
}

// Complete reports whether every stem has been finished.
func (p ProgressState) Complete() bool {
	return p.OverallTotal > 0 && p.OverallDone == p.OverallTotal
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(done) / float64(total)
	if f > 1 {
		return 1
	}
	return f
}
