package progress

import (
	"fmt"
	"io"
	"os"
	"strings"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/handiism/stemline/internal/model"
)

const clearLine = "\r\x1b[2K"

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
	traceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8A8A8"))
)

// LineRenderer prints events as prefixed lines and, on a terminal, keeps
// one live status line with the overall, current and save bars.
type LineRenderer struct {
	out         io.Writer
	live        bool
	showVerbose bool

	overallBar bar.Model
	currentBar bar.Model
	saveBar    bar.Model

	sep         model.ProgressState
	save        SaveState
	statusShown bool
}

// NewLineRenderer creates a renderer writing to out. Live bars are drawn
// only when out is a terminal.
func NewLineRenderer(out io.Writer) *LineRenderer {
	live := false
	if f, ok := out.(*os.File); ok {
		live = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &LineRenderer{
		out:        out,
		live:       live,
		overallBar: bar.New(bar.WithDefaultGradient(), bar.WithWidth(20), bar.WithoutPercentage()),
		currentBar: bar.New(bar.WithDefaultGradient(), bar.WithWidth(20)),
		saveBar:    bar.New(bar.WithSolidFill("#04B575"), bar.WithWidth(12), bar.WithoutPercentage()),
	}
}

// OnProgress implements Observer.
func (r *LineRenderer) OnProgress(state model.ProgressState) {
	r.sep = state
	r.drawStatus()
	if state.Complete() && r.statusShown && !r.saving() {
		fmt.Fprintln(r.out)
		r.statusShown = false
	}
}

// OnSave implements Observer.
func (r *LineRenderer) OnSave(state SaveState) {
	r.save = state
	r.drawStatus()
}

// OnEvent implements Observer.
func (r *LineRenderer) OnEvent(ev Event) {
	if ev.Level == LevelVerbose && !r.showVerbose {
		return
	}
	r.clearStatus()
	fmt.Fprintln(r.out, prefix(ev.Level)+ev.Message)
	r.drawStatus()
}

// Escalate implements Observer. Verbose events are shown from now on.
func (r *LineRenderer) Escalate(trace []string) {
	r.clearStatus()
	r.showVerbose = true
	fmt.Fprintln(r.out, errorStyle.Render("Full trace of the failing stage:"))
	for _, line := range trace {
		fmt.Fprintln(r.out, traceStyle.Render("   │ "+line))
	}
}

func (r *LineRenderer) saving() bool {
	return r.save.Label != "" && !r.save.Done && r.save.Err == ""
}

func (r *LineRenderer) drawStatus() {
	if !r.live || r.sep.OverallTotal == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(clearLine)
	sb.WriteString(labelStyle.Render("stems"))
	sb.WriteString(fmt.Sprintf(" %d/%d ", r.sep.OverallDone, r.sep.OverallTotal))
	sb.WriteString(r.overallBar.ViewAs(r.sep.OverallFraction()))
	sb.WriteString("  ")
	sb.WriteString(labelStyle.Render(r.sep.CurrentLabel))
	sb.WriteString(" ")
	sb.WriteString(r.currentBar.ViewAs(r.sep.CurrentFraction()))
	if r.saving() {
		sb.WriteString("  ")
		sb.WriteString(dimStyle.Render("saving " + r.save.Label))
		sb.WriteString(" ")
		sb.WriteString(r.saveBar.ViewAs(r.save.Fraction()))
	}

	fmt.Fprint(r.out, sb.String())
	r.statusShown = true
}

func (r *LineRenderer) clearStatus() {
	if r.statusShown {
		fmt.Fprint(r.out, clearLine)
		r.statusShown = false
	}
}

func prefix(level Level) string {
	switch level {
	case LevelError:
		return "❌ "
	case LevelWarning:
		return "⚠️  "
	case LevelSuccess:
		return "✅ "
	case LevelInfo:
		return "ℹ️  "
	default:
		return "   "
	}
}
