package report

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ioutils "github.com/handiism/stemline/internal/io"
	"github.com/handiism/stemline/internal/model"
)

// Banner lines.
const (
	BannerComplete  = "PROCESS COMPLETE !"
	BannerFailed    = "PROCESS FAILED !"
	BannerLocations = "(FILE LOCATIONS OF EVERYTHING BELOW)"

	CompleteFile = "PROCESS_COMPLETE.txt"
	FailedFile   = "PROCESS_FAILED.txt"
	RunLogFile   = "run.yaml"
)

const rule = "============================================================"

// Summary is what the controller knows at the end of a run.
type Summary struct {
	Success    bool
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Link       string
	Mode       model.Mode
	WorkDir    string
	AudioPath  string
	Stems      []model.StemFile
}

// Report is a rendered completion report.
type Report struct {
	Summary Summary
	Events  []model.LogEvent
	Text    string
}

// FileName returns the report file name for the outcome.
func (r Report) FileName() string {
	if r.Summary.Success {
		return CompleteFile
	}
	return FailedFile
}

// Aggregator collects events from every stage in causal order.
type Aggregator struct {
	events []model.LogEvent
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends events.
func (a *Aggregator) Record(events ...model.LogEvent) {
	a.events = append(a.events, events...)
}

// Events returns a copy of the recorded events.
func (a *Aggregator) Events() []model.LogEvent {
	return slices.Clone(a.events)
}

// Render builds the report for s from the recorded events.
func (a *Aggregator) Render(s Summary) Report {
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	if s.Success {
		sb.WriteString(BannerComplete + "\n")
		sb.WriteString(BannerLocations + "\n")
	} else {
		sb.WriteString(BannerFailed + "\n")
	}
	sb.WriteString(rule + "\n")

	for _, stage := range model.Stages {
		var evs []model.LogEvent
		for _, ev := range a.events {
			if ev.Stage != stage || (ev.Detail && s.Success) {
				continue
			}
			evs = append(evs, ev)
		}
		if len(evs) == 0 {
			continue
		}
		writeSection(&sb, stage, evs)
	}

	sb.WriteString("\nFILE LOCATIONS\n")
	writeLocation(&sb, "WORK FOLDER", s.WorkDir)
	writeLocation(&sb, "WAV FILE", s.AudioPath)
	if len(s.Stems) > 0 {
		writeLocation(&sb, "STEMS FOLDER", filepath.Dir(s.Stems[0].Path))
		for _, st := range s.Stems {
			writeLocation(&sb, strings.ToUpper(string(st.Stem)), st.Path)
		}
	}
	sb.WriteString(rule + "\n")

	return Report{Summary: s, Events: a.Events(), Text: sb.String()}
}

func writeSection(sb *strings.Builder, stage model.Stage, evs []model.LogEvent) {
	tag := "SUCCESS"
	if evs[len(evs)-1].IsFailure() {
		tag = "FAILURE"
	}
	fmt.Fprintf(sb, "\n[%s] %s\n", tag, strings.ToUpper(string(stage)))

	source := ""
	for _, ev := range evs {
		indent := "  "
		if ev.Source != "" {
			if ev.Source != source {
				fmt.Fprintf(sb, "  %s BREAKDOWN\n", strings.ToUpper(ev.Source))
			}
			indent = "    "
		}
		source = ev.Source

		mark := "-"
		if ev.IsFailure() {
			mark = "!"
		}
		fmt.Fprintf(sb, "%s%s %s\n", indent, mark, ev.Message)
	}
}

func writeLocation(sb *strings.Builder, label, path string) {
	if path == "" {
		path = "(none)"
	}
	fmt.Fprintf(sb, "  %-12s: %s\n", label, path)
}

// Write saves the report text to dir and returns its path.
func Write(ctx context.Context, dir string, r Report) (string, error) {
	path := filepath.Join(dir, r.FileName())
	if err := ioutils.WriteFile(ctx, path, []byte(r.Text)); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

type runLog struct {
	RunID      string            `yaml:"run_id"`
	Success    bool              `yaml:"success"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Link       string            `yaml:"link,omitempty"`
	Mode       string            `yaml:"mode,omitempty"`
	WorkDir    string            `yaml:"work_dir,omitempty"`
	AudioPath  string            `yaml:"audio_path,omitempty"`
	Stems      map[string]string `yaml:"stems,omitempty"`
	Events     []model.LogEvent  `yaml:"events"`
}

// WriteRunLog saves the machine-readable event log of the run to dir.
func WriteRunLog(ctx context.Context, dir string, r Report) (string, error) {
	s := r.Summary
	rl := runLog{
		RunID:      s.RunID,
		Success:    s.Success,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Link:       s.Link,
		Mode:       string(s.Mode),
		WorkDir:    s.WorkDir,
		AudioPath:  s.AudioPath,
		Events:     r.Events,
	}
	if len(s.Stems) > 0 {
		rl.Stems = make(map[string]string, len(s.Stems))
		for _, st := range s.Stems {
			rl.Stems[string(st.Stem)] = st.Path
		}
	}

	data, err := yaml.Marshal(rl)
	if err != nil {
		return "", fmt.Errorf("encode run log: %w", err)
	}
	path := filepath.Join(dir, RunLogFile)
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return "", fmt.Errorf("write run log: %w", err)
	}
	return path, nil
}
