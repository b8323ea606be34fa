package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/handiism/stemline/internal/config"
	"github.com/handiism/stemline/internal/download"
	"github.com/handiism/stemline/internal/link"
	"github.com/handiism/stemline/internal/logging"
	"github.com/handiism/stemline/internal/mode"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/progress"
	"github.com/handiism/stemline/internal/prompt"
	"github.com/handiism/stemline/internal/report"
	"github.com/handiism/stemline/internal/separate"
)

// State is a controller checkpoint.
type State string

const (
	StateInit        State = "INIT"
	StateValidateEnv State = "VALIDATE_ENV"
	StateGetLink     State = "GET_LINK"
	StateDownload    State = "DOWNLOAD"
	StateSelectMode  State = "SELECT_MODE"
	StateSeparate    State = "SEPARATE"
	StateReport      State = "REPORT"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

// Event messages recorded by the controller itself.
const (
	MsgEnvOK            = "All dependencies OK."
	MsgSeparationFailed = "separation failed"
)

// Downloader fetches the audio of a validated link.
type Downloader interface {
	Download(ctx context.Context, link string, onEvent func(model.LogEvent)) model.StageResult[download.Artifact]
}

// Engines looks up the separation engine of a mode.
type Engines interface {
	For(m model.Mode) (separate.Engine, error)
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Reader     prompt.Reader
	Downloader Downloader
	Engines    Engines
	Observer   progress.Observer
}

// Outcome is the result of a finished run.
type Outcome struct {
	Success    bool
	Report     report.Report
	ReportPath string
	RunLogPath string
	States     []State
	Run        *model.RunContext
}

// Controller runs the pipeline once.
type Controller struct {
	cfg  *config.Config
	deps Deps
	obs  progress.Observer
	log  *slog.Logger

	agg    *report.Aggregator
	rc     *model.RunContext
	ws     *model.Workspace
	states []State
}

// New creates a Controller. cfg is not modified.
func New(cfg *config.Config, deps Deps) *Controller {
	obs := deps.Observer
	if obs == nil {
		obs = progress.Discard
	}
	return &Controller{
		cfg:  cfg,
		deps: deps,
		obs:  obs,
		log:  logging.New("pipeline"),
	}
}

// State returns the current checkpoint.
func (c *Controller) State() State {
	if len(c.states) == 0 {
		return ""
	}
	return c.states[len(c.states)-1]
}

func (c *Controller) enter(s State) {
	c.states = append(c.states, s)
	c.log.Debug("state", "state", string(s))
}

// record applies events to the run and the aggregator.
func (c *Controller) record(events ...model.LogEvent) {
	c.rc.Append(events...)
	c.agg.Record(events...)
}

// notify forwards one event to the observer.
func (c *Controller) notify(ev model.LogEvent) {
	c.obs.OnEvent(progress.Event{Message: ev.Message, Level: progress.LevelFor(ev)})
}

// emit records and forwards events.
func (c *Controller) emit(events ...model.LogEvent) {
	c.record(events...)
	for _, ev := range events {
		c.notify(ev)
	}
}

// Run executes the pipeline. Stage failures are reported through the
// Outcome. An error is returned only when dependencies are missing or
// input cannot be read; no report is produced then.
func (c *Controller) Run(ctx context.Context) (*Outcome, error) {
	c.states = nil
	c.agg = report.NewAggregator()
	c.ws = nil

	c.enter(StateInit)
	c.rc = model.NewRunContext(c.cfg.Platform)
	c.log = logging.New("pipeline").With("run_id", c.rc.RunID)

	c.enter(StateValidateEnv)
	if err := c.cfg.Dependencies.Err(); err != nil {
		c.enter(StateFailed)
		return nil, fmt.Errorf("%w\n%s", err, strings.Join(c.cfg.Dependencies.Lines(), "\n"))
	}
	c.emit(model.Succeeded(model.StageEnvironment, MsgEnvOK))

	c.enter(StateGetLink)
	linkRes, err := link.Ask(ctx, c.deps.Reader, c.cfg.PromptMaxAttempts, c.notify)
	c.record(linkRes.Events...)
	if err != nil {
		c.enter(StateFailed)
		return nil, fmt.Errorf("get link: %w", err)
	}
	c.rc.InputLink = linkRes.Payload

	c.enter(StateDownload)
	dl := c.deps.Downloader.Download(ctx, c.rc.InputLink, c.notify)
	c.record(dl.Events...)
	if !dl.OK {
		return c.finish(ctx, false), nil
	}
	c.ws = dl.Payload.Workspace
	if err := c.rc.SetDownloadedAudioPath(c.ws.AudioPath); err != nil {
		return nil, err
	}

	c.enter(StateSelectMode)
	modeRes, err := mode.Select(ctx, c.deps.Reader, c.cfg.PromptMaxAttempts, c.notify)
	c.record(modeRes.Events...)
	if err != nil {
		c.enter(StateFailed)
		return nil, fmt.Errorf("select mode: %w", err)
	}
	c.rc.SeparationMode = modeRes.Payload

	c.enter(StateSeparate)
	ok := c.separate(ctx)
	return c.finish(ctx, ok), nil
}

func (c *Controller) separate(ctx context.Context) bool {
	engine, err := c.deps.Engines.For(c.rc.SeparationMode)
	if err != nil {
		c.emit(model.Failed(model.StageSeparation, err.Error()))
		return false
	}

	tracker := progress.NewTracker(c.obs)
	res := engine.Separate(ctx, c.rc.DownloadedAudioPath(), tracker)
	for _, s := range res.Stems {
		c.rc.StemPaths[s.Stem] = s.Path
	}

	if !res.OK {
		c.obs.Escalate(res.FailureTrace)
		for _, line := range res.FailureTrace {
			c.record(model.Failed(model.StageSeparation, line).AsDetail())
		}
		c.emit(model.Failed(model.StageSeparation, MsgSeparationFailed))
		return false
	}

	for _, msg := range tracker.Messages() {
		c.record(model.Succeeded(model.StageSeparation, msg))
	}
	c.emit(model.Succeeded(model.StageSeparation, "stems saved to "+c.ws.StemsDir))
	return true
}

func (c *Controller) finish(ctx context.Context, success bool) *Outcome {
	c.enter(StateReport)

	sum := report.Summary{
		Success:    success,
		RunID:      c.rc.RunID,
		StartedAt:  c.rc.StartedAt,
		FinishedAt: model.Now(),
		Link:       c.rc.InputLink,
		Mode:       c.rc.SeparationMode,
		AudioPath:  c.rc.DownloadedAudioPath(),
		Stems:      c.rc.StemList(),
	}
	if c.ws != nil {
		sum.WorkDir = c.ws.Dir
	}
	rep := c.agg.Render(sum)
	out := &Outcome{Success: success, Report: rep, Run: c.rc}

	if sum.WorkDir != "" {
		path, err := report.Write(ctx, sum.WorkDir, rep)
		if err != nil {
			c.log.Warn("report not saved", "error", err)
		} else {
			out.ReportPath = path
			c.record(model.Succeeded(model.StageReport, "report saved to "+path))
		}
		if c.cfg.WriteRunLog {
			rep.Events = c.rc.Events()
			path, err := report.WriteRunLog(ctx, sum.WorkDir, rep)
			if err != nil {
				c.log.Warn("run log not saved", "error", err)
			} else {
				out.RunLogPath = path
			}
		}
	}

	if success {
		c.enter(StateDone)
		c.log.Info("run complete", "work_dir", sum.WorkDir)
	} else {
		c.enter(StateFailed)
		c.log.Warn("run failed", "work_dir", sum.WorkDir)
	}
	out.States = append([]State(nil), c.states...)
	return out
}
