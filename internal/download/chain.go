package download

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/handiism/stemline/internal/audio"
	ioutils "github.com/handiism/stemline/internal/io"
	"github.com/handiism/stemline/internal/logging"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/progress"
)

// Event messages.
const (
	MsgRunning   = "method running"
	MsgFail      = "method fail"
	MsgSuccess   = "method success"
	MsgAllFailed = "all download methods failed"
)

// ManifestName is written to the work folder after a successful download.
const ManifestName = "last_download.json"

// Attempt is the outcome of one strategy run.
type Attempt struct {
	// Started is false when the strategy could not begin at all.
	Started bool

	// AudioPath is the artifact in the scratch directory.
	AudioPath string

	// Title is the media title used to name the work folder.
	Title string

	// Scratch is removed by the chain after the attempt.
	Scratch string

	// Log holds one line per sub-step, whatever the outcome.
	Log []string

	// Err is the reason the attempt failed.
	Err error
}

// Failed reports whether the attempt produced no artifact.
func (a Attempt) Failed() bool {
	return !a.Started || a.Err != nil || a.AudioPath == ""
}

// Strategy fetches the audio of a link.
type Strategy interface {
	// Name identifies the strategy in events, e.g. "method 1 (ytdlp)".
	Name() string

	// Attempt downloads link into a scratch directory.
	Attempt(ctx context.Context, link string) Attempt
}

// State is the chain's position in the fallback sequence.
type State string

const (
	StateIdle             State = "IDLE"
	StatePrimaryRunning   State = "PRIMARY_RUNNING"
	StateSecondaryRunning State = "SECONDARY_RUNNING"
	StateDone             State = "DONE"
	StateFailed           State = "FAILED"
)

// Artifact is the payload of a successful download.
type Artifact struct {
	Link      string
	Title     string
	Method    string
	Workspace *model.Workspace
}

// Chain runs the primary strategy and falls back to the secondary.
type Chain struct {
	primary   Strategy
	secondary Strategy
	paths     model.PathConfig
	save      *progress.SaveTracker
	logger    *slog.Logger
	state     State

	// Validate checks the artifact before it is accepted.
	Validate func(path string) error
}

// NewChain creates a Chain. save may be nil.
func NewChain(primary, secondary Strategy, paths model.PathConfig, save *progress.SaveTracker) *Chain {
	if save == nil {
		save = progress.NewSaveTracker(nil)
	}
	return &Chain{
		primary:   primary,
		secondary: secondary,
		paths:     paths,
		save:      save,
		logger:    logging.New("download"),
		state:     StateIdle,
		Validate:  audio.Validate,
	}
}

// State returns the current state.
func (c *Chain) State() State {
	return c.state
}

// Download fetches link, trying the secondary strategy once if the
// primary fails. The payload is valid only when OK is true. onEvent, if
// set, receives every event as soon as it is produced.
func (c *Chain) Download(ctx context.Context, link string, onEvent func(model.LogEvent)) model.StageResult[Artifact] {
	var events []model.LogEvent
	emit := func(ev model.LogEvent) {
		events = append(events, ev)
		if onEvent != nil {
			onEvent(ev)
		}
	}

	c.state = StatePrimaryRunning
	if art, ok := c.run(ctx, c.primary, link, emit); ok {
		c.state = StateDone
		return model.Success(art, events...)
	}

	c.state = StateSecondaryRunning
	c.logger.Info("primary failed, falling back", "secondary", c.secondary.Name())
	if art, ok := c.run(ctx, c.secondary, link, emit); ok {
		c.state = StateDone
		return model.Success(art, events...)
	}

	c.state = StateFailed
	emit(model.Failed(model.StageDownload, MsgAllFailed))
	return model.Failure[Artifact](events...)
}

func (c *Chain) run(ctx context.Context, s Strategy, link string, emit func(model.LogEvent)) (Artifact, bool) {
	src := s.Name()
	emit(model.Succeeded(model.StageDownload, MsgRunning).From(src))

	a := s.Attempt(ctx, link)
	if a.Scratch != "" {
		defer os.RemoveAll(a.Scratch)
	}
	for _, line := range a.Log {
		emit(model.Succeeded(model.StageDownload, line).From(src))
	}

	fail := func(err error) (Artifact, bool) {
		c.logger.Warn("download attempt failed", "method", src, "error", err)
		emit(model.Failed(model.StageDownload, fmt.Sprintf("%s: %v", MsgFail, err)).From(src))
		return Artifact{}, false
	}

	if a.Failed() {
		err := a.Err
		if err == nil {
			err = fmt.Errorf("no audio produced")
		}
		return fail(err)
	}
	if err := c.Validate(a.AudioPath); err != nil {
		return fail(err)
	}

	ws := model.NewWorkspace(a.Title, &c.paths)
	if err := ioutils.EnsureDir(ws.Dir); err != nil {
		return fail(err)
	}

	var total int64
	if fi, err := os.Stat(a.AudioPath); err == nil {
		total = fi.Size()
	}
	c.save.Start(filepath.Base(ws.AudioPath), total)
	if err := ioutils.MoveFile(ctx, a.AudioPath, ws.AudioPath, c.save.Update); err != nil {
		c.save.Fail(err)
		return fail(err)
	}
	c.save.Finish()

	art := Artifact{Link: link, Title: a.Title, Method: src, Workspace: ws}
	if err := writeManifest(ctx, art); err != nil {
		c.logger.Warn("write download manifest", "error", err)
	}

	emit(model.Succeeded(model.StageDownload, fmt.Sprintf("%s: %s", MsgSuccess, ws.AudioPath)).From(src))
	return art, true
}

type manifest struct {
	Link      string    `json:"link"`
	Title     string    `json:"title"`
	AudioPath string    `json:"audio_path"`
	Method    string    `json:"method"`
	SavedAt   time.Time `json:"saved_at"`
}

func writeManifest(ctx context.Context, art Artifact) error {
	data, err := json.MarshalIndent(manifest{
		Link:      art.Link,
		Title:     art.Title,
		AudioPath: art.Workspace.AudioPath,
		Method:    art.Method,
		SavedAt:   model.Now(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, filepath.Join(art.Workspace.Dir, ManifestName), data)
}
