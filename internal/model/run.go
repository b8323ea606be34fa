package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAudioAlreadySet is returned when the downloaded audio path is set twice.
var ErrAudioAlreadySet = errors.New("downloaded audio path already set")

// RunContext holds the state of one end-to-end run.
//
// It is created at pipeline start and discarded once the completion report
// has been emitted. It is never persisted across runs.
type RunContext struct {
	// RunID identifies the run in logs and in the run log file.
	RunID string

	// StartedAt is when the run was created.
	StartedAt time.Time

	// Platform is read once from configuration.
	Platform Platform

	// InputLink is the validated, normalized link.
	InputLink string

	// SeparationMode is the engine chosen at the mode checkpoint.
	SeparationMode Mode

	// StemPaths maps each produced stem to its file.
	StemPaths map[Stem]string

	downloadedAudioPath string
	events              []LogEvent
}

// NewRunContext creates an empty run for the given platform.
func NewRunContext(platform Platform) *RunContext {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &RunContext{
		RunID:     id.String(),
		StartedAt: Now(),
		Platform:  platform,
		StemPaths: make(map[Stem]string),
	}
}

// SetDownloadedAudioPath records the audio artifact. It can be set only once.
func (rc *RunContext) SetDownloadedAudioPath(path string) error {
	if rc.downloadedAudioPath != "" {
		return ErrAudioAlreadySet
	}
	rc.downloadedAudioPath = path
	return nil
}

// DownloadedAudioPath returns the audio artifact, or "" before download.
func (rc *RunContext) DownloadedAudioPath() string {
	return rc.downloadedAudioPath
}

// Append adds events in order.
func (rc *RunContext) Append(events ...LogEvent) {
	rc.events = append(rc.events, events...)
}

// Events returns a copy of the recorded events.
func (rc *RunContext) Events() []LogEvent {
	out := make([]LogEvent, len(rc.events))
	copy(out, rc.events)
	return out
}

// StemList returns the produced stems in export order.
func (rc *RunContext) StemList() []StemFile {
	var out []StemFile
	for _, s := range Stems {
		if p, ok := rc.StemPaths[s]; ok {
			out = append(out, StemFile{Stem: s, Path: p})
		}
	}
	return out
}

// StemFile pairs a stem with the file it was exported to.
type StemFile struct {
	Stem Stem   `yaml:"stem" json:"stem"`
	Path string `yaml:"path" json:"path"`
}
