package separate

import (
	"context"
	"fmt"
	"slices"

	"github.com/handiism/stemline/internal/audio"
	"github.com/handiism/stemline/internal/config"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/progress"
	"github.com/handiism/stemline/internal/runner"
)

// Result is the outcome of a separation run.
type Result struct {
	OK bool

	// Stems holds the exported stems in order. On failure it holds the
	// stems finished before the error.
	Stems []model.StemFile

	// FailureTrace is every sub-step line, set only when OK is false.
	FailureTrace []string
}

// Engine separates one audio file into stems.
type Engine interface {
	Mode() model.Mode
	Separate(ctx context.Context, audioPath string, sink progress.Sink) Result
}

// Registry maps each mode to its engine.
type Registry map[model.Mode]Engine

// NewRegistry builds a demucs engine for every mode configured in cfg.
func NewRegistry(cfg *config.Config, exec runner.Executor, save *progress.SaveTracker) Registry {
	var playlist *audio.PlaylistCreator
	format := audio.ParsePlaylistFormat(cfg.PlaylistFormat)
	if cfg.CreatePlaylist {
		playlist = audio.NewPlaylistCreator(format, true)
	}

	r := make(Registry, len(cfg.Engines))
	for mode, prof := range cfg.Engines {
		d := NewDemucs(mode, prof, cfg.Binaries.Demucs, exec, save)
		d.playlist = playlist
		d.playlistFormat = format
		r[mode] = d
	}
	return r
}

// For returns the engine of a mode.
func (r Registry) For(m model.Mode) (Engine, error) {
	e, ok := r[m]
	if !ok {
		return nil, fmt.Errorf("no separation engine for mode %q", m)
	}
	return e, nil
}

// Modes returns the registered modes in a stable order.
func (r Registry) Modes() []model.Mode {
	modes := make([]model.Mode, 0, len(r))
	for m := range r {
		modes = append(modes, m)
	}
	slices.Sort(modes)
	return modes
}
