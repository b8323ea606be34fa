package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/handiism/stemline/internal/env"
	"github.com/handiism/stemline/internal/model"
)

// EngineProfile is the demucs configuration of one separation mode.
type EngineProfile struct {
	Model   string
	Shifts  int
	Overlap float64
}

// Binaries names the external executables.
type Binaries struct {
	Ytdlp  string
	Ffmpeg string
	Demucs string
}

// Config is the immutable run configuration, built once at startup by
// Build and passed by reference into the pipeline. Nothing modifies it
// after Build returns.
type Config struct {
	Platform     model.Platform
	Paths        model.PathConfig
	Dependencies env.Report

	PrimaryStrategy    string
	SecondaryStrategy  string
	PlayerClients      []string
	BrowserTitleLookup bool
	BrowserPath        string
	Binaries           Binaries

	Engines map[model.Mode]EngineProfile

	PromptMaxAttempts int

	CreatePlaylist bool
	PlaylistFormat string
	WriteRunLog    bool
}

// Build validates settings and freezes them together with the detected
// platform and the dependency check report.
func Build(s *Settings, p model.Platform, deps env.Report) (*Config, error) {
	var errs []error
	if s.DownloadsPath == "" {
		errs = append(errs, errors.New("downloads_path is empty"))
	}
	if s.PrimaryStrategy == "" || s.SecondaryStrategy == "" {
		errs = append(errs, errors.New("both download strategies must be set"))
	}
	if len(s.PlayerClients) == 0 {
		errs = append(errs, errors.New("player_clients is empty"))
	}
	if s.PromptMaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("prompt_max_attempts %d is negative", s.PromptMaxAttempts))
	}
	if s.PlaylistFormat != "m3u" && s.PlaylistFormat != "pls" {
		errs = append(errs, fmt.Errorf("unsupported playlist_format %q", s.PlaylistFormat))
	}
	for name, prof := range map[string]EngineProfile{
		"basic":   {s.BasicModel, s.BasicShifts, s.BasicOverlap},
		"complex": {s.ComplexModel, s.ComplexShifts, s.ComplexOverlap},
	} {
		if prof.Model == "" {
			errs = append(errs, fmt.Errorf("%s_model is empty", name))
		}
		if prof.Shifts < 0 {
			errs = append(errs, fmt.Errorf("%s_shifts %d is negative", name, prof.Shifts))
		}
		if prof.Overlap < 0 || prof.Overlap >= 1 {
			errs = append(errs, fmt.Errorf("%s_overlap %v must be in [0, 1)", name, prof.Overlap))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &Config{
		Platform: p,
		Paths: model.PathConfig{
			DownloadsPath: s.DownloadsPath,
			Platform:      p,
		},
		Dependencies: env.Report{
			Platform: deps.Platform,
			Statuses: slices.Clone(deps.Statuses),
		},

		PrimaryStrategy:    s.PrimaryStrategy,
		SecondaryStrategy:  s.SecondaryStrategy,
		PlayerClients:      slices.Clone(s.PlayerClients),
		BrowserTitleLookup: s.BrowserTitleLookup,
		BrowserPath:        s.BrowserPath,
		Binaries: Binaries{
			Ytdlp:  s.YtdlpBinary,
			Ffmpeg: s.FfmpegBinary,
			Demucs: s.DemucsBinary,
		},

		Engines: map[model.Mode]EngineProfile{
			model.ModeBasic:   {Model: s.BasicModel, Shifts: s.BasicShifts, Overlap: s.BasicOverlap},
			model.ModeComplex: {Model: s.ComplexModel, Shifts: s.ComplexShifts, Overlap: s.ComplexOverlap},
		},

		PromptMaxAttempts: s.PromptMaxAttempts,

		CreatePlaylist: s.CreatePlaylist,
		PlaylistFormat: s.PlaylistFormat,
		WriteRunLog:    s.WriteRunLog,
	}, nil
}

// Engine returns the profile of a mode.
func (c *Config) Engine(m model.Mode) (EngineProfile, bool) {
	p, ok := c.Engines[m]
	return p, ok
}
