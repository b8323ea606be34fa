// Package app wires settings, logging and the pipeline collaborators
// for the command line and terminal UI binaries.
package app

import (
	"fmt"
	"io"

	"github.com/handiism/stemline/internal/config"
	"github.com/handiism/stemline/internal/download"
	"github.com/handiism/stemline/internal/env"
	"github.com/handiism/stemline/internal/logging"
	"github.com/handiism/stemline/internal/pipeline"
	"github.com/handiism/stemline/internal/platform"
	"github.com/handiism/stemline/internal/progress"
	"github.com/handiism/stemline/internal/prompt"
	"github.com/handiism/stemline/internal/runner"
	"github.com/handiism/stemline/internal/separate"
)

// Version is set at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// App holds what one process needs to run the pipeline.
type App struct {
	Settings *config.Settings
	Config   *config.Config

	logFile io.Closer
}

// Load reads settings from path (empty uses the default location),
// configures logging, checks external tools and freezes the config.
func Load(path string) (*App, error) {
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(settings.LogLevel)
	if err != nil {
		return nil, err
	}
	logFile, err := logging.OpenFile(settings.LogFile)
	if err != nil {
		return nil, err
	}
	logging.Init(level, settings.LogFormat, logFile)

	p := platform.Current()
	deps := CheckDependencies(settings)
	cfg, err := config.Build(settings, p, deps)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	logging.New("app").Info("configuration loaded",
		"platform", string(p),
		"downloads_path", cfg.Paths.DownloadsPath,
		"primary", cfg.PrimaryStrategy,
		"secondary", cfg.SecondaryStrategy,
	)
	return &App{Settings: settings, Config: cfg, logFile: logFile}, nil
}

// CheckDependencies looks up the tools the settings refer to.
func CheckDependencies(s *config.Settings) env.Report {
	return env.NewChecker().Check(platform.Current(), s.Manifest())
}

// Controller builds a pipeline controller reading answers from r and
// reporting to obs.
func (a *App) Controller(r prompt.Reader, obs progress.Observer) (*pipeline.Controller, error) {
	save := progress.NewSaveTracker(obs)
	exec := &runner.Exec{Logger: logging.New("runner")}

	chain, err := download.NewChainFromConfig(a.Config, download.Deps{Exec: exec, Save: save})
	if err != nil {
		return nil, fmt.Errorf("download chain: %w", err)
	}

	return pipeline.New(a.Config, pipeline.Deps{
		Reader:     r,
		Downloader: chain,
		Engines:    separate.NewRegistry(a.Config, exec, save),
		Observer:   obs,
	}), nil
}

// Close releases the log file.
func (a *App) Close() error {
	return a.logFile.Close()
}
