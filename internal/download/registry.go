package download

import (
	"fmt"
	"slices"
	"sort"

	"github.com/handiism/stemline/internal/config"
	"github.com/handiism/stemline/internal/http"
	"github.com/handiism/stemline/internal/progress"
	"github.com/handiism/stemline/internal/runner"
)

// Deps carries what strategy constructors may need.
type Deps struct {
	Config *config.Config

	// Exec runs ffmpeg for the conversion fallback.
	Exec runner.Executor

	// HTTP serves oEmbed title lookups. Nil uses http.NewClient.
	HTTP *http.Client

	// Save receives download byte counts and the final move.
	Save *progress.SaveTracker

	// ScratchRoot holds per-attempt scratch directories. Empty uses the
	// system temp dir.
	ScratchRoot string
}

// Constructor builds a strategy. label names it in events.
type Constructor func(label string, d Deps) Strategy

var registry = map[string]Constructor{
	"ytdlp":   newYtdlpStrategy,
	"browser": newBrowserStrategy,
}

// Register adds or replaces a named strategy constructor.
func Register(name string, c Constructor) {
	registry[name] = c
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStrategy builds the strategy registered under name.
func NewStrategy(name, label string, d Deps) (Strategy, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown download strategy %q (have %v)", name, Names())
	}
	return c(label, d), nil
}

// NewChainFromConfig builds the chain configured by cfg.
func NewChainFromConfig(cfg *config.Config, d Deps) (*Chain, error) {
	d.Config = cfg
	if d.Save == nil {
		d.Save = progress.NewSaveTracker(nil)
	}
	if d.Exec == nil {
		d.Exec = &runner.Exec{}
	}

	primary, err := NewStrategy(cfg.PrimaryStrategy, "method 1 ("+cfg.PrimaryStrategy+")", d)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	secondary, err := NewStrategy(cfg.SecondaryStrategy, "method 2 ("+cfg.SecondaryStrategy+")", d)
	if err != nil {
		return nil, fmt.Errorf("secondary: %w", err)
	}
	return NewChain(primary, secondary, cfg.Paths, d.Save), nil
}

func newFetcher(d Deps) fetcher {
	return &goYtdlp{binary: d.Config.Binaries.Ytdlp, onBytes: d.Save.Update}
}

func newYtdlpStrategy(label string, d Deps) Strategy {
	return &YtdlpStrategy{
		label:       label,
		scratchRoot: d.ScratchRoot,
		fetch:       newFetcher(d),
	}
}

func newBrowserStrategy(label string, d Deps) Strategy {
	client := d.HTTP
	if client == nil {
		client = http.NewClient()
	}

	var titles FirstTitle
	if d.Config.BrowserTitleLookup {
		titles = append(titles, &BrowserTitle{ExecPath: d.Config.BrowserPath})
	}
	titles = append(titles, &OEmbedTitle{Client: client})

	return &BrowserStrategy{
		label:       label,
		scratchRoot: d.ScratchRoot,
		titles:      titles,
		clients:     slices.Clone(d.Config.PlayerClients),
		fetch:       newFetcher(d),
		exec:        d.Exec,
		ffmpeg:      d.Config.Binaries.Ffmpeg,
	}
}
