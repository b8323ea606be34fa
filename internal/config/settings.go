package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/handiism/stemline/internal/env"
	"github.com/handiism/stemline/internal/platform"
)

// EnvPrefix is the prefix of environment overrides, e.g. STEMLINE_LOG_LEVEL.
const EnvPrefix = "STEMLINE"

// Settings holds all user-editable options.
type Settings struct {
	// Paths
	DownloadsPath string `json:"downloads_path" mapstructure:"downloads_path"`

	// Download strategies
	PrimaryStrategy    string   `json:"primary_strategy" mapstructure:"primary_strategy"`
	SecondaryStrategy  string   `json:"secondary_strategy" mapstructure:"secondary_strategy"`
	PlayerClients      []string `json:"player_clients" mapstructure:"player_clients"`
	BrowserTitleLookup bool     `json:"browser_title_lookup" mapstructure:"browser_title_lookup"`
	BrowserPath        string   `json:"browser_path" mapstructure:"browser_path"`

	// External tools
	YtdlpBinary  string `json:"ytdlp_binary" mapstructure:"ytdlp_binary"`
	FfmpegBinary string `json:"ffmpeg_binary" mapstructure:"ffmpeg_binary"`
	DemucsBinary string `json:"demucs_binary" mapstructure:"demucs_binary"`

	// Separation engines
	BasicModel     string  `json:"basic_model" mapstructure:"basic_model"`
	BasicShifts    int     `json:"basic_shifts" mapstructure:"basic_shifts"`
	BasicOverlap   float64 `json:"basic_overlap" mapstructure:"basic_overlap"`
	ComplexModel   string  `json:"complex_model" mapstructure:"complex_model"`
	ComplexShifts  int     `json:"complex_shifts" mapstructure:"complex_shifts"`
	ComplexOverlap float64 `json:"complex_overlap" mapstructure:"complex_overlap"`

	// Prompts; 0 keeps re-prompting forever
	PromptMaxAttempts int `json:"prompt_max_attempts" mapstructure:"prompt_max_attempts"`

	// Artifacts
	CreatePlaylist bool   `json:"create_playlist" mapstructure:"create_playlist"`
	PlaylistFormat string `json:"playlist_format" mapstructure:"playlist_format"` // m3u, pls
	WriteRunLog    bool   `json:"write_run_log" mapstructure:"write_run_log"`

	// Diagnostics
	LogLevel  string `json:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"log_format" mapstructure:"log_format"` // text, json
	LogFile   string `json:"log_file" mapstructure:"log_file"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath: filepath.Join(platform.DownloadsDir(), "{title}"),

		PrimaryStrategy:    "ytdlp",
		SecondaryStrategy:  "browser",
		PlayerClients:      []string{"web", "ios", "android"},
		BrowserTitleLookup: true,

		YtdlpBinary:  "yt-dlp",
		FfmpegBinary: "ffmpeg",
		DemucsBinary: "demucs",

		BasicModel:     "htdemucs",
		ComplexModel:   "htdemucs_ft",
		ComplexShifts:  2,
		ComplexOverlap: 0.5,

		CreatePlaylist: true,
		PlaylistFormat: "m3u",
		WriteRunLog:    true,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// DefaultPath returns the settings file location in the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "stemline.json"
	}
	return filepath.Join(dir, "stemline", "stemline.json")
}

// Load reads settings from a JSON or YAML file and applies STEMLINE_*
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	settings.DownloadsPath = expandHome(settings.DownloadsPath)

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Manifest returns the external tools the configured strategies and
// engines need.
func (s *Settings) Manifest() []env.Dependency {
	return []env.Dependency{
		{Name: "yt-dlp", Binary: s.YtdlpBinary},
		{Name: "ffmpeg", Binary: s.FfmpegBinary},
		{Name: "demucs", Binary: s.DemucsBinary},
	}
}

func setDefaults(v *viper.Viper, d *Settings) {
	v.SetDefault("downloads_path", d.DownloadsPath)
	v.SetDefault("primary_strategy", d.PrimaryStrategy)
	v.SetDefault("secondary_strategy", d.SecondaryStrategy)
	v.SetDefault("player_clients", d.PlayerClients)
	v.SetDefault("browser_title_lookup", d.BrowserTitleLookup)
	v.SetDefault("browser_path", d.BrowserPath)
	v.SetDefault("ytdlp_binary", d.YtdlpBinary)
	v.SetDefault("ffmpeg_binary", d.FfmpegBinary)
	v.SetDefault("demucs_binary", d.DemucsBinary)
	v.SetDefault("basic_model", d.BasicModel)
	v.SetDefault("basic_shifts", d.BasicShifts)
	v.SetDefault("basic_overlap", d.BasicOverlap)
	v.SetDefault("complex_model", d.ComplexModel)
	v.SetDefault("complex_shifts", d.ComplexShifts)
	v.SetDefault("complex_overlap", d.ComplexOverlap)
	v.SetDefault("prompt_max_attempts", d.PromptMaxAttempts)
	v.SetDefault("create_playlist", d.CreatePlaylist)
	v.SetDefault("playlist_format", d.PlaylistFormat)
	v.SetDefault("write_run_log", d.WriteRunLog)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", d.LogFile)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
