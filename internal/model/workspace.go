package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// PathConfig holds path formatting settings.
type PathConfig struct {
	// DownloadsPath is the template for a run's work folder.
	// Supports {title}, {year}, {month} and {day}.
	DownloadsPath string

	// Platform selects path length limits.
	Platform Platform
}

// Workspace is the set of paths one run writes to.
type Workspace struct {
	// Title is the media title the paths are derived from.
	Title string

	// Dir is the work folder.
	Dir string

	// AudioPath is the downloaded waveform file.
	AudioPath string

	// StemsDir holds one file per stem.
	StemsDir string
}

// NewWorkspace computes the work folder and file paths for a title.
//
// Invalid filename characters are replaced with underscores. On windows,
// paths are truncated to stay under MAX_PATH (248 for folders, 260 for files).
func NewWorkspace(title string, cfg *PathConfig) *Workspace {
	name := FileName(title)

	ws := &Workspace{Title: title}
	ws.Dir = parseFolderPath(cfg, name)
	ws.AudioPath = limitFilePath(cfg, ws.Dir, name+".wav")
	ws.StemsDir = filepath.Join(ws.Dir, "stems")
	return ws
}

// FileName returns title made safe for use as a file name, or "audio"
// when nothing usable remains.
func FileName(title string) string {
	if name := sanitizeFileName(title); name != "" {
		return name
	}
	return "audio"
}

// StemPath returns the export path of a stem.
func (w *Workspace) StemPath(s Stem) string {
	return filepath.Join(w.StemsDir, string(s)+".wav")
}

func parseFolderPath(cfg *PathConfig, name string) string {
	now := Now()
	path := cfg.DownloadsPath
	if !strings.Contains(path, "{title}") {
		path = filepath.Join(path, "{title}")
	}
	path = strings.ReplaceAll(path, "{year}", now.Format("2006"))
	path = strings.ReplaceAll(path, "{month}", now.Format("01"))
	path = strings.ReplaceAll(path, "{day}", now.Format("02"))
	path = strings.ReplaceAll(path, "{title}", name)

	// Windows folder limit, leaving room for the stems sub-folder.
	const maxFolder = 248 - len("/stems")
	if cfg.Platform == PlatformWindows && len(path) >= maxFolder {
		path = strings.TrimRight(path[:maxFolder-1], " .")
	}
	return filepath.Clean(path)
}

func limitFilePath(cfg *PathConfig, dir, fileName string) string {
	filePath := filepath.Join(dir, fileName)
	if cfg.Platform != PlatformWindows || len(filePath) < 260 {
		return filePath
	}
	ext := filepath.Ext(fileName)
	maxLen := 259 - len(dir) - 1 - len(ext)
	if maxLen > 0 && maxLen < len(fileName)-len(ext) {
		return filepath.Join(dir, fileName[:maxLen]+ext)
	}
	return filePath
}

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	runsOfSpace  = regexp.MustCompile(`\s+`)
)

// sanitizeFileName replaces characters that are invalid in file names.
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = runsOfSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
