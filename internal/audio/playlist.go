package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/stemline/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
//
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps a settings value to a format, defaulting to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	if strings.EqualFold(s, "pls") {
		return FormatPLS
	}
	return FormatM3U
}

// Extension returns the file extension including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// Entry is one playlist item.
type Entry struct {
	Title    string
	Path     string
	Duration time.Duration
}

// StemEntries builds entries for exported stems, reading each duration
// from the file. Unreadable files get a zero duration.
func StemEntries(title string, stems []model.StemFile) []Entry {
	entries := make([]Entry, 0, len(stems))
	for _, s := range stems {
		e := Entry{Title: fmt.Sprintf("%s (%s)", title, s.Stem), Path: s.Path}
		if info, err := Inspect(s.Path); err == nil {
			e.Duration = info.Duration
		}
		entries = append(entries, e)
	}
	return entries
}

// PlaylistCreator generates playlist files for a set of stems.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(StemEntries(title, stems))
//	os.WriteFile(filepath.Join(stemsDir, "stems.m3u"), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:215,Song (drums)
//	// drums.wav
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content. Paths are written relative
// (just the file name), assuming the playlist sits next to the stems.
func (p *PlaylistCreator) CreatePlaylist(entries []Entry) string {
	if p.format == FormatPLS {
		return p.createPLS(entries)
	}
	return p.createM3U(entries)
}

func (p *PlaylistCreator) createM3U(entries []Entry) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, e := range entries {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", int(e.Duration.Seconds()), e.Title))
		}
		sb.WriteString(filepath.Base(e.Path) + "\n")
	}

	return sb.String()
}

func (p *PlaylistCreator) createPLS(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, e := range entries {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(e.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, e.Title))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, int(e.Duration.Seconds())))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(entries)))
	sb.WriteString("Version=2\n")

	return sb.String()
}
