package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// fetchRequest describes one yt-dlp invocation.
type fetchRequest struct {
	// Dir receives the output file.
	Dir string

	// Name is the output file name without extension. Empty uses the
	// video title.
	Name string

	// ExtractWav converts the download to WAV with the best quality.
	ExtractWav bool

	// Format is passed as -f when set.
	Format string

	// PlayerClient selects the youtube player client when set.
	PlayerClient string
}

// fetcher runs yt-dlp and returns the path of the produced file.
type fetcher interface {
	Fetch(ctx context.Context, link string, req fetchRequest) (string, error)
}

// goYtdlp is the fetcher backed by the yt-dlp executable.
type goYtdlp struct {
	binary  string
	onBytes func(written, total int64)
}

func (g *goYtdlp) Fetch(ctx context.Context, link string, req fetchRequest) (string, error) {
	name := req.Name
	if name == "" {
		name = "%(title)s"
	}

	dl := ytdlp.New().
		ForceOverwrites().
		NoPlaylist().
		Output(filepath.Join(req.Dir, name+".%(ext)s")).
		Print("after_move:filepath")
	if g.binary != "" {
		dl.SetExecutable(g.binary)
	}
	if req.ExtractWav {
		dl.ExtractAudio().AudioFormat("wav").AudioQuality("0")
	}
	if req.Format != "" {
		dl.Format(req.Format)
	}
	if req.PlayerClient != "" {
		dl.ExtractorArgs("youtube:player_client=" + req.PlayerClient)
	}
	if g.onBytes != nil {
		dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			g.onBytes(int64(update.DownloadedBytes), int64(update.TotalBytes))
		})
	}

	res, err := dl.Run(ctx, link)
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}
	return producedFile(res.Stdout, req.Dir)
}

// producedFile returns the path printed by --print after_move:filepath,
// falling back to the only file in dir.
func producedFile(stdout, dir string) (string, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		p := strings.TrimSpace(lines[i])
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() && !strings.HasSuffix(e.Name(), ".part") {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("expected one output file in %s, found %d", dir, len(found))
	}
	return found[0], nil
}

// titleFromPath returns the file name without its extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// YtdlpStrategy extracts WAV audio with yt-dlp in a single call.
type YtdlpStrategy struct {
	label       string
	scratchRoot string
	fetch       fetcher
}

// Name implements Strategy.
func (s *YtdlpStrategy) Name() string {
	return s.label
}

// Attempt implements Strategy.
func (s *YtdlpStrategy) Attempt(ctx context.Context, link string) Attempt {
	scratch, err := os.MkdirTemp(s.scratchRoot, "stemline-dl-*")
	if err != nil {
		return Attempt{Err: fmt.Errorf("create scratch dir: %w", err)}
	}

	a := Attempt{Started: true, Scratch: scratch}
	a.Log = append(a.Log, "yt-dlp: extracting audio as wav")

	path, err := s.fetch.Fetch(ctx, link, fetchRequest{Dir: scratch, ExtractWav: true})
	if err != nil {
		a.Log = append(a.Log, "yt-dlp failed: "+err.Error())
		a.Err = err
		return a
	}
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		a.Err = errors.New("yt-dlp produced " + filepath.Base(path) + ", not a wav file")
		a.Log = append(a.Log, a.Err.Error())
		return a
	}

	a.AudioPath = path
	a.Title = titleFromPath(path)
	a.Log = append(a.Log, "yt-dlp: saved "+filepath.Base(path))
	return a
}
