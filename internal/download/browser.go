package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/stemline/internal/link"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/runner"
)

// BrowserStrategy resolves the title itself, then walks yt-dlp player
// clients and finally converts the best audio stream with ffmpeg.
type BrowserStrategy struct {
	label       string
	scratchRoot string
	titles      FirstTitle
	clients     []string
	fetch       fetcher
	exec        runner.Executor
	ffmpeg      string
}

// Name implements Strategy.
func (s *BrowserStrategy) Name() string {
	return s.label
}

// Attempt implements Strategy.
func (s *BrowserStrategy) Attempt(ctx context.Context, raw string) Attempt {
	scratch, err := os.MkdirTemp(s.scratchRoot, "stemline-dl-*")
	if err != nil {
		return Attempt{Err: fmt.Errorf("create scratch dir: %w", err)}
	}
	a := Attempt{Started: true, Scratch: scratch}
	logf := func(format string, args ...any) {
		a.Log = append(a.Log, fmt.Sprintf(format, args...))
	}

	title, via, err := s.titles.Resolve(ctx, raw)
	if err != nil {
		title, _ = link.VideoID(raw)
		logf("title lookup failed, using %q: %v", title, err)
	} else {
		logf("title (%s): %s", via, title)
	}
	a.Title = title
	name := model.FileName(title)

	for _, client := range s.clients {
		logf("yt-dlp player client %s: downloading", client)
		path, err := s.fetch.Fetch(ctx, raw, fetchRequest{
			Dir:          scratch,
			Name:         name,
			ExtractWav:   true,
			PlayerClient: client,
		})
		if err == nil {
			logf("yt-dlp player client %s: saved %s", client, filepath.Base(path))
			a.AudioPath = path
			return a
		}
		logf("yt-dlp player client %s failed: %v", client, err)
		if ctx.Err() != nil {
			a.Err = ctx.Err()
			return a
		}
	}

	logf("all player clients failed, trying bestaudio with ffmpeg conversion")
	src, err := s.fetch.Fetch(ctx, raw, fetchRequest{
		Dir:    scratch,
		Name:   name + ".source",
		Format: "bestaudio/best",
	})
	if err != nil {
		logf("bestaudio download failed: %v", err)
		a.Err = errors.New("every yt-dlp attempt failed")
		return a
	}
	logf("bestaudio saved %s", filepath.Base(src))

	out := filepath.Join(scratch, name+".wav")
	cmd := runner.Command{
		Name: s.ffmpeg,
		Args: []string{"-y", "-i", src, "-vn", "-acodec", "pcm_s16le", "-ar", "44100", "-ac", "2", out},
	}
	logf("ffmpeg: %s", cmd)
	var tail []string
	if err := s.exec.Run(ctx, cmd, func(line string) { tail = appendTail(tail, line, 5) }); err != nil {
		for _, l := range tail {
			logf("ffmpeg: %s", l)
		}
		logf("ffmpeg conversion failed: %v", err)
		a.Err = err
		return a
	}

	logf("ffmpeg: converted to %s", filepath.Base(out))
	a.AudioPath = out
	return a
}

func appendTail(tail []string, line string, n int) []string {
	tail = append(tail, line)
	if len(tail) > n {
		tail = tail[len(tail)-n:]
	}
	return tail
}
