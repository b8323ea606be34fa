// Package link validates the video link typed at the first checkpoint.
//
// Validation is purely syntactic. Whether the video exists is only
// discovered by the download stage.
package link

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/prompt"
)

// Prompt is shown before each link read.
const Prompt = "==INSERT==LINK=="

// Messages recorded for accepted and rejected input.
const (
	MsgAccepted = "This works!"
	MsgRejected = "invalid, try again"
)

var hosts = map[string]bool{
	"youtube.com":              true,
	"www.youtube.com":          true,
	"m.youtube.com":            true,
	"music.youtube.com":        true,
	"youtu.be":                 true,
	"www.youtu.be":             true,
	"youtube-nocookie.com":     true,
	"www.youtube-nocookie.com": true,
}

var (
	videoID  = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)
	shortsRe = regexp.MustCompile(`^/shorts/([^/]+)/?$`)
)

// Validate accepts /watch?v=<id>, youtu.be/<id> and /shorts/<id> links on
// the supported hosts and returns the link normalized to its watch form.
func Validate(raw string) model.StageResult[string] {
	id, ok := VideoID(raw)
	if !ok {
		return model.Failure[string](model.Failed(model.StageLink, MsgRejected))
	}
	return model.Success(WatchURL(id), model.Succeeded(model.StageLink, MsgAccepted))
}

// VideoID extracts the video ID from a supported link.
func VideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Host)
	if !hosts[host] {
		return "", false
	}

	var id string
	switch {
	case strings.HasSuffix(host, "youtu.be"):
		id = strings.Trim(u.Path, "/")
	case strings.ToLower(u.Path) == "/watch":
		id = strings.TrimSpace(u.Query().Get("v"))
	default:
		if m := shortsRe.FindStringSubmatch(u.Path); m != nil {
			id = m[1]
		}
	}

	if id == "" || !videoID.MatchString(id) {
		return "", false
	}
	return id, true
}

// WatchURL returns the canonical watch link for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Ask re-prompts until a valid link is entered. maxAttempts of 0 means no
// limit. The result holds one event per attempt, rejections first.
func Ask(ctx context.Context, r prompt.Reader, maxAttempts int, onEvent func(model.LogEvent)) (model.StageResult[string], error) {
	loop := &prompt.Loop[string]{
		Prompt:      Prompt,
		Parse:       Validate,
		MaxAttempts: maxAttempts,
		OnEvent:     onEvent,
	}
	return loop.Run(ctx, r)
}
