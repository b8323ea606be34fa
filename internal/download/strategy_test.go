package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/handiism/stemline/internal/audio/audiotest"
	"github.com/handiism/stemline/internal/runner"
)

// fakeFetcher fails for the listed player clients and writes a file
// named after the request otherwise.
type fakeFetcher struct {
	t        *testing.T
	failFor  map[string]bool
	failBest bool
	requests []fetchRequest
}

func (f *fakeFetcher) Fetch(ctx context.Context, link string, req fetchRequest) (string, error) {
	f.requests = append(f.requests, req)
	if req.Format != "" && f.failBest {
		return "", errors.New("bestaudio unavailable")
	}
	if req.ExtractWav && f.failFor[req.PlayerClient] {
		return "", errors.New("Sign in to confirm you're not a bot")
	}

	name := req.Name
	if name == "" {
		name = "Video Title"
	}
	ext := ".webm"
	if req.ExtractWav {
		ext = ".wav"
	}
	path := filepath.Join(req.Dir, name+ext)
	if err := audiotest.WriteSecond(path); err != nil {
		f.t.Fatal(err)
	}
	return path, nil
}

type fakeExec struct {
	cmds []runner.Command
	err  error
}

func (f *fakeExec) Run(ctx context.Context, c runner.Command, onLine runner.LineFunc) error {
	f.cmds = append(f.cmds, c)
	if f.err != nil {
		onLine("Invalid data found when processing input")
		return f.err
	}
	return audiotest.WriteSecond(c.Args[len(c.Args)-1])
}

type fixedTitle struct {
	name  string
	title string
	err   error
}

func (f fixedTitle) Name() string { return f.name }

func (f fixedTitle) Title(ctx context.Context, link string) (string, error) {
	return f.title, f.err
}

func TestYtdlpStrategy_Attempt(t *testing.T) {
	f := &fakeFetcher{t: t}
	s := &YtdlpStrategy{label: "method 1 (ytdlp)", scratchRoot: t.TempDir(), fetch: f}

	a := s.Attempt(context.Background(), testLink)
	defer os.RemoveAll(a.Scratch)

	if a.Failed() {
		t.Fatalf("Attempt() failed: %v %v", a.Err, a.Log)
	}
	if a.Title != "Video Title" {
		t.Errorf("Title = %q", a.Title)
	}
	if !f.requests[0].ExtractWav || f.requests[0].Dir != a.Scratch {
		t.Errorf("request = %+v", f.requests[0])
	}
}

func TestYtdlpStrategy_FetchError(t *testing.T) {
	f := &fakeFetcher{t: t, failFor: map[string]bool{"": true}}
	s := &YtdlpStrategy{label: "p", scratchRoot: t.TempDir(), fetch: f}

	a := s.Attempt(context.Background(), testLink)
	defer os.RemoveAll(a.Scratch)

	if !a.Started || !a.Failed() {
		t.Fatalf("Attempt() = %+v, want started and failed", a)
	}
	if !strings.Contains(a.Log[len(a.Log)-1], "bot") {
		t.Errorf("last log line = %q", a.Log[len(a.Log)-1])
	}
}

func TestBrowserStrategy_PlayerClientFallback(t *testing.T) {
	f := &fakeFetcher{t: t, failFor: map[string]bool{"web": true}}
	s := &BrowserStrategy{
		label:       "method 2 (browser)",
		scratchRoot: t.TempDir(),
		titles:      FirstTitle{fixedTitle{name: "oembed", title: "My: Song?"}},
		clients:     []string{"web", "ios", "android"},
		fetch:       f,
		exec:        &fakeExec{},
		ffmpeg:      "ffmpeg",
	}

	a := s.Attempt(context.Background(), testLink)
	defer os.RemoveAll(a.Scratch)

	if a.Failed() {
		t.Fatalf("Attempt() failed: %v %v", a.Err, a.Log)
	}
	if a.Title != "My: Song?" {
		t.Errorf("Title = %q", a.Title)
	}
	if filepath.Base(a.AudioPath) != "My_ Song_.wav" {
		t.Errorf("AudioPath = %s", a.AudioPath)
	}

	var clients []string
	for _, r := range f.requests {
		clients = append(clients, r.PlayerClient)
	}
	if diff := cmp.Diff([]string{"web", "ios"}, clients); diff != "" {
		t.Errorf("player clients mismatch (-want +got):\n%s", diff)
	}

	want := []string{
		"title (oembed): My: Song?",
		"yt-dlp player client web: downloading",
		"yt-dlp player client web failed: Sign in to confirm you're not a bot",
		"yt-dlp player client ios: downloading",
		"yt-dlp player client ios: saved My_ Song_.wav",
	}
	if diff := cmp.Diff(want, a.Log); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestBrowserStrategy_FFmpegFallback(t *testing.T) {
	f := &fakeFetcher{t: t, failFor: map[string]bool{"web": true, "ios": true}}
	ex := &fakeExec{}
	s := &BrowserStrategy{
		label:       "m2",
		scratchRoot: t.TempDir(),
		titles:      FirstTitle{fixedTitle{name: "browser", err: errors.New("no chrome")}},
		clients:     []string{"web", "ios"},
		fetch:       f,
		exec:        ex,
		ffmpeg:      "/opt/ffmpeg",
	}

	a := s.Attempt(context.Background(), testLink)
	defer os.RemoveAll(a.Scratch)

	if a.Failed() {
		t.Fatalf("Attempt() failed: %v %v", a.Err, a.Log)
	}
	if a.Title != "dQw4w9WgXcQ" {
		t.Errorf("Title = %q, want the video ID", a.Title)
	}
	if last := f.requests[len(f.requests)-1]; last.Format != "bestaudio/best" || last.ExtractWav {
		t.Errorf("last request = %+v", last)
	}
	if len(ex.cmds) != 1 {
		t.Fatalf("ffmpeg calls = %d", len(ex.cmds))
	}
	argv := ex.cmds[0].Argv()
	wantTail := []string{"-vn", "-acodec", "pcm_s16le", "-ar", "44100", "-ac", "2", a.AudioPath}
	if diff := cmp.Diff(wantTail, argv[len(argv)-len(wantTail):]); diff != "" {
		t.Errorf("ffmpeg args mismatch (-want +got):\n%s", diff)
	}
	if argv[0] != "/opt/ffmpeg" {
		t.Errorf("ffmpeg binary = %s", argv[0])
	}
}

func TestBrowserStrategy_AllFail(t *testing.T) {
	f := &fakeFetcher{t: t, failFor: map[string]bool{"web": true}, failBest: true}
	s := &BrowserStrategy{
		label:       "m2",
		scratchRoot: t.TempDir(),
		titles:      FirstTitle{fixedTitle{name: "oembed", title: "Song"}},
		clients:     []string{"web"},
		fetch:       f,
		exec:        &fakeExec{},
		ffmpeg:      "ffmpeg",
	}

	a := s.Attempt(context.Background(), testLink)
	defer os.RemoveAll(a.Scratch)

	if !a.Failed() || a.AudioPath != "" {
		t.Fatalf("Attempt() = %+v, want failure", a)
	}
	if got := a.Log[len(a.Log)-1]; got != "bestaudio download failed: bestaudio unavailable" {
		t.Errorf("last log line = %q", got)
	}
}

func TestFirstTitle_Resolve(t *testing.T) {
	titles := FirstTitle{
		fixedTitle{name: "browser", err: errors.New("no chrome")},
		fixedTitle{name: "oembed", title: "Song"},
	}
	title, via, err := titles.Resolve(context.Background(), testLink)
	if err != nil || title != "Song" || via != "oembed" {
		t.Errorf("Resolve() = %q, %q, %v", title, via, err)
	}

	_, _, err = FirstTitle{fixedTitle{name: "browser", err: errors.New("no chrome")}}.Resolve(context.Background(), testLink)
	if err == nil || !strings.Contains(err.Error(), "browser: no chrome") {
		t.Errorf("Resolve() error = %v", err)
	}
}

func TestCleanPageTitle(t *testing.T) {
	tests := map[string]string{
		"Song Name - YouTube":     "Song Name",
		"(3) Song Name - YouTube": "Song Name",
		"(Live) Song - YouTube":   "(Live) Song",
		"YouTube":                 "",
		"  Plain  ":               "Plain",
	}
	for in, want := range tests {
		if got := cleanPageTitle(in); got != want {
			t.Errorf("cleanPageTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProducedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Song.wav")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := producedFile("[download] 100%\n"+path+"\n", dir)
	if err != nil || got != path {
		t.Errorf("producedFile(printed) = %q, %v", got, err)
	}
	got, err = producedFile("", dir)
	if err != nil || got != path {
		t.Errorf("producedFile(scan) = %q, %v", got, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "Other.wav"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := producedFile("", dir); err == nil {
		t.Error("producedFile() with two files expected error")
	}
}
