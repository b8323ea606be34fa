package separate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/handiism/stemline/internal/audio"
	"github.com/handiism/stemline/internal/config"
	ioutils "github.com/handiism/stemline/internal/io"
	"github.com/handiism/stemline/internal/logging"
	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/progress"
	"github.com/handiism/stemline/internal/runner"
)

const (
	// ManifestName is written to the work folder after all stems exist.
	ManifestName = "last_stems.json"

	// StagingDir is the demucs output folder inside the work folder.
	StagingDir = ".stemline-demucs"

	// PlaylistName is the playlist file name without extension.
	PlaylistName = "stems"
)

// percentRe matches the tqdm bar demucs prints, e.g. " 45%|████▌ |".
var percentRe = regexp.MustCompile(`(\d{1,3})%\|`)

// parsePercent returns the last percentage on a demucs output line.
func parsePercent(line string) (int, bool) {
	m := percentRe.FindAllStringSubmatch(line, -1)
	if m == nil {
		return 0, false
	}
	p, err := strconv.Atoi(m[len(m)-1][1])
	if err != nil || p > 100 {
		return 0, false
	}
	return p, true
}

// bagSizes lists the pretrained bags that run one model per member.
var bagSizes = map[string]int{
	"htdemucs_ft": 4,
	"mdx":         4,
	"mdx_extra":   4,
	"mdx_q":       4,
	"mdx_extra_q": 4,
}

// barMeter folds the consecutive 0-100% tqdm bars of one demucs pass
// into a single counter. A bar restarts at 0% or drops by at least half.
type barMeter struct {
	index int
	last  int
}

func (b *barMeter) value(p int) int {
	if p < b.last && (p == 0 || b.last-p >= 50) {
		b.index++
	}
	b.last = p
	return b.index*100 + p
}

// Demucs is the engine shared by every mode.
type Demucs struct {
	mode    model.Mode
	profile config.EngineProfile
	binary  string
	exec    runner.Executor
	save    *progress.SaveTracker
	logger  *slog.Logger

	playlist       *audio.PlaylistCreator
	playlistFormat audio.PlaylistFormat
}

// NewDemucs creates an engine. save may be nil.
func NewDemucs(mode model.Mode, profile config.EngineProfile, binary string, exec runner.Executor, save *progress.SaveTracker) *Demucs {
	if save == nil {
		save = progress.NewSaveTracker(nil)
	}
	return &Demucs{
		mode:    mode,
		profile: profile,
		binary:  binary,
		exec:    exec,
		save:    save,
		logger:  logging.New("separate").With("mode", string(mode), "model", profile.Model),
	}
}

// Mode implements Engine.
func (d *Demucs) Mode() model.Mode {
	return d.mode
}

// Command returns the demucs invocation that isolates stem.
func (d *Demucs) Command(stem model.Stem, audioPath, outDir string) runner.Command {
	args := []string{"--two-stems", string(stem), "-n", d.profile.Model}
	if d.profile.Shifts > 0 {
		args = append(args, "--shifts", strconv.Itoa(d.profile.Shifts))
	}
	if d.profile.Overlap > 0 {
		args = append(args, "--overlap", strconv.FormatFloat(d.profile.Overlap, 'f', -1, 64))
	}
	args = append(args, "-o", outDir, audioPath)
	return runner.Command{Name: d.binary, Args: args}
}

// Bars returns how many tqdm bars one pass prints: one per bag member
// and shift.
func (d *Demucs) Bars() int {
	n := bagSizes[d.profile.Model]
	if n == 0 {
		n = 1
	}
	if d.profile.Shifts > 1 {
		n *= d.profile.Shifts
	}
	return n
}

// Separate implements Engine. Stems are written to the "stems" folder
// next to audioPath.
func (d *Demucs) Separate(ctx context.Context, audioPath string, sink progress.Sink) Result {
	workDir := filepath.Dir(audioPath)
	stemsDir := filepath.Join(workDir, "stems")
	staging := filepath.Join(workDir, StagingDir)
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	var (
		trace   []string
		stems   []model.StemFile
		lastCmd runner.Command
	)
	traceLine := func(line string) {
		trace = append(trace, line)
		sink.Trace(line)
	}
	fail := func(err error) Result {
		d.logger.Error("separation failed", "error", err)
		traceLine("ERROR: " + err.Error())
		return Result{Stems: stems, FailureTrace: trace}
	}

	labels := make([]string, len(model.Stems))
	for i, s := range model.Stems {
		labels[i] = string(s)
	}
	staleErr := clearStale(workDir, stemsDir)
	sink.Begin(labels...)
	if staleErr != nil {
		return fail(staleErr)
	}

	if err := audio.Validate(audioPath); err != nil {
		return fail(err)
	}
	if err := ioutils.EnsureDir(stemsDir); err != nil {
		return fail(err)
	}
	defer os.RemoveAll(staging)

	for _, stem := range model.Stems {
		sink.StartItem(string(stem), 100*d.Bars())

		lastCmd = d.Command(stem, audioPath, staging)
		traceLine("$ " + lastCmd.String())
		var meter barMeter
		err := d.exec.Run(ctx, lastCmd, func(line string) {
			traceLine(line)
			if p, ok := parsePercent(line); ok {
				sink.Advance(meter.value(p))
			}
		})
		if err != nil {
			return fail(fmt.Errorf("%s pass: %w", stem, err))
		}

		out := filepath.Join(staging, d.profile.Model, base)
		dst := filepath.Join(stemsDir, string(stem)+".wav")
		if err := d.export(ctx, filepath.Join(out, string(stem)+".wav"), dst); err != nil {
			return fail(fmt.Errorf("%s export: %w", stem, err))
		}
		os.RemoveAll(out)

		stems = append(stems, model.StemFile{Stem: stem, Path: dst})
		d.logger.Info("stem exported", "stem", string(stem), "path", dst)
		sink.FinishItem()
	}

	if err := d.writeManifest(ctx, audioPath, stemsDir, stems, lastCmd); err != nil {
		d.logger.Warn("write stems manifest", "error", err)
	}
	if d.playlist != nil {
		content := d.playlist.CreatePlaylist(audio.StemEntries(base, stems))
		path := filepath.Join(stemsDir, PlaylistName+d.playlistFormat.Extension())
		if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
			d.logger.Warn("write stems playlist", "error", err)
		}
	}

	return Result{OK: true, Stems: stems}
}

// clearStale removes the stems, manifest and playlists an earlier run left
// in the same work folder.
func clearStale(workDir, stemsDir string) error {
	stale, err := filepath.Glob(filepath.Join(stemsDir, "*.wav"))
	if err != nil {
		return err
	}
	stale = append(stale, filepath.Join(workDir, ManifestName))
	for _, f := range []audio.PlaylistFormat{audio.FormatM3U, audio.FormatPLS} {
		stale = append(stale, filepath.Join(stemsDir, PlaylistName+f.Extension()))
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// export validates a finished stem and moves it to dst.
func (d *Demucs) export(ctx context.Context, src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("demucs produced no %s: %w", filepath.Base(src), err)
	}
	if err := audio.Validate(src); err != nil {
		return err
	}

	d.save.Start(filepath.Base(dst), fi.Size())
	if err := ioutils.MoveFile(ctx, src, dst, d.save.Update); err != nil {
		d.save.Fail(err)
		return err
	}
	d.save.Finish()
	return nil
}

type manifest struct {
	InputWav  string            `json:"input_wav"`
	StemsDir  string            `json:"stems_dir"`
	Stems     map[string]string `json:"stems"`
	DemucsCmd []string          `json:"demucs_cmd"`
	Mode      string            `json:"mode"`
}

func (d *Demucs) writeManifest(ctx context.Context, input, stemsDir string, stems []model.StemFile, last runner.Command) error {
	m := manifest{
		InputWav:  input,
		StemsDir:  stemsDir,
		Stems:     make(map[string]string, len(stems)),
		DemucsCmd: last.Argv(),
		Mode:      string(d.mode),
	}
	for _, s := range stems {
		m.Stems[string(s.Stem)] = s.Path
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, filepath.Join(filepath.Dir(input), ManifestName), data)
}
