// stemline turns a video link into drums, bass, vocals and other stems.
//
// Usage:
//
//	stemline            interactive run: link, download, mode, separation
//	stemline check      verify yt-dlp, ffmpeg and demucs are installed
//	stemline config     show the effective settings
//	stemline version    print the version
//
// Settings are read from the user config dir, or from the file named by
// STEMLINE_CONFIG. Every setting can be overridden with STEMLINE_<KEY>.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/stemline/internal/app"
	"github.com/handiism/stemline/internal/pipeline"
	"github.com/handiism/stemline/internal/progress"
	"github.com/handiism/stemline/internal/prompt"
)

// errRunFailed marks a run whose failure report was already printed.
var errRunFailed = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:   "stemline",
	Short: "Download a video's audio and split it into stems",
	Long: "stemline asks for a YouTube link, downloads its audio as WAV with a\n" +
		"fallback download method, and separates it into drums, bass, vocals\n" +
		"and other stems with demucs.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPipeline,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = app.Version
}

func configPath() string {
	return os.Getenv("STEMLINE_CONFIG")
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	a, err := app.Load(configPath())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	renderer := progress.NewLineRenderer(out)
	ctrl, err := a.Controller(prompt.NewLineReader(cmd.InOrStdin(), out), renderer)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "🎵 stemline")
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(out)

	outcome, err := ctrl.Run(ctx)
	if err == nil {
		fmt.Fprintln(out)
		fmt.Fprint(out, outcome.Report.Text)
		if outcome.ReportPath != "" {
			fmt.Fprintf(out, "Report saved to %s\n", outcome.ReportPath)
		}
	}
	return runError(ctx, outcome, err)
}

// runError maps a finished run to the command error. An interrupt wins
// over whatever the run reported.
func runError(ctx context.Context, outcome *pipeline.Outcome, err error) error {
	switch {
	case ctx.Err() != nil:
		return context.Canceled
	case err != nil:
		return err
	case !outcome.Success:
		return errRunFailed
	}
	return nil
}

// exitCode returns the process exit status for an Execute error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func main() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "\nInterrupted.")
	case errors.Is(err, errRunFailed):
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
