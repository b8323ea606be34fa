// Package pipeline sequences one run from link to stems.
//
// The Controller owns the RunContext and moves through
//
//	INIT → VALIDATE_ENV → GET_LINK → DOWNLOAD → SELECT_MODE → SEPARATE → REPORT → DONE
//
// A failed download or separation short-circuits to REPORT and ends in
// FAILED. Stages never touch the RunContext; they return a StageResult
// and the controller applies it.
//
// Basic usage:
//
//	ctrl := pipeline.New(cfg, pipeline.Deps{
//	    Reader:     prompt.NewLineReader(os.Stdin, os.Stdout),
//	    Downloader: chain,
//	    Engines:    separate.NewRegistry(cfg, &runner.Exec{}, save),
//	    Observer:   progress.NewLineRenderer(os.Stdout),
//	})
//	out, err := ctrl.Run(ctx)
package pipeline
