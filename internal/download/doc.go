// Package download fetches the audio of a video link as one PCM WAV file.
//
// # Chain
//
// The Chain runs a primary Strategy and, when it fails, hands the
// identical link to a secondary Strategy exactly once:
//
//	PRIMARY_RUNNING ──ok──▶ DONE
//	      │
//	    fail
//	      ▼
//	SECONDARY_RUNNING ──ok──▶ DONE
//	      │
//	    fail
//	      ▼
//	   FAILED
//
// Every attempt line a strategy logs becomes an event sourced by the
// strategy name, so a failed run keeps both full logs.
//
// # Basic Usage
//
//	chain, err := download.NewChainFromConfig(cfg, download.Deps{Exec: &runner.Exec{}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := chain.Download(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", func(ev model.LogEvent) {
//	    fmt.Println(ev.Message)
//	})
//	if res.OK {
//	    fmt.Println(res.Payload.Workspace.AudioPath)
//	}
//
// # Strategies
//
// Strategies are registered by name and picked by configuration:
//   - "ytdlp": yt-dlp audio extraction to WAV
//   - "browser": headless-browser title lookup, player-client fallbacks
//     and an ffmpeg conversion as the last resort
//
// Strategies work in a scratch directory. The chain validates the
// artifact and only then moves it to its final path, so a failed attempt
// never leaves a partial file behind.
package download
