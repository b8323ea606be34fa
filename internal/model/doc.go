// Package model defines the core data structures shared by every stage
// of the stemline pipeline.
//
// # Run Context
//
// RunContext is the single mutable object for one end-to-end run. Only the
// pipeline controller holds it; stages receive plain inputs and hand back
// a StageResult that the controller applies:
//
//	rc := model.NewRunContext(model.PlatformMac)
//	rc.InputLink = link
//	if err := rc.SetDownloadedAudioPath(path); err != nil {
//	    // the audio path is write-once
//	}
//
// # Events and Stage Results
//
// Every stage reports what happened as an ordered list of LogEvent values.
// Insertion order is the causal order of the run:
//
//	res := model.Success(link, model.Succeeded(model.StageLink, "This works!"))
//	if !res.OK {
//	    // nothing was applied
//	}
//
// # Progress
//
// ProgressState is the snapshot published by the two-level separation
// tracker: one overall unit per stem and a current counter for the stem
// being produced.
//
// # Workspace
//
// Workspace computes where a run's artifacts live using placeholders:
//
//	cfg := &model.PathConfig{DownloadsPath: "/home/me/Downloads/{title}"}
//	ws := model.NewWorkspace("Song: Live", cfg)
//	fmt.Println(ws.AudioPath)             // /home/me/Downloads/Song_ Live/Song_ Live.wav
//	fmt.Println(ws.StemPath(model.StemBass)) // .../stems/bass.wav
//
// Available placeholders: {title}, {year}, {month}, {day}
package model
