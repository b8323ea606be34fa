// Package audio validates waveform files and writes stem playlists.
//
// # Validation
//
// Inspect checks the contract between the download and separation
// stages: one complete PCM WAV file, mono or stereo:
//
//	info, err := audio.Inspect(path)
//	// info.Channels, info.SampleRate, info.Duration
//
// # Playlist Generation
//
// Generate a playlist that auditions every stem:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(audio.StemEntries(title, stems))
//	os.WriteFile("stems.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
