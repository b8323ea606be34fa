package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// ErrInvalidAudio is returned when a file breaks the single-file PCM
// contract between download and separation.
var ErrInvalidAudio = errors.New("invalid audio file")

// WAV format tags accepted as PCM.
const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Info describes a validated waveform file.
type Info struct {
	Channels   int
	SampleRate int
	BitDepth   int
	Duration   time.Duration
}

// Inspect validates that path is a complete PCM WAV file with one or two
// channels and returns its properties.
//
// Example:
//
//	info, err := audio.Inspect("/music/song/song.wav")
//	if errors.Is(err, audio.ErrInvalidAudio) {
//	    // not usable by the separation engines
//	}
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %s is not a readable wav file", ErrInvalidAudio, path)
	}
	if d.WavAudioFormat != formatPCM && d.WavAudioFormat != formatExtensible {
		return Info{}, fmt.Errorf("%w: %s has format tag %d, want PCM", ErrInvalidAudio, path, d.WavAudioFormat)
	}
	if d.NumChans < 1 || d.NumChans > 2 {
		return Info{}, fmt.Errorf("%w: %s has %d channels, want mono or stereo", ErrInvalidAudio, path, d.NumChans)
	}

	dur, err := d.Duration()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if dur <= 0 {
		return Info{}, fmt.Errorf("%w: %s is empty", ErrInvalidAudio, path)
	}

	return Info{
		Channels:   int(d.NumChans),
		SampleRate: int(d.SampleRate),
		BitDepth:   int(d.BitDepth),
		Duration:   dur,
	}, nil
}

// Validate is Inspect without the properties.
func Validate(path string) error {
	_, err := Inspect(path)
	return err
}
