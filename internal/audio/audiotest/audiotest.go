// Package audiotest writes small WAV fixtures for tests.
package audiotest

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteSilence writes a 16-bit PCM WAV of the given length in frames.
func WriteSilence(path string, channels, sampleRate, frames int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// WriteSecond writes one second of stereo 44.1 kHz silence.
func WriteSecond(path string) error {
	return WriteSilence(path, 2, 44100, 44100)
}
