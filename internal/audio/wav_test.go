package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/stemline/internal/audio/audiotest"
)

func TestInspect_ValidStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	if err := audiotest.WriteSecond(path); err != nil {
		t.Fatal(err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	want := Info{Channels: 2, SampleRate: 44100, BitDepth: 16, Duration: time.Second}
	if info != want {
		t.Errorf("Inspect() = %+v, want %+v", info, want)
	}
}

func TestInspect_Rejects(t *testing.T) {
	dir := t.TempDir()

	notWav := filepath.Join(dir, "song.webm")
	if err := os.WriteFile(notWav, []byte("\x1aE\xdf\xa3 not a riff file at all"), 0644); err != nil {
		t.Fatal(err)
	}
	surround := filepath.Join(dir, "surround.wav")
	if err := audiotest.WriteSilence(surround, 6, 48000, 4800); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "absent.wav")},
		{"not wav", notWav},
		{"too many channels", surround},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.path); !errors.Is(err, ErrInvalidAudio) {
				t.Errorf("Validate() error = %v, want ErrInvalidAudio", err)
			}
		})
	}
}
