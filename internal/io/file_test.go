package ioutils

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile_ReportsProgress(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	data := bytes.Repeat([]byte("riff"), 50_000)
	if err := os.WriteFile(src, data, 0644); err != nil {
		t.Fatal(err)
	}

	var last, total int64
	err := CopyFile(context.Background(), src, dst, func(w, tot int64) { last, total = w, tot })
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil || !bytes.Equal(got, data) {
		t.Fatalf("dst content mismatch (err %v)", err)
	}
	if last != int64(len(data)) || total != int64(len(data)) {
		t.Errorf("progress = %d/%d, want %d/%d", last, total, len(data), len(data))
	}
	if _, err := os.Stat(dst + PartSuffix); !os.IsNotExist(err) {
		t.Errorf("part file left behind: %v", err)
	}
}

func TestCopyFile_CancelledLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.wav")
	dst := filepath.Join(dir, "dst.wav")
	if err := os.WriteFile(src, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CopyFile(ctx, src, dst, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("CopyFile() error = %v, want context.Canceled", err)
	}
	for _, p := range []string{dst, dst + PartSuffix} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s exists after cancelled copy", filepath.Base(p))
		}
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.wav")
	dst := filepath.Join(dir, "b.wav")
	if err := os.WriteFile(src, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	var written int64
	if err := MoveFile(context.Background(), src, dst, func(w, _ int64) { written = w }); err != nil {
		t.Fatalf("MoveFile() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists")
	}
	if written != 3 {
		t.Errorf("progress written = %d, want 3", written)
	}
}

func TestMoveFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := MoveFile(context.Background(), filepath.Join(dir, "nope"), filepath.Join(dir, "x"), nil)
	if err == nil {
		t.Error("MoveFile() error = nil, want error")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_stems.json")
	if err := WriteFile(context.Background(), path, []byte("{}")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "{}" {
		t.Errorf("content = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "stems")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if err := EnsureDir(path); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

func TestMoveFile_CrossDevice(t *testing.T) {
	tests := []struct {
		name       string
		removeErr  error
		wantSource bool
	}{
		{name: "source removed"},
		{name: "source removal fails", removeErr: errors.New("permission denied"), wantSource: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origRename, origRemove := rename, remove
			t.Cleanup(func() { rename, remove = origRename, origRemove })
			rename = func(string, string) error { return errors.New("invalid cross-device link") }
			if tt.removeErr != nil {
				remove = func(string) error { return tt.removeErr }
			}

			dir := t.TempDir()
			src := filepath.Join(dir, "src.wav")
			dst := filepath.Join(dir, "dst.wav")
			if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
				t.Fatal(err)
			}

			if err := MoveFile(context.Background(), src, dst, nil); err != nil {
				t.Fatalf("MoveFile() error = %v", err)
			}
			if got, err := os.ReadFile(dst); err != nil || string(got) != "audio" {
				t.Errorf("dst = %q, %v", got, err)
			}
			if _, err := os.Stat(src); (err == nil) != tt.wantSource {
				t.Errorf("source exists = %v, want %v", err == nil, tt.wantSource)
			}
		})
	}
}
