package ioutils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/handiism/stemline/internal/logging"
)

// PartSuffix is appended to files that are still being written.
const PartSuffix = ".part"

// ProgressWriter wraps a writer to track copy progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  info.Size(),
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
//	io.Copy(pw, src)
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// CopyFile copies src to dst through a ".part" file.
//
// onProgress, if not nil, receives (bytesWritten, totalBytes). dst is
// created only after every byte has been written and synced.
//
// Example:
//
//	err := CopyFile(ctx, "/tmp/htdemucs/song/drums.wav", "/music/song/stems/drums.wav", nil)
func CopyFile(ctx context.Context, src, dst string, onProgress func(written, total int64)) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	part := dst + PartSuffix
	out, err := os.Create(part)
	if err != nil {
		return err
	}

	var w io.Writer = out
	if onProgress != nil {
		w = &ProgressWriter{Writer: out, Total: info.Size(), OnUpdate: onProgress}
	}

	if _, err := io.Copy(w, ctxReader{ctx: ctx, r: in}); err != nil {
		out.Close()
		os.Remove(part)
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(part)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(part)
		return err
	}

	if err := os.Rename(part, dst); err != nil {
		os.Remove(part)
		return err
	}
	return nil
}

// Swapped in tests to simulate cross-device moves.
var (
	rename = os.Rename
	remove = os.Remove
)

// MoveFile moves src to dst. A plain rename is tried first; across
// devices the file is copied and the source removed. Once dst is
// complete the move has succeeded, so a source that cannot be removed
// is only logged.
func MoveFile(ctx context.Context, src, dst string, onProgress func(written, total int64)) error {
	err := rename(src, dst)
	if err == nil {
		if onProgress != nil {
			if info, statErr := os.Stat(dst); statErr == nil {
				onProgress(info.Size(), info.Size())
			}
		}
		return nil
	}

	// Rename fails across devices; fall back to copying.
	if err := CopyFile(ctx, src, dst, onProgress); err != nil {
		return err
	}
	if err := remove(src); err != nil {
		logging.New("io").Warn("source left behind after move", "src", src, "dst", dst, "error", err)
	}
	return nil
}

// WriteFile writes data to path atomically with mode 0644.
//
// Example:
//
//	manifest, _ := json.MarshalIndent(m, "", "  ")
//	err := WriteFile(ctx, "/music/song/stems/last_stems.json", manifest)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	part := path + PartSuffix
	if err := os.WriteFile(part, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(part, path); err != nil {
		os.Remove(part)
		return err
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
