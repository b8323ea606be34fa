// Package runner executes the external tools stemline drives and streams
// their merged stdout/stderr back line by line.
//
// Lines are delivered on the caller's goroutine, so progress parsed from
// tool output updates trackers synchronously. Carriage returns count as
// line breaks, which splits tqdm and ffmpeg progress redraws into
// separate lines.
package runner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// String renders the command as a shell-like line for traces and manifests.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range append([]string{c.Name}, c.Args...) {
		if p == "" || strings.ContainsAny(p, " \t\"'") {
			p = fmt.Sprintf("%q", p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// Argv returns the name followed by the arguments.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// LineFunc receives one non-empty output line.
type LineFunc func(line string)

// Executor runs a command to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command, onLine LineFunc) error
}

// Exec is the os/exec backed Executor.
type Exec struct {
	Logger *slog.Logger
}

// Run starts the command and blocks until it exits and its output has
// been drained. A non-zero exit is returned as an error.
func (e *Exec) Run(ctx context.Context, c Command, onLine LineFunc) error {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	logger.Debug("starting process", "cmd", c.String())
	if err := cmd.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("start %s: %w", c.Name, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		err := cmd.Wait()
		pw.Close()
		return err
	})

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanLines)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " ")
		if strings.TrimSpace(line) == "" || onLine == nil {
			continue
		}
		onLine(line)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("output scan stopped", "cmd", c.Name, "error", err)
		io.Copy(io.Discard, pr)
	}

	if err := g.Wait(); err != nil {
		logger.Debug("process failed", "cmd", c.Name, "error", err)
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	return nil
}

// scanLines is bufio.ScanLines treating '\r' as a line break too.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
