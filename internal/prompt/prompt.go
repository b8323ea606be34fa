// Package prompt implements the blocking retry-until-valid input loops
// used at the link and mode checkpoints.
//
// A Loop is a two-state machine. It starts in StatePrompting, asks the
// Reader for a line, and hands the line to Parse. A rejected line keeps
// the loop in StatePrompting; an accepted one moves it to StateAccepted
// and the loop returns. Retrying is unbounded unless MaxAttempts is set.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/stemline/internal/model"
)

// ErrTooManyAttempts is returned when MaxAttempts inputs were rejected.
var ErrTooManyAttempts = errors.New("too many invalid attempts")

// Reader supplies one line of user input per call.
type Reader interface {
	ReadLine(ctx context.Context, prompt string) (string, error)
}

// State is the loop state.
type State int

const (
	StatePrompting State = iota
	StateAccepted
)

func (s State) String() string {
	if s == StateAccepted {
		return "ACCEPTED"
	}
	return "PROMPTING"
}

// Loop asks until Parse accepts a line.
type Loop[T any] struct {
	// Prompt is shown before every read.
	Prompt string

	// Parse decides acceptance and reports events for the attempt.
	Parse func(raw string) model.StageResult[T]

	// MaxAttempts bounds the number of reads; 0 means unbounded.
	MaxAttempts int

	// OnEvent, if set, receives every event as soon as it is produced.
	OnEvent func(model.LogEvent)
}

// Run blocks until a line is accepted. The returned result carries the
// events of every attempt in order. An error is returned only when input
// cannot be read or MaxAttempts is exhausted.
func (l *Loop[T]) Run(ctx context.Context, r Reader) (model.StageResult[T], error) {
	var events []model.LogEvent
	state := StatePrompting

	for attempt := 1; state == StatePrompting; attempt++ {
		if err := ctx.Err(); err != nil {
			return model.Failure[T](events...), err
		}
		if l.MaxAttempts > 0 && attempt > l.MaxAttempts {
			return model.Failure[T](events...), fmt.Errorf("%w (%d)", ErrTooManyAttempts, l.MaxAttempts)
		}

		raw, err := r.ReadLine(ctx, l.Prompt)
		if err != nil {
			return model.Failure[T](events...), fmt.Errorf("read input: %w", err)
		}

		res := l.Parse(raw)
		for _, ev := range res.Events {
			events = append(events, ev)
			if l.OnEvent != nil {
				l.OnEvent(ev)
			}
		}
		if !res.OK {
			continue
		}

		state = StateAccepted
		res.Events = events
		return res, nil
	}

	return model.Failure[T](events...), nil
}

// LineReader reads lines from a text stream, writing the prompt first.
type LineReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader creates a LineReader over in, echoing prompts to out.
func NewLineReader(in io.Reader, out io.Writer) *LineReader {
	return &LineReader{in: bufio.NewReader(in), out: out}
}

// ReadLine implements Reader. io.EOF is returned once input is closed
// and no partial line remains.
func (r *LineReader) ReadLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if prompt != "" {
		fmt.Fprintln(r.out, prompt)
	}

	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Script is a Reader that replays fixed answers, for tests and
// non-interactive use.
type Script struct {
	Answers []string
	Prompts []string
}

// ReadLine implements Reader.
func (s *Script) ReadLine(_ context.Context, prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Answers) == 0 {
		return "", io.EOF
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}
