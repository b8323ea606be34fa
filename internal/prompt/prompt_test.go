package prompt

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/handiism/stemline/internal/model"
)

func parseYes(raw string) model.StageResult[bool] {
	if raw == "yes" {
		return model.Success(true, model.Succeeded(model.StageMode, "ok"))
	}
	return model.Failure[bool](model.Failed(model.StageMode, "again"))
}

func TestLoop_RetriesUntilAccepted(t *testing.T) {
	var seen []string
	loop := &Loop[bool]{
		Prompt:  "?",
		Parse:   parseYes,
		OnEvent: func(ev model.LogEvent) { seen = append(seen, ev.Message) },
	}
	script := &Script{Answers: []string{"no", "maybe", "yes", "unused"}}

	res, err := loop.Run(context.Background(), script)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !res.OK || !res.Payload {
		t.Fatalf("Run() = %+v, want accepted", res)
	}

	var got []string
	for _, ev := range res.Events {
		got = append(got, ev.Message)
	}
	if strings.Join(got, ",") != "again,again,ok" {
		t.Errorf("events = %v", got)
	}
	if strings.Join(seen, ",") != "again,again,ok" {
		t.Errorf("OnEvent saw %v", seen)
	}
	if len(script.Prompts) != 3 || len(script.Answers) != 1 {
		t.Errorf("prompted %d times, %d answers left", len(script.Prompts), len(script.Answers))
	}
}

func TestLoop_MaxAttempts(t *testing.T) {
	loop := &Loop[bool]{Parse: parseYes, MaxAttempts: 2}
	script := &Script{Answers: []string{"a", "b", "yes"}}

	res, err := loop.Run(context.Background(), script)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("Run() error = %v, want ErrTooManyAttempts", err)
	}
	if res.OK || len(res.Events) != 2 {
		t.Errorf("Run() = %+v", res)
	}
}

func TestLoop_InputClosed(t *testing.T) {
	loop := &Loop[bool]{Parse: parseYes}

	_, err := loop.Run(context.Background(), &Script{})
	if !errors.Is(err, io.EOF) {
		t.Errorf("Run() error = %v, want io.EOF", err)
	}
}

func TestLoop_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loop := &Loop[bool]{Parse: parseYes}
	if _, err := loop.Run(ctx, &Script{Answers: []string{"yes"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestLineReader(t *testing.T) {
	var out strings.Builder
	r := NewLineReader(strings.NewReader("first\r\nlast"), &out)

	tests := []struct {
		want    string
		wantErr error
	}{
		{"first", nil},
		{"last", nil},
		{"", io.EOF},
	}
	for _, tt := range tests {
		got, err := r.ReadLine(context.Background(), "==INSERT==LINK==")
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("ReadLine() = %q, %v, want %q, %v", got, err, tt.want, tt.wantErr)
		}
	}
	if strings.Count(out.String(), "==INSERT==LINK==\n") != 3 {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestState_String(t *testing.T) {
	if StatePrompting.String() != "PROMPTING" || StateAccepted.String() != "ACCEPTED" {
		t.Error("unexpected state names")
	}
}
