package main

import (
	"context"
	"errors"
	"testing"

	"github.com/handiism/stemline/internal/pipeline"
)

func TestRunError(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	boom := errors.New("config unreadable")

	tests := []struct {
		name    string
		ctx     context.Context
		outcome *pipeline.Outcome
		err     error
		want    error
		code    int
	}{
		{name: "success", ctx: context.Background(), outcome: &pipeline.Outcome{Success: true}, code: 0},
		{name: "failed run", ctx: context.Background(), outcome: &pipeline.Outcome{}, want: errRunFailed, code: 1},
		{name: "infrastructure error", ctx: context.Background(), err: boom, want: boom, code: 1},
		{name: "interrupted during a stage", ctx: cancelled, outcome: &pipeline.Outcome{}, want: context.Canceled, code: 130},
		{name: "interrupted at a prompt", ctx: cancelled, err: context.Canceled, want: context.Canceled, code: 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runError(tt.ctx, tt.outcome, tt.err)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("runError() = %v, want %v", err, tt.want)
			}
			if got := exitCode(err); got != tt.code {
				t.Errorf("exitCode() = %d, want %d", got, tt.code)
			}
		})
	}
}
