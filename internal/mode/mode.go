// Package mode implements the separation mode checkpoint.
package mode

import (
	"context"
	"strings"

	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/prompt"
)

// MsgRejected is recorded for any input other than "1" or "2".
const MsgRejected = "This is not valid, try again"

// Menu is shown before each read.
var Menu = strings.Join([]string{
	"Choose stem separation:",
	"  1) " + model.ModeBasic.Label(),
	"  2) " + model.ModeComplex.Label(),
	"Enter 1 or 2:",
}, "\n")

// Parse maps the literal tokens "1" and "2" to a mode.
func Parse(raw string) model.StageResult[model.Mode] {
	var m model.Mode
	switch strings.TrimSpace(raw) {
	case "1":
		m = model.ModeBasic
	case "2":
		m = model.ModeComplex
	default:
		return model.Failure[model.Mode](model.Failed(model.StageMode, MsgRejected))
	}
	return model.Success(m, model.Succeeded(model.StageMode, "Mode : "+m.Title()))
}

// Select blocks until "1" or "2" is entered. maxAttempts of 0 re-prompts
// forever; onEvent, if set, sees each attempt's event as it happens.
func Select(ctx context.Context, r prompt.Reader, maxAttempts int, onEvent func(model.LogEvent)) (model.StageResult[model.Mode], error) {
	loop := &prompt.Loop[model.Mode]{
		Prompt:      Menu,
		Parse:       Parse,
		MaxAttempts: maxAttempts,
		OnEvent:     onEvent,
	}
	return loop.Run(ctx, r)
}
