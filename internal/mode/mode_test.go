package mode

import (
	"context"
	"testing"

	"github.com/handiism/stemline/internal/model"
	"github.com/handiism/stemline/internal/prompt"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   model.Mode
		wantOK bool
	}{
		{"1", model.ModeBasic, true},
		{"2", model.ModeComplex, true},
		{" 2\t", model.ModeComplex, true},
		{"", "", false},
		{"3", "", false},
		{"0", "", false},
		{"12", "", false},
		{"basic", "", false},
		{"one", "", false},
		{"1)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			res := Parse(tt.raw)
			if res.OK != tt.wantOK || res.Payload != tt.want {
				t.Fatalf("Parse(%q) = %v %q, want %v %q", tt.raw, res.OK, res.Payload, tt.wantOK, tt.want)
			}
			if len(res.Events) != 1 {
				t.Fatalf("Parse(%q) events = %d, want 1", tt.raw, len(res.Events))
			}
			if !tt.wantOK && res.Events[0].Message != MsgRejected {
				t.Errorf("rejection message = %q", res.Events[0].Message)
			}
		})
	}
}

func TestParse_AcceptedMessage(t *testing.T) {
	if got := Parse("2").Events[0].Message; got != "Mode : Complex" {
		t.Errorf("message = %q", got)
	}
}

func TestSelect_StopsAtFirstValidToken(t *testing.T) {
	script := &prompt.Script{Answers: []string{"x", "9", "1", "2"}}

	res, err := Select(context.Background(), script, 0, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Payload != model.ModeBasic {
		t.Errorf("mode = %q, want basic", res.Payload)
	}
	if len(script.Answers) != 1 {
		t.Errorf("prompted past the accepted answer, %d left", len(script.Answers))
	}
	if len(res.Events) != 3 || !res.Events[0].IsFailure() || !res.Events[1].IsFailure() || res.Events[2].IsFailure() {
		t.Errorf("events = %+v", res.Events)
	}
}
