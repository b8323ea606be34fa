package model

import "time"

// Stage names the pipeline step an event belongs to.
type Stage string

const (
	StageEnvironment Stage = "environment"
	StageLink        Stage = "link"
	StageDownload    Stage = "download"
	StageMode        Stage = "mode"
	StageSeparation  Stage = "separation"
	StageReport      Stage = "report"
)

// Stages lists the stages in pipeline order.
var Stages = []Stage{StageEnvironment, StageLink, StageDownload, StageMode, StageSeparation, StageReport}

// Outcome tags an event as a success or a failure.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// LogEvent is one immutable record of something a stage did.
//
// Source groups events inside a stage, for example the download method
// that produced them. Detail marks trace lines that are only surfaced
// when the run fails.
type LogEvent struct {
	Stage   Stage     `yaml:"stage"`
	Outcome Outcome   `yaml:"outcome"`
	Message string    `yaml:"message"`
	Time    time.Time `yaml:"time"`
	Source  string    `yaml:"source,omitempty"`
	Detail  bool      `yaml:"detail,omitempty"`
}

// Now is the clock used to stamp events.
var Now = time.Now

// NewEvent creates an event stamped with the current time.
func NewEvent(stage Stage, outcome Outcome, message string) LogEvent {
	return LogEvent{Stage: stage, Outcome: outcome, Message: message, Time: Now()}
}

// Succeeded creates a success event.
func Succeeded(stage Stage, message string) LogEvent {
	return NewEvent(stage, OutcomeSuccess, message)
}

// Failed creates a failure event.
func Failed(stage Stage, message string) LogEvent {
	return NewEvent(stage, OutcomeFailure, message)
}

// From returns a copy of the event attributed to source.
func (e LogEvent) From(source string) LogEvent {
	e.Source = source
	return e
}

// AsDetail returns a copy of the event marked as trace detail.
func (e LogEvent) AsDetail() LogEvent {
	e.Detail = true
	return e
}

// IsFailure reports whether the event records a failure.
func (e LogEvent) IsFailure() bool {
	return e.Outcome == OutcomeFailure
}

// StageResult is the return contract of every pipeline stage.
//
// A stage with OK set to false has applied nothing; Payload is then the
// zero value and Events explain why.
type StageResult[T any] struct {
	OK      bool
	Payload T
	Events  []LogEvent
}

// Success builds an accepted result.
func Success[T any](payload T, events ...LogEvent) StageResult[T] {
	return StageResult[T]{OK: true, Payload: payload, Events: events}
}

// Failure builds a rejected result.
func Failure[T any](events ...LogEvent) StageResult[T] {
	return StageResult[T]{Events: events}
}
