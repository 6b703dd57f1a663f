package gateway

import (
	"errors"
	"fmt"
)

// Op names a gateway operation. At most one call per Op is in flight.
type Op string

const (
	OpGenerateQuiz   Op = "generate-quiz"
	OpAnalyzeResults Op = "analyze-results"
	OpTopicSummary   Op = "topic-summary"
	OpAskAgent       Op = "ask-agent"
)

var (
	// ErrInFlight is returned when a call of the same kind is already
	// running. Nothing is sent to the model.
	ErrInFlight = errors.New("request already in flight")

	// ErrEmptyTopic is returned by GetTopicSummary for a blank topic.
	ErrEmptyTopic = errors.New("topic is required")
)

// Error wraps a failed gateway operation.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
