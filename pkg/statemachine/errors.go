package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("statemachine: from, to, and event must be non-nil")
	ErrInvalidEvent      = errors.New("statemachine: event cannot be nil")
)

// ErrNoTransition indicates no transition is defined for the current
// state/event pair.
type ErrNoTransition struct {
	StateName string
	EventName string
}

func (e *ErrNoTransition) Error() string {
	return fmt.Sprintf("no transition from state %q for event %q", e.StateName, e.EventName)
}

func NewErrNoTransition(stateName, eventName string) *ErrNoTransition {
	return &ErrNoTransition{StateName: stateName, EventName: eventName}
}

// ErrTransitionRejected indicates every candidate transition was blocked by
// a guard.
type ErrTransitionRejected struct {
	StateName string
	EventName string
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("transition from state %q for event %q rejected by guards", e.StateName, e.EventName)
}

func NewErrTransitionRejected(stateName, eventName string) *ErrTransitionRejected {
	return &ErrTransitionRejected{StateName: stateName, EventName: eventName}
}

// IsNoTransition reports whether err means the transition is undefined, as
// opposed to defined but guarded off.
func IsNoTransition(err error) bool {
	var e *ErrNoTransition
	return errors.As(err, &e)
}

// IsTransitionRejected reports whether err means guards blocked an otherwise
// valid transition.
func IsTransitionRejected(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
