package statemachine

import (
	"context"
)

// State is a named state in a machine.
type State interface {
	Name() string
}

// Event is a named trigger for a state transition.
type Event interface {
	Name() string
}

// Action runs side effects during a transition. A returned error aborts the
// transition and leaves the machine in its current state.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard decides at fire time whether a transition may proceed.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Transition is a state change triggered by an event, with optional guards
// and actions.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

// StateMachine is the finite state machine contract shared by the camera
// auto-return controller and the generation request lifecycle.
type StateMachine interface {
	Current() State
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	Reset() error
}

// StringState is a string-backed State for machines whose states carry no
// extra data.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent is a string-backed Event.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
