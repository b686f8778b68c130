// Package statemachine implements the guarded finite state machine backing
// the camera auto-return controller and the generation request lifecycle.
//
// States and events are minimal named interfaces; StringState and
// StringEvent cover the common case. Transitions are registered at
// construction time through functional options and may carry Guards
// (evaluated at fire time, first passing candidate wins) and Actions
// (executed before the state changes; an action error aborts the
// transition).
//
// Machines are safe for concurrent use. The error surface distinguishes the
// two cases callers branch on: an undefined transition (IsNoTransition) and
// a transition blocked by guards (IsTransitionRejected).
package statemachine
