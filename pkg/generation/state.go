package generation

import (
	"github.com/prietto/mugforge/pkg/statemachine"
)

// Mode is the active generation strategy for the session.
type Mode string

const (
	// ModeManual means the visitor uploads artwork directly.
	ModeManual Mode = "manual"
	// ModeTextToImage generates a texture from a prompt.
	ModeTextToImage Mode = "text-to-image"
	// ModeImageToImage restyles an uploaded base image.
	ModeImageToImage Mode = "image-to-image"
)

// Concern separates the two last-error slots and request-token streams.
type Concern string

const (
	ConcernTexture   Concern = "texture"
	ConcernMultiView Concern = "multi_view"
)

// Request lifecycle states and events.
const (
	StateIdle       = statemachine.StringState("idle")
	StateRequesting = statemachine.StringState("requesting")

	eventStart   = statemachine.StringEvent("start")
	eventSucceed = statemachine.StringEvent("succeed")
	eventFail    = statemachine.StringEvent("fail")
)

// newLifecycle builds the request lifecycle machine. Overlapping requests
// are permitted (start self-loops on requesting); a terminal event always
// lands in idle, so the in-flight flag clears on every terminal branch even
// when a stale completion arrives after the flag already cleared.
func newLifecycle() statemachine.StateMachine {
	return statemachine.MustNew(StateIdle,
		statemachine.WithTransition(StateIdle, StateRequesting, eventStart),
		statemachine.WithTransition(StateRequesting, StateRequesting, eventStart),
		statemachine.WithTransition(StateRequesting, StateIdle, eventSucceed),
		statemachine.WithTransition(StateRequesting, StateIdle, eventFail),
		statemachine.WithTransition(StateIdle, StateIdle, eventSucceed),
		statemachine.WithTransition(StateIdle, StateIdle, eventFail),
	)
}

// State is a read snapshot of the generation session for presentation.
type State struct {
	Mode           Mode
	Prompt         string
	BaseImage      string
	Preview        string
	Render         string
	RenderPrompt   string
	Attempts       int
	InFlight       bool
	LastError      error
	MultiViewError error
}
