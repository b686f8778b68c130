package design

import "errors"

var (
	// ErrMissingFrontView indicates a multi-view set was started without
	// its front anchor.
	ErrMissingFrontView = errors.New("design: multi-view set requires a front view anchor")

	// ErrUnknownAngle indicates a view angle outside front/side/handle.
	ErrUnknownAngle = errors.New("design: unknown view angle")

	// ErrEmptyViewURL indicates a view without an image reference.
	ErrEmptyViewURL = errors.New("design: view url cannot be empty")
)
