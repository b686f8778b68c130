package generation

import "errors"

// Validation errors, rejected before any network call.
var (
	ErrEmptyPrompt      = errors.New("generation: prompt cannot be empty")
	ErrMissingBaseImage = errors.New("generation: a base image is required for image-to-image")
	ErrNoPreview        = errors.New("generation: no staged preview to apply")
	ErrNoRender         = errors.New("generation: a generated render is required first")
	ErrNoStoredPrompt   = errors.New("generation: no stored prompt to regenerate")
)

// ErrGenerationFailed is the generic surface for transport failures and
// undecodable server errors; the distinction is not preserved downstream.
var ErrGenerationFailed = errors.New("generation: generation failed, please try again")

// ErrSuperseded marks a response that arrived after a newer request for the
// same concern was issued. The stale response is discarded without touching
// shared state.
var ErrSuperseded = errors.New("generation: response superseded by a newer request")
