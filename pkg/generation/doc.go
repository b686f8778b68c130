// Package generation orchestrates AI texture and render generation for a
// configurator session. The Orchestrator owns the mode, prompt, staged
// preview, and staged render; it calls the generation endpoint, commits
// successful results into the design store, and folds rate-limit rejections
// into the ratelimit tracker.
//
// Switching modes clears exactly the fields invalid for the destination
// mode and always preserves the prompt. Overlapping requests are allowed:
// each request carries a monotonic per-concern token, and a response with a
// stale token is discarded with ErrSuperseded. The texture and multi-view
// concerns keep independent last-error slots that clear on the next attempt
// of the same concern or an explicit dismiss.
package generation
