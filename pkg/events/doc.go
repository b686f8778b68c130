// Package events is the fire-and-forget event bus between the session core
// and its observers (analytics sink, UI listeners).
//
// State mutators and controllers publish domain Events; delivery is
// non-blocking and best-effort. A subscriber that cannot keep up is
// detached rather than ever stalling a mutation or a controller tick, which
// keeps the render loop independent of any downstream consumer.
package events
