// Package timekit provides the clock and timer primitives shared by the
// session controllers.
//
// A Clock issues wall-clock reads and single-shot timers; a Handle wraps a
// pending timer with an idempotent Cancel. Components that arm timers keep
// exactly one Handle and cancel it before re-arming, which makes
// "at most one pending timer" a structural property rather than a
// convention.
//
// FakeClock implements Clock for tests: Advance fires due timers
// synchronously in deadline order, so idle-delay and cooldown behavior can
// be asserted without sleeping.
package timekit
