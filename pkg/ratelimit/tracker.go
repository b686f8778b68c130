package ratelimit

import (
	"sync"
	"time"
)

// Tier is one level of the rate-limit precedence.
type Tier string

const (
	// TierNone means no tier currently constrains the session.
	TierNone Tier = "none"
	// TierSession is the free in-session allowance.
	TierSession Tier = "session"
	// TierClient is the per-client (IP) allowance, reported by the server
	// only once the session tier is exhausted.
	TierClient Tier = "client"
	// TierGlobal is the shared service capacity.
	TierGlobal Tier = "global"
)

// Usage is a used/limit counter pair for one tier.
type Usage struct {
	Used  int
	Limit int
}

// Exhausted reports whether the tier allowance is fully consumed.
func (u Usage) Exhausted() bool {
	return u.Limit > 0 && u.Used >= u.Limit
}

// Remaining returns the unconsumed allowance, never negative.
func (u Usage) Remaining() int {
	if r := u.Limit - u.Used; r > 0 {
		return r
	}
	return 0
}

// State is a read snapshot of the tracker, consumed by presentation layers
// to decide which message tier to show.
type State struct {
	Session       Usage
	Client        *Usage
	GlobalReached bool
	RetryAfter    *time.Time
}

// Active returns the dominating tier under the fixed precedence:
// global, then client, then session.
func (s State) Active() Tier {
	switch {
	case s.GlobalReached:
		return TierGlobal
	case s.Client != nil:
		return TierClient
	case s.Session.Exhausted():
		return TierSession
	default:
		return TierNone
	}
}

// Tracker is the three-tier quota state updated from generation responses.
// It is a pure state holder: enforcement happens server-side, the tracker
// mirrors what the server reported. Updates are idempotent merges —
// supplied fields overwrite, everything else keeps its prior value.
type Tracker struct {
	mu            sync.Mutex
	session       Usage
	client        *Usage
	globalReached bool
	retryAfter    *time.Time
}

// NewTracker creates a tracker with the given session-tier limit.
func NewTracker(sessionLimit int) *Tracker {
	return &Tracker{session: Usage{Limit: sessionLimit}}
}

// RecordSuccess counts one accepted generation against the session tier.
// Called exactly once per accepted request, never per retry. A success also
// clears the global-capacity flag and any retry-after hint — this is the
// only way the global flag clears.
func (t *Tracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Used++
	t.globalReached = false
	t.retryAfter = nil
}

// ApplyQuota merges the quota block of a successful generation response.
// remaining/limit describe the session tier; ipUsed updates the client tier
// only when the server has previously surfaced it.
func (t *Tracker) ApplyQuota(remaining, limit, ipUsed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit > 0 {
		t.session.Limit = limit
		if used := limit - remaining; used >= 0 {
			t.session.Used = used
		}
	}
	if t.client != nil && ipUsed > 0 {
		t.client.Used = ipUsed
	}
}

// ApplyClientLimit records a per-client limit rejection: both counters are
// set to the reported limit, signaling full exhaustion.
func (t *Tracker) ApplyClientLimit(limit int, retryAfter *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.client = &Usage{Used: limit, Limit: limit}
	if retryAfter != nil {
		at := *retryAfter
		t.retryAfter = &at
	}
}

// ApplyGlobalLimit records that the shared service capacity is reached. The
// flag persists until the next successful generation.
func (t *Tracker) ApplyGlobalLimit(retryAfter *time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.globalReached = true
	if retryAfter != nil {
		at := *retryAfter
		t.retryAfter = &at
	}
}

// State returns a snapshot of the tracker.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := State{
		Session:       t.session,
		GlobalReached: t.globalReached,
	}
	if t.client != nil {
		c := *t.client
		out.Client = &c
	}
	if t.retryAfter != nil {
		at := *t.retryAfter
		out.RetryAfter = &at
	}
	return out
}

// Reset clears all tiers back to a fresh session allowance.
func (t *Tracker) Reset(sessionLimit int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.session = Usage{Limit: sessionLimit}
	t.client = nil
	t.globalReached = false
	t.retryAfter = nil
}
