// Package ratelimit tracks the three-tier generation quota for one
// session: the in-session allowance, the per-client (IP) allowance the
// server surfaces once the session tier is spent, and the shared global
// capacity flag.
//
// The tracker enforces nothing — the generation endpoint does — it mirrors
// server responses so presentation layers can pick the right message tier.
// Precedence is fixed: global dominates, then client, then session. The
// global flag, once set, persists until the next successful generation.
package ratelimit
