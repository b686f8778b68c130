// Package engagement scores how invested a visitor is in the current
// customization session. Category flags, interaction volume, and dwell time
// roll up into a single bounded score consumed by downstream analytics and
// UI gating. The score is clamped to [0,100] and monotonically
// non-decreasing until an explicit reset.
package engagement
