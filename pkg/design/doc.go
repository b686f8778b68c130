// Package design holds the Design Record — the mutable customization state
// for one mug — and the store that guards it.
//
// The store is the single mutation entry point: one method per concern plus
// a non-destructive bulk Update, per-field resets, and a full Reset that
// reassigns identity. Mutations are atomic, every mutation refreshes the
// modification timestamp, and listeners receive post-mutation snapshots so
// the rendering surface never observes a half-applied update.
//
// MultiViewSet carries the alternate camera-angle renders for a design; a
// non-empty set is always anchored by the front view and holds each angle
// at most once.
package design
