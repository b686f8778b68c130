// Package session assembles the configurator core: each Session owns the
// design store, generation orchestrator, rate-limit tracker, camera
// auto-return controller, interaction tracker, quality governor,
// engagement scorer, and event bus, wired at construction. The Manager
// issues sessions keyed by opaque tokens against a Store; MemoryStore is
// the in-process implementation with TTL eviction and a periodic sweep.
//
// The session bridges its sub-states: design mutations mark engagement
// categories and publish design.changed events, orchestrator and
// controller notifications land on the bus, and the drag/zoom helpers
// route interaction starts to the camera interrupt and ends to the
// auto-return countdown.
package session
