// Package quality adapts rendering quality to the observed frame rate.
// Four levels (low, medium, high, ultra) map to embedded presets for
// shadows, level of detail, texture scale, and geometry segments. The
// Governor samples instantaneous FPS about once per second: five
// consecutive samples below 80% of the effective target step the level
// down one rung (at the floor, shadows are disabled instead), while a
// sustained average above 120% of target steps it back up under a longer
// cooldown. Transitions always move one step.
package quality
