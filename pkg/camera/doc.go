// Package camera holds the viewport camera state and the auto-return
// control loop. After a configurable idle delay the Controller eases the
// camera from wherever the visitor left it back to the home pose, using a
// symmetric cubic ease over position and look-at target. Interaction
// starts interrupt both the countdown and an in-progress return; an
// interrupted return never resumes.
//
// The InteractionTracker records gesture flags and the last-interaction
// timestamp; the session facade bridges its begin/end events to
// Controller.Interrupt and Controller.Arm.
package camera
