package camera

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prietto/mugforge/pkg/statemachine"
	"github.com/prietto/mugforge/pkg/timekit"
)

// Auto-return phases.
const (
	StateIdle      = statemachine.StringState("idle")
	StateArmed     = statemachine.StringState("armed")
	StateReturning = statemachine.StringState("returning")

	eventArm       = statemachine.StringEvent("arm")
	eventTimeout   = statemachine.StringEvent("timeout")
	eventInterrupt = statemachine.StringEvent("interrupt")
	eventComplete  = statemachine.StringEvent("complete")
)

func newAutoReturnMachine() statemachine.StateMachine {
	return statemachine.MustNew(StateIdle,
		statemachine.WithTransition(StateIdle, StateArmed, eventArm),
		statemachine.WithTransition(StateArmed, StateArmed, eventArm),
		statemachine.WithTransition(StateArmed, StateReturning, eventTimeout),
		statemachine.WithTransition(StateReturning, StateIdle, eventComplete),
		statemachine.WithTransition(StateIdle, StateIdle, eventInterrupt),
		statemachine.WithTransition(StateArmed, StateIdle, eventInterrupt),
		statemachine.WithTransition(StateReturning, StateIdle, eventInterrupt),
	)
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(clock timekit.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithReturned registers a callback invoked when a return transition
// completes. Fire-and-forget: the controller never waits on it.
func WithReturned(fn func()) Option {
	return func(c *Controller) {
		if fn != nil {
			c.onReturned = fn
		}
	}
}

// Controller returns the viewport camera to the home pose after a period
// of inactivity. Arm starts the idle countdown; any interaction start
// interrupts both the countdown and an in-progress return, which never
// resumes. The render loop drives the eased transition through Tick.
//
// At most one timer handle exists at any instant: Arm cancels the prior
// handle before scheduling a new one.
type Controller struct {
	mu         sync.Mutex
	clock      timekit.Clock
	log        *slog.Logger
	onReturned func()
	cfg        Config
	machine    statemachine.StateMachine

	pose      Pose
	animating bool
	handle    *timekit.Handle

	// return transition parameters, valid while in StateReturning
	from      Pose
	startedAt time.Time
}

// NewController creates a controller resting at the home pose.
func NewController(cfg Config, opts ...Option) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		clock:      timekit.NewClock(),
		log:        slog.Default(),
		onReturned: func() {},
		cfg:        cfg,
		machine:    newAutoReturnMachine(),
		pose:       cfg.Home,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the snapshot the rendering surface reads every frame.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Pose: c.pose, Animating: c.animating}
}

// Pose returns the current camera pose.
func (c *Controller) Pose() Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

// SetPose records the pose the visitor manipulated the camera into. While
// a return transition is in progress external writes are ignored; the
// interaction that moves the camera interrupts the transition first.
func (c *Controller) SetPose(p Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine.Current() == StateReturning {
		return
	}
	c.pose = p
}

// Phase returns the auto-return phase (idle, armed, or returning).
func (c *Controller) Phase() statemachine.State {
	return c.machine.Current()
}

// Arm starts (or restarts) the idle countdown. Any pending timer is
// cancelled first, so re-arming on every interaction end is safe.
func (c *Controller) Arm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.Current() == StateReturning {
		// A return is already in progress; arming would double-drive it.
		return
	}

	c.handle.Cancel()
	if err := c.machine.Fire(context.Background(), eventArm, nil); err != nil {
		return
	}
	c.handle = c.clock.AfterFunc(c.cfg.IdleDelay, c.beginReturn)
}

// Interrupt reacts to an interaction start: the countdown is cancelled, an
// in-progress return is aborted at its current pose, and the controller
// goes back to idle. An interrupted return never resumes.
func (c *Controller) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handle.Cancel()
	c.handle = nil
	c.animating = false
	_ = c.machine.Fire(context.Background(), eventInterrupt, nil)
}

// beginReturn runs on timer expiry: capture the transition start pose and
// hand the rest to Tick.
func (c *Controller) beginReturn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.machine.Fire(context.Background(), eventTimeout, nil); err != nil {
		// An interrupt won the race with the timer firing.
		return
	}
	c.from = c.pose
	c.startedAt = c.clock.Now()
	c.animating = true
	c.handle = nil
}

// Tick advances an in-progress return transition. The render loop calls it
// every frame; outside a return it is a no-op. It reports whether the
// transition completed on this call.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	if c.machine.Current() != StateReturning {
		c.mu.Unlock()
		return false
	}

	progress := float64(now.Sub(c.startedAt)) / float64(c.cfg.ReturnDuration)
	if progress < 0 {
		progress = 0
	}
	if progress >= 1 {
		c.pose = c.cfg.Home
		c.animating = false
		_ = c.machine.Fire(context.Background(), eventComplete, nil)
		done := c.onReturned
		c.mu.Unlock()

		done()
		return true
	}

	c.pose = c.from.Lerp(c.cfg.Home, easeInOutCubic(progress))
	c.mu.Unlock()
	return false
}
