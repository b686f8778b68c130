package quality

import (
	"log/slog"
	"sync"
	"time"

	"github.com/prietto/mugforge/pkg/logger"
	"github.com/prietto/mugforge/pkg/timekit"
)

// Direction labels a quality change.
type Direction string

const (
	DirectionDegrade Direction = "degrade"
	DirectionUpgrade Direction = "upgrade"
)

// Decision is the outcome of one Sample call.
type Decision struct {
	Changed   Direction
	Level     Level
	ShadowOff bool
}

// Settings is the effective rendering parameter set: the active preset
// with the governor's shadow override applied.
type Settings struct {
	Level Level
	Preset
}

// Option configures a Governor.
type Option func(*Governor)

func WithClock(clock timekit.Clock) Option {
	return func(g *Governor) {
		if clock != nil {
			g.clock = clock
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(g *Governor) {
		if log != nil {
			g.log = log
		}
	}
}

// WithAdjusted registers a callback invoked after every quality change.
func WithAdjusted(fn func(Decision)) Option {
	return func(g *Governor) {
		if fn != nil {
			g.onAdjusted = fn
		}
	}
}

// Governor adapts rendering quality to the observed frame rate. The render
// loop feeds it one Sample per second; the governor keeps a rolling
// frame-time window, counts consecutive low samples, and steps the quality
// level one rung at a time under two named cooldown deadlines
// (nextDecisionAt for any change, nextUpgradeAt for upgrades only).
type Governor struct {
	mu         sync.Mutex
	clock      timekit.Clock
	log        *slog.Logger
	onAdjusted func(Decision)
	cfg        Config

	window      *FrameWindow
	level       Level
	shadowOff   bool
	constrained bool
	lowStreak   int

	nextDecisionAt time.Time
	nextUpgradeAt  time.Time
	noticeUntil    time.Time
}

// NewGovernor creates a governor at the configured initial level.
func NewGovernor(cfg Config, opts ...Option) *Governor {
	cfg = cfg.withDefaults()
	g := &Governor{
		clock:      timekit.NewClock(),
		log:        slog.Default(),
		onAdjusted: func(Decision) {},
		cfg:        cfg,
		window:     NewFrameWindow(cfg.WindowSize),
		level:      cfg.InitialLevel,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Level returns the active quality level.
func (g *Governor) Level() Level {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level
}

// Settings returns the effective rendering parameters.
func (g *Governor) Settings() Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settingsLocked()
}

func (g *Governor) settingsLocked() Settings {
	preset := PresetFor(g.level)
	if g.shadowOff {
		preset.Shadows = false
	}
	return Settings{Level: g.level, Preset: preset}
}

// SetConstrained flags split-screen mode, which lowers the effective
// target frame rate.
func (g *Governor) SetConstrained(constrained bool) {
	g.mu.Lock()
	g.constrained = constrained
	g.mu.Unlock()
}

// Constrained reports whether the viewport is in constrained mode.
func (g *Governor) Constrained() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.constrained
}

// Target returns the effective FPS target.
func (g *Governor) Target() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.targetLocked()
}

func (g *Governor) targetLocked() float64 {
	if g.constrained {
		return g.cfg.ConstrainedTargetFPS
	}
	return g.cfg.TargetFPS
}

// LowStreak returns the consecutive-low sample count.
func (g *Governor) LowStreak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lowStreak
}

// NoticeActive reports whether the transient "quality adjusted" notice is
// still up.
func (g *Governor) NoticeActive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clock.Now().Before(g.noticeUntil)
}

// Sample feeds one instantaneous FPS reading, nominally once per second
// from the render loop. It updates the rolling window and the low-sample
// streak, then evaluates the degrade/upgrade policy. The returned Decision
// has an empty Changed direction when nothing changed.
func (g *Governor) Sample(fps float64) Decision {
	g.mu.Lock()

	if fps > 0 {
		g.window.Record(time.Duration(float64(time.Second) / fps))
	}

	target := g.targetLocked()
	if fps < 0.8*target {
		g.lowStreak++
	} else {
		g.lowStreak = 0
	}

	now := g.clock.Now()
	none := Decision{Level: g.level, ShadowOff: g.shadowOff}

	if now.Before(g.nextDecisionAt) {
		g.mu.Unlock()
		return none
	}

	if g.lowStreak >= g.cfg.DegradeStreak {
		return g.degradeLocked(now)
	}

	if g.lowStreak == 0 && !now.Before(g.nextUpgradeAt) && g.window.AverageFPS() > 1.2*target {
		return g.upgradeLocked(now)
	}

	g.mu.Unlock()
	return none
}

// degradeLocked steps down one rung, or disables shadows at the floor.
// Releases the mutex.
func (g *Governor) degradeLocked(now time.Time) Decision {
	if down, ok := g.level.StepDown(); ok {
		g.level = down
	} else if !g.shadowOff {
		g.shadowOff = true
	} else {
		// Floor with shadows already off: nothing left to shed.
		g.mu.Unlock()
		return Decision{Level: g.level, ShadowOff: g.shadowOff}
	}

	g.lowStreak = 0
	g.nextDecisionAt = now.Add(g.cfg.DecisionCooldown)
	g.nextUpgradeAt = now.Add(g.cfg.UpgradeCooldown)
	g.noticeUntil = now.Add(g.cfg.NoticeDuration)

	decision := Decision{Changed: DirectionDegrade, Level: g.level, ShadowOff: g.shadowOff}
	notify := g.onAdjusted
	g.mu.Unlock()

	g.log.Debug("quality degraded", logger.QualityLevel(string(decision.Level)), slog.Bool("shadows_off", decision.ShadowOff))
	notify(decision)
	return decision
}

// upgradeLocked re-enables shadows first, then steps up one rung.
// Releases the mutex.
func (g *Governor) upgradeLocked(now time.Time) Decision {
	if g.shadowOff {
		g.shadowOff = false
	} else if up, ok := g.level.StepUp(); ok {
		g.level = up
	} else {
		g.mu.Unlock()
		return Decision{Level: g.level, ShadowOff: g.shadowOff}
	}

	g.nextDecisionAt = now.Add(g.cfg.DecisionCooldown)
	g.nextUpgradeAt = now.Add(g.cfg.UpgradeCooldown)

	decision := Decision{Changed: DirectionUpgrade, Level: g.level, ShadowOff: g.shadowOff}
	notify := g.onAdjusted
	g.mu.Unlock()

	g.log.Debug("quality upgraded", logger.QualityLevel(string(decision.Level)))
	notify(decision)
	return decision
}
