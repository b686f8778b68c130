package quality

import "time"

// Config holds the governor tuning.
type Config struct {
	// TargetFPS is the frame rate the governor steers toward.
	TargetFPS float64 `env:"QUALITY_TARGET_FPS" envDefault:"60"`

	// ConstrainedTargetFPS replaces TargetFPS while the viewport is in
	// constrained (split-screen) mode.
	ConstrainedTargetFPS float64 `env:"QUALITY_CONSTRAINED_TARGET_FPS" envDefault:"30"`

	// WindowSize is the frame-time window capacity in samples.
	WindowSize int `env:"QUALITY_WINDOW_SIZE" envDefault:"60"`

	// DegradeStreak is how many consecutive low samples trigger a degrade.
	DegradeStreak int `env:"QUALITY_DEGRADE_STREAK" envDefault:"5"`

	// DecisionCooldown is the minimum gap between any two quality changes.
	DecisionCooldown time.Duration `env:"QUALITY_DECISION_COOLDOWN" envDefault:"3s"`

	// UpgradeCooldown is the longer gap required before stepping up,
	// biasing the governor toward stability over responsiveness.
	UpgradeCooldown time.Duration `env:"QUALITY_UPGRADE_COOLDOWN" envDefault:"10s"`

	// NoticeDuration is how long the "quality adjusted" notice stays up
	// after a degrade.
	NoticeDuration time.Duration `env:"QUALITY_NOTICE_DURATION" envDefault:"5s"`

	// InitialLevel is the level a fresh session starts at.
	InitialLevel Level `env:"QUALITY_INITIAL_LEVEL" envDefault:"high"`
}

// DefaultConfig returns the default governor tuning.
func DefaultConfig() Config {
	return Config{
		TargetFPS:            60,
		ConstrainedTargetFPS: 30,
		WindowSize:           60,
		DegradeStreak:        5,
		DecisionCooldown:     3 * time.Second,
		UpgradeCooldown:      10 * time.Second,
		NoticeDuration:       5 * time.Second,
		InitialLevel:         LevelHigh,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TargetFPS <= 0 {
		c.TargetFPS = d.TargetFPS
	}
	if c.ConstrainedTargetFPS <= 0 {
		c.ConstrainedTargetFPS = d.ConstrainedTargetFPS
	}
	if c.WindowSize < 1 {
		c.WindowSize = d.WindowSize
	}
	if c.DegradeStreak < 1 {
		c.DegradeStreak = d.DegradeStreak
	}
	if c.DecisionCooldown <= 0 {
		c.DecisionCooldown = d.DecisionCooldown
	}
	if c.UpgradeCooldown <= 0 {
		c.UpgradeCooldown = d.UpgradeCooldown
	}
	if c.NoticeDuration <= 0 {
		c.NoticeDuration = d.NoticeDuration
	}
	if !c.InitialLevel.Valid() {
		c.InitialLevel = d.InitialLevel
	}
	return c
}
