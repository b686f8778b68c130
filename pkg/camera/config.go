package camera

import "time"

// Config holds the auto-return tuning.
type Config struct {
	// IdleDelay is how long the viewport stays untouched before the
	// return transition begins.
	IdleDelay time.Duration `env:"CAMERA_IDLE_DELAY" envDefault:"5s"`

	// ReturnDuration is the length of the eased transition back to the
	// default pose.
	ReturnDuration time.Duration `env:"CAMERA_RETURN_DURATION" envDefault:"1200ms"`

	// Home is the pose the camera returns to. Not environment-driven;
	// it is part of the scene, not the deployment.
	Home Pose `env:"-"`
}

// DefaultConfig returns the default auto-return tuning.
func DefaultConfig() Config {
	return Config{
		IdleDelay:      5 * time.Second,
		ReturnDuration: 1200 * time.Millisecond,
		Home:           DefaultPose,
	}
}

func (c Config) withDefaults() Config {
	if c.IdleDelay <= 0 {
		c.IdleDelay = 5 * time.Second
	}
	if c.ReturnDuration <= 0 {
		c.ReturnDuration = 1200 * time.Millisecond
	}
	if c.Home == (Pose{}) {
		c.Home = DefaultPose
	}
	return c
}
