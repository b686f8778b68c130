package camera

// Vec3 is a point or direction in viewport space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Lerp returns the linear interpolation between v and to at t.
func (v Vec3) Lerp(to Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (to.X-v.X)*t,
		Y: v.Y + (to.Y-v.Y)*t,
		Z: v.Z + (to.Z-v.Z)*t,
	}
}

// Pose is a camera position plus its look-at target.
type Pose struct {
	Position Vec3 `json:"position"`
	Target   Vec3 `json:"target"`
}

// Lerp interpolates both position and target toward to at t.
func (p Pose) Lerp(to Pose, t float64) Pose {
	return Pose{
		Position: p.Position.Lerp(to.Position, t),
		Target:   p.Target.Lerp(to.Target, t),
	}
}

// DefaultPose is the resting viewpoint the auto-return eases back to: a
// three-quarter view of the mug, looking at the body center.
var DefaultPose = Pose{
	Position: Vec3{X: 3, Y: 2, Z: 5},
	Target:   Vec3{Y: 0.5},
}

// State is the camera snapshot the rendering surface reads every frame.
type State struct {
	Pose      Pose
	Animating bool
}

// easeInOutCubic is the symmetric cubic ease: accelerate to the midpoint,
// decelerate to the end. t is expected in [0,1].
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	d := -2*t + 2
	return 1 - d*d*d/2
}
