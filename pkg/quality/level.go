package quality

// Level is one rung of the rendering quality ladder.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
	LevelUltra  Level = "ultra"
)

// ladder orders the levels from floor to ceiling.
var ladder = []Level{LevelLow, LevelMedium, LevelHigh, LevelUltra}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	for _, v := range ladder {
		if v == l {
			return true
		}
	}
	return false
}

// rank returns l's position on the ladder, -1 for unknown levels.
func (l Level) rank() int {
	for i, v := range ladder {
		if v == l {
			return i
		}
	}
	return -1
}

// StepDown returns the next level toward the floor. The second return is
// false at the floor.
func (l Level) StepDown() (Level, bool) {
	r := l.rank()
	if r <= 0 {
		return l, false
	}
	return ladder[r-1], true
}

// StepUp returns the next level toward the ceiling. The second return is
// false at the ceiling.
func (l Level) StepUp() (Level, bool) {
	r := l.rank()
	if r < 0 || r == len(ladder)-1 {
		return l, false
	}
	return ladder[r+1], true
}
