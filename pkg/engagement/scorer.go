package engagement

import (
	"sync"
	"time"

	"github.com/prietto/mugforge/pkg/timekit"
)

// Category is one customization concern that contributes to the score.
type Category string

const (
	CategoryColor     Category = "color"
	CategoryText      Category = "text"
	CategoryImage     Category = "image"
	CategoryRender    Category = "render"
	CategoryMultiView Category = "multi_view"
)

// Scoring weights. Category flags dominate; interaction volume and dwell
// time top the score up without ever pushing it past 100.
const (
	categoryWeight      = 15
	interactionsPerUnit = 4
	interactionCap      = 15
	dwellUnit           = 30 * time.Second
	dwellCap            = 10
	maxScore            = 100
)

// Data is a snapshot of the engagement state.
type Data struct {
	Flags        map[Category]bool
	Interactions int
	TimeSpent    time.Duration
	Score        int
}

// Scorer accumulates customization and interaction signals into a bounded
// score. The score is recomputed on every tracked event, clamped to
// [0,100], and never decreases except on Reset.
type Scorer struct {
	mu           sync.Mutex
	clock        timekit.Clock
	startedAt    time.Time
	flags        map[Category]bool
	interactions int
	score        int
}

// NewScorer creates a scorer; dwell time counts from construction.
func NewScorer(clock timekit.Clock) *Scorer {
	if clock == nil {
		clock = timekit.NewClock()
	}
	return &Scorer{
		clock:     clock,
		startedAt: clock.Now(),
		flags:     make(map[Category]bool),
	}
}

// Mark records that a customization category was touched.
func (s *Scorer) Mark(cat Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[cat] = true
	s.recompute()
}

// RecordInteraction counts one pointer/wheel interaction.
func (s *Scorer) RecordInteraction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions++
	s.recompute()
}

// Score returns the current score.
func (s *Scorer) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Snapshot returns a copy of the engagement state.
func (s *Scorer) Snapshot() Data {
	s.mu.Lock()
	defer s.mu.Unlock()

	flags := make(map[Category]bool, len(s.flags))
	for k, v := range s.flags {
		flags[k] = v
	}
	return Data{
		Flags:        flags,
		Interactions: s.interactions,
		TimeSpent:    s.clock.Now().Sub(s.startedAt),
		Score:        s.score,
	}
}

// Reset clears all signals and restarts the dwell timer. This is the only
// way the score can go down.
func (s *Scorer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = make(map[Category]bool)
	s.interactions = 0
	s.score = 0
	s.startedAt = s.clock.Now()
}

// recompute derives the score from flags, interaction volume, and dwell
// time. Monotonicity: a lower derived value never replaces a higher score.
func (s *Scorer) recompute() {
	score := 0
	for _, set := range s.flags {
		if set {
			score += categoryWeight
		}
	}

	score += min(s.interactions/interactionsPerUnit, interactionCap)

	dwell := int(s.clock.Now().Sub(s.startedAt) / dwellUnit)
	score += min(dwell, dwellCap)

	if score > maxScore {
		score = maxScore
	}
	if score > s.score {
		s.score = score
	}
}
