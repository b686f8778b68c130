package quality_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prietto/mugforge/pkg/quality"
	"github.com/prietto/mugforge/pkg/timekit"
)

func newGovernor(t *testing.T, initial quality.Level, opts ...quality.Option) (*quality.Governor, *timekit.FakeClock) {
	t.Helper()
	clock := timekit.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cfg := quality.DefaultConfig()
	cfg.InitialLevel = initial
	opts = append([]quality.Option{quality.WithClock(clock)}, opts...)
	return quality.NewGovernor(cfg, opts...), clock
}

// sampleLow feeds n low samples one second apart, returning the last
// decision.
func sampleLow(g *quality.Governor, clock *timekit.FakeClock, n int) quality.Decision {
	var d quality.Decision
	for i := 0; i < n; i++ {
		clock.Advance(time.Second)
		d = g.Sample(20)
	}
	return d
}

func TestGovernor_Degrade(t *testing.T) {
	t.Parallel()

	t.Run("five consecutive low samples step down exactly one level", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelHigh)

		for i := 0; i < 4; i++ {
			clock.Advance(time.Second)
			d := g.Sample(20)
			assert.Empty(t, d.Changed)
		}
		assert.Equal(t, 4, g.LowStreak())

		clock.Advance(time.Second)
		d := g.Sample(20)
		assert.Equal(t, quality.DirectionDegrade, d.Changed)
		assert.Equal(t, quality.LevelMedium, g.Level(), "one step, never high straight to low")
		assert.Zero(t, g.LowStreak(), "counter resets after a change")
	})

	t.Run("a recovered sample resets the streak", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelHigh)

		sampleLow(g, clock, 4)
		clock.Advance(time.Second)
		g.Sample(60) // above 80% of target
		assert.Zero(t, g.LowStreak())

		d := sampleLow(g, clock, 4)
		assert.Empty(t, d.Changed)
		assert.Equal(t, quality.LevelHigh, g.Level())
	})

	t.Run("cooldown blocks back-to-back degrades", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelHigh)

		sampleLow(g, clock, 5)
		require.Equal(t, quality.LevelMedium, g.Level())

		// Two more low samples land inside the 3s cooldown.
		d := g.Sample(20)
		assert.Empty(t, d.Changed)
		d = g.Sample(20)
		assert.Empty(t, d.Changed)
		assert.Equal(t, quality.LevelMedium, g.Level())

		// Past the cooldown the accumulated streak degrades again.
		sampleLow(g, clock, 3)
		assert.Equal(t, quality.LevelLow, g.Level())
	})

	t.Run("at the floor shadows are disabled instead of stepping", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelLow)

		require.True(t, g.Settings().Shadows)
		d := sampleLow(g, clock, 5)
		assert.Equal(t, quality.DirectionDegrade, d.Changed)
		assert.Equal(t, quality.LevelLow, g.Level())
		assert.True(t, d.ShadowOff)
		assert.False(t, g.Settings().Shadows)
	})

	t.Run("floor with shadows already off has nothing left to shed", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelLow)

		sampleLow(g, clock, 5)
		clock.Advance(3 * time.Second)
		d := sampleLow(g, clock, 5)
		assert.Empty(t, d.Changed)
	})
}

func TestGovernor_Upgrade(t *testing.T) {
	t.Parallel()

	t.Run("sustained headroom steps up one level", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelMedium)

		clock.Advance(time.Second)
		d := g.Sample(90) // window avg 90 > 72 = 120% of 60
		assert.Equal(t, quality.DirectionUpgrade, d.Changed)
		assert.Equal(t, quality.LevelHigh, g.Level())
	})

	t.Run("upgrade waits out the longer asymmetric cooldown", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelMedium)

		clock.Advance(time.Second)
		require.Equal(t, quality.DirectionUpgrade, g.Sample(90).Changed)

		// 3s clears the decision cooldown but not the 10s upgrade one.
		clock.Advance(3 * time.Second)
		assert.Empty(t, g.Sample(90).Changed)

		clock.Advance(7 * time.Second)
		d := g.Sample(90)
		assert.Equal(t, quality.DirectionUpgrade, d.Changed)
		assert.Equal(t, quality.LevelUltra, g.Level())
	})

	t.Run("any low sample in the streak vetoes an upgrade", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelMedium)

		clock.Advance(time.Second)
		g.Sample(20) // streak = 1
		clock.Advance(time.Second)
		// Window average may still exceed 120% but streak != 0 after this
		// low sample, so no upgrade.
		d := g.Sample(20)
		assert.Empty(t, d.Changed)
		assert.Equal(t, quality.LevelMedium, g.Level())
	})

	t.Run("upgrade from the darkened floor re-enables shadows first", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelLow)

		sampleLow(g, clock, 5)
		require.False(t, g.Settings().Shadows)

		// Fast samples until the window average climbs past 120% of target
		// and the upgrade cooldown expires.
		clock.Advance(10 * time.Second)
		var d quality.Decision
		for i := 0; i < 40 && d.Changed == ""; i++ {
			clock.Advance(time.Second)
			d = g.Sample(200)
		}
		require.Equal(t, quality.DirectionUpgrade, d.Changed)
		assert.Equal(t, quality.LevelLow, g.Level())
		assert.True(t, g.Settings().Shadows)
	})

	t.Run("ultra is the ceiling", func(t *testing.T) {
		t.Parallel()
		g, clock := newGovernor(t, quality.LevelUltra)

		clock.Advance(time.Second)
		d := g.Sample(200)
		assert.Empty(t, d.Changed)
		assert.Equal(t, quality.LevelUltra, g.Level())
	})
}

func TestGovernor_ConstrainedViewport(t *testing.T) {
	t.Parallel()

	g, clock := newGovernor(t, quality.LevelHigh)
	g.SetConstrained(true)
	assert.Equal(t, 30.0, g.Target())

	// 25 fps is low against a 60 target but fine against 30 (threshold 24).
	for i := 0; i < 6; i++ {
		clock.Advance(time.Second)
		g.Sample(25)
	}
	assert.Zero(t, g.LowStreak())
	assert.Equal(t, quality.LevelHigh, g.Level())
}

func TestGovernor_Notice(t *testing.T) {
	t.Parallel()

	g, clock := newGovernor(t, quality.LevelHigh)
	assert.False(t, g.NoticeActive())

	sampleLow(g, clock, 5)
	assert.True(t, g.NoticeActive())

	clock.Advance(5 * time.Second)
	assert.False(t, g.NoticeActive(), "notice is transient")
}

func TestGovernor_AdjustedCallback(t *testing.T) {
	t.Parallel()

	var decisions []quality.Decision
	g, clock := newGovernor(t, quality.LevelHigh, quality.WithAdjusted(func(d quality.Decision) {
		decisions = append(decisions, d)
	}))

	sampleLow(g, clock, 5)
	require.Len(t, decisions, 1)
	assert.Equal(t, quality.DirectionDegrade, decisions[0].Changed)
	assert.Equal(t, quality.LevelMedium, decisions[0].Level)
}

func TestPresets(t *testing.T) {
	t.Parallel()

	ultra := quality.PresetFor(quality.LevelUltra)
	low := quality.PresetFor(quality.LevelLow)
	assert.Greater(t, ultra.Segments, low.Segments)
	assert.Greater(t, ultra.TextureScale, low.TextureScale)

	assert.Equal(t, low, quality.PresetFor(quality.Level("bogus")), "unknown levels fall back to the floor")
}

func TestFrameWindow(t *testing.T) {
	t.Parallel()

	t.Run("fifo eviction at capacity", func(t *testing.T) {
		t.Parallel()
		w := quality.NewFrameWindow(3)
		w.Record(10 * time.Millisecond)
		w.Record(20 * time.Millisecond)
		w.Record(30 * time.Millisecond)
		assert.Equal(t, 3, w.Len())
		assert.Equal(t, 20*time.Millisecond, w.AverageFrameTime())

		w.Record(40 * time.Millisecond) // evicts the 10ms sample
		assert.Equal(t, 3, w.Len())
		assert.Equal(t, 30*time.Millisecond, w.AverageFrameTime())
	})

	t.Run("fps derivation", func(t *testing.T) {
		t.Parallel()
		w := quality.NewFrameWindow(8)
		assert.Zero(t, w.AverageFPS())

		w.Record(time.Second / 60)
		w.Record(time.Second / 60)
		assert.InDelta(t, 60, w.AverageFPS(), 0.1)
	})

	t.Run("reset empties the window", func(t *testing.T) {
		t.Parallel()
		w := quality.NewFrameWindow(4)
		w.Record(time.Millisecond)
		w.Reset()
		assert.Zero(t, w.Len())
		assert.Zero(t, w.AverageFPS())
	})
}
