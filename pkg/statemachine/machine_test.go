package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prietto/mugforge/pkg/statemachine"
)

const (
	idle      = statemachine.StringState("idle")
	armed     = statemachine.StringState("armed")
	returning = statemachine.StringState("returning")
)

const (
	arm       = statemachine.StringEvent("arm")
	timeout   = statemachine.StringEvent("timeout")
	interrupt = statemachine.StringEvent("interrupt")
)

func TestMachine_Fire(t *testing.T) {
	t.Parallel()

	newMachine := func(t *testing.T) statemachine.StateMachine {
		t.Helper()
		return statemachine.MustNew(idle,
			statemachine.WithTransition(idle, armed, arm),
			statemachine.WithTransition(armed, armed, arm),
			statemachine.WithTransition(armed, returning, timeout),
			statemachine.WithTransition(armed, idle, interrupt),
			statemachine.WithTransition(returning, idle, interrupt),
		)
	}

	t.Run("walks defined transitions", func(t *testing.T) {
		t.Parallel()
		sm := newMachine(t)
		ctx := context.Background()

		require.Equal(t, idle, sm.Current())
		require.NoError(t, sm.Fire(ctx, arm, nil))
		require.Equal(t, armed, sm.Current())
		require.NoError(t, sm.Fire(ctx, timeout, nil))
		require.Equal(t, returning, sm.Current())
		require.NoError(t, sm.Fire(ctx, interrupt, nil))
		assert.Equal(t, idle, sm.Current())
	})

	t.Run("self transition stays in state", func(t *testing.T) {
		t.Parallel()
		sm := newMachine(t)
		ctx := context.Background()

		require.NoError(t, sm.Fire(ctx, arm, nil))
		require.NoError(t, sm.Fire(ctx, arm, nil))
		assert.Equal(t, armed, sm.Current())
	})

	t.Run("undefined transition errors", func(t *testing.T) {
		t.Parallel()
		sm := newMachine(t)

		err := sm.Fire(context.Background(), timeout, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransition(err))
		assert.False(t, statemachine.IsTransitionRejected(err))
		assert.Equal(t, idle, sm.Current())
	})

	t.Run("reset returns to initial state", func(t *testing.T) {
		t.Parallel()
		sm := newMachine(t)
		ctx := context.Background()

		require.NoError(t, sm.Fire(ctx, arm, nil))
		require.NoError(t, sm.Reset())
		assert.Equal(t, idle, sm.Current())
	})
}

func TestMachine_Guards(t *testing.T) {
	t.Parallel()

	t.Run("guard blocks transition", func(t *testing.T) {
		t.Parallel()
		allowed := false
		guard := func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
			return allowed
		}

		sm := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, armed, arm, statemachine.WithGuard(guard)),
		)
		ctx := context.Background()

		assert.False(t, sm.CanFire(ctx, arm, nil))
		err := sm.Fire(ctx, arm, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsTransitionRejected(err))

		allowed = true
		assert.True(t, sm.CanFire(ctx, arm, nil))
		require.NoError(t, sm.Fire(ctx, arm, nil))
		assert.Equal(t, armed, sm.Current())
	})

	t.Run("first passing guard selects the branch", func(t *testing.T) {
		t.Parallel()
		never := func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
			return false
		}

		sm := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, returning, arm, statemachine.WithGuard(never)),
			statemachine.WithTransition(idle, armed, arm),
		)

		require.NoError(t, sm.Fire(context.Background(), arm, nil))
		assert.Equal(t, armed, sm.Current())
	})
}

func TestMachine_Actions(t *testing.T) {
	t.Parallel()

	t.Run("actions run before the state changes", func(t *testing.T) {
		t.Parallel()
		var observedFrom, observedTo string
		action := func(ctx context.Context, from, to statemachine.State, event statemachine.Event, data any) error {
			observedFrom = from.Name()
			observedTo = to.Name()
			return nil
		}

		sm := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, armed, arm, statemachine.WithAction(action)),
		)

		require.NoError(t, sm.Fire(context.Background(), arm, nil))
		assert.Equal(t, "idle", observedFrom)
		assert.Equal(t, "armed", observedTo)
	})

	t.Run("action error aborts the transition", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		action := func(ctx context.Context, from, to statemachine.State, event statemachine.Event, data any) error {
			return boom
		}

		sm := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, armed, arm, statemachine.WithAction(action)),
		)

		err := sm.Fire(context.Background(), arm, nil)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, idle, sm.Current())
	})
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := statemachine.New(nil)
	assert.Error(t, err)

	_, err = statemachine.New(idle, statemachine.WithTransition(nil, armed, arm))
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
}
