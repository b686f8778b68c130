package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Option configures a machine during construction.
type Option func(*machine) error

// TransitionOption attaches guards or actions to a single transition.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	guards  []Guard
	actions []Action
}

// machine is a mutex-guarded in-memory state machine. Transition lookup is
// map[fromState][event][]Transition, so firing is O(1) in the number of
// defined transitions.
type machine struct {
	initial     State
	current     State
	transitions map[string]map[string][]Transition
	mu          sync.RWMutex
}

// New creates a machine starting in initial with the given transitions.
func New(initial State, opts ...Option) (StateMachine, error) {
	if initial == nil {
		return nil, fmt.Errorf("statemachine: initial state cannot be nil")
	}

	m := &machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[string]map[string][]Transition),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is New but panics on configuration errors. Machine wiring is
// static per component, so a failure here is a programming error.
func MustNew(initial State, opts ...Option) StateMachine {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return m
}

// WithTransition registers a transition from -> to on event.
func WithTransition(from, to State, event Event, opts ...TransitionOption) Option {
	return func(m *machine) error {
		if from == nil || to == nil || event == nil {
			return ErrInvalidTransition
		}

		cfg := &transitionConfig{}
		for _, opt := range opts {
			opt(cfg)
		}

		fromName := from.Name()
		if _, ok := m.transitions[fromName]; !ok {
			m.transitions[fromName] = make(map[string][]Transition)
		}

		// Multiple transitions per from/event pair are allowed so guards can
		// select the branch at fire time.
		m.transitions[fromName][event.Name()] = append(m.transitions[fromName][event.Name()], Transition{
			From:    from,
			To:      to,
			Event:   event,
			Guards:  cfg.guards,
			Actions: cfg.actions,
		})
		return nil
	}
}

// WithGuard adds a guard to a transition.
func WithGuard(guard Guard) TransitionOption {
	return func(cfg *transitionConfig) {
		if guard != nil {
			cfg.guards = append(cfg.guards, guard)
		}
	}
}

// WithAction adds an action to a transition.
func WithAction(action Action) TransitionOption {
	return func(cfg *transitionConfig) {
		if action != nil {
			cfg.actions = append(cfg.actions, action)
		}
	}
}

func (m *machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	candidates := m.transitions[m.current.Name()][event.Name()]
	if len(candidates) == 0 {
		return NewErrNoTransition(m.current.Name(), event.Name())
	}

	// First transition whose guards all pass wins; registration order is
	// the priority order.
	var selected *Transition
	for i := range candidates {
		if guardsPass(ctx, m.current, event, data, candidates[i].Guards) {
			selected = &candidates[i]
			break
		}
	}
	if selected == nil {
		return NewErrTransitionRejected(m.current.Name(), event.Name())
	}

	for _, action := range selected.Actions {
		if action != nil {
			if err := action(ctx, m.current, selected.To, event, data); err != nil {
				return fmt.Errorf("statemachine: action failed: %w", err)
			}
		}
	}

	m.current = selected.To
	return nil
}

func (m *machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.transitions[m.current.Name()][event.Name()] {
		if guardsPass(ctx, m.current, event, data, t.Guards) {
			return true
		}
	}
	return false
}

func (m *machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
	return nil
}

func guardsPass(ctx context.Context, from State, event Event, data any, guards []Guard) bool {
	for _, guard := range guards {
		if guard != nil && !guard(ctx, from, event, data) {
			return false
		}
	}
	return true
}
