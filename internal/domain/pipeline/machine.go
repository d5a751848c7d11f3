package pipeline

import (
	"context"
	"fmt"
	"sort"
)

// GuardFunc decides whether a permitted transition may actually fire.
type GuardFunc func(ctx context.Context) bool

// Machine tracks the current phase of an action invocation and validates
// transitions against the configured graph.
type Machine interface {
	// State returns the current phase.
	State() State

	// CanFire reports whether the trigger has any permitted transition in
	// the current phase. Guards are not evaluated here.
	CanFire(trigger Trigger) bool

	// Fire executes the trigger, moving to the target phase when a guard
	// passes (or no guard is configured).
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers lists the triggers configured for the current phase.
	PermittedTriggers() []Trigger
}

// Builder assembles a transition graph and mints machines from it.
type Builder interface {
	// Configure returns the configuration for the given phase, creating it
	// on first use.
	Configure(state State) StateConfig

	// Build mints an independent machine starting at the given phase.
	Build(initial State) Machine
}

// StateConfig configures the outgoing transitions of a single phase.
type StateConfig interface {
	// Permit allows the trigger to move to the target phase.
	Permit(trigger Trigger, to State) StateConfig

	// PermitIf allows the trigger to move to the target phase only when
	// the guard passes.
	PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfig
}

type transition struct {
	to    State
	guard GuardFunc
}

type stateConfig struct {
	transitions map[Trigger][]transition
}

type builder struct {
	configs map[State]*stateConfig
}

type machine struct {
	current State
	configs map[State]*stateConfig
}

// NewBuilder creates an empty transition-graph builder.
func NewBuilder() Builder {
	return &builder{configs: make(map[State]*stateConfig)}
}

func (b *builder) Configure(state State) StateConfig {
	if !state.IsValid() {
		panic(fmt.Sprintf("pipeline: invalid state %q", state))
	}
	cfg, ok := b.configs[state]
	if !ok {
		cfg = &stateConfig{transitions: make(map[Trigger][]transition)}
		b.configs[state] = cfg
	}
	return cfg
}

func (b *builder) Build(initial State) Machine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("pipeline: invalid initial state %q", initial))
	}
	// Copy the graph so machines stay independent of later builder use.
	configs := make(map[State]*stateConfig, len(b.configs))
	for state, cfg := range b.configs {
		transitions := make(map[Trigger][]transition, len(cfg.transitions))
		for trigger, ts := range cfg.transitions {
			transitions[trigger] = append([]transition(nil), ts...)
		}
		configs[state] = &stateConfig{transitions: transitions}
	}
	return &machine{current: initial, configs: configs}
}

func (c *stateConfig) Permit(trigger Trigger, to State) StateConfig {
	return c.PermitIf(trigger, to, nil)
}

func (c *stateConfig) PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfig {
	if !to.IsValid() {
		panic(fmt.Sprintf("pipeline: invalid target state %q", to))
	}
	c.transitions[trigger] = append(c.transitions[trigger], transition{to: to, guard: guard})
	return c
}

func (m *machine) State() State {
	return m.current
}

func (m *machine) CanFire(trigger Trigger) bool {
	cfg, ok := m.configs[m.current]
	if !ok {
		return false
	}
	return len(cfg.transitions[trigger]) > 0
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	cfg, ok := m.configs[m.current]
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	transitions := cfg.transitions[trigger]
	if len(transitions) == 0 {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}
	return fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.current)
}

func (m *machine) PermittedTriggers() []Trigger {
	cfg, ok := m.configs[m.current]
	if !ok {
		return nil
	}
	triggers := make([]Trigger, 0, len(cfg.transitions))
	for trigger := range cfg.transitions {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
