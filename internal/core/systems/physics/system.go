package physics

import (
	"context"

	"github.com/zeusync/unpossible/internal/core/systems"
)

var _ systems.System = (*System)(nil)

// System steps a World from a systems.Runner.
type System struct {
	world    *World
	delta    float64
	contacts int
}

type SystemOption func(*System)

// WithFixedDelta makes every tick advance the world by dt seconds regardless
// of the runner's wall-clock step.
func WithFixedDelta(dt float64) SystemOption {
	return func(s *System) { s.delta = dt }
}

func NewSystem(w *World, opts ...SystemOption) *System {
	s := &System{world: w}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) Name() string                     { return "physics" }
func (s *System) Priority() systems.Priority       { return systems.PriorityHigh }
func (s *System) Initialize(context.Context) error { return nil }
func (s *System) Shutdown(context.Context) error   { return nil }

func (s *System) FixedUpdate(dt float64) error {
	if s.delta > 0 {
		dt = s.delta
	}
	s.contacts += len(s.world.Step(dt))
	return nil
}

func (s *System) World() *World { return s.world }

// Contacts is the number of contacts reported since the system was created.
func (s *System) Contacts() int { return s.contacts }
