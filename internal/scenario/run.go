package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/zeusync/unpossible/internal/core/systems/physics"
	"github.com/zeusync/unpossible/pkg/concurrent"
)

type Result struct {
	Name     string              `json:"name" yaml:"name"`
	Frames   uint64              `json:"frames" yaml:"frames"`
	Elapsed  float64             `json:"elapsed" yaml:"elapsed"`
	Contacts int                 `json:"contacts" yaml:"contacts"`
	Hash     string              `json:"hash" yaml:"hash"`
	Bodies   []physics.BodyState `json:"bodies" yaml:"bodies"`
	Failures []string            `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Run builds a fresh world and steps it Steps times. A cancelled context stops
// the run between steps.
func (s *Scenario) Run(ctx context.Context, opts ...physics.WorldOption) (Result, error) {
	w, err := s.Build(opts...)
	if err != nil {
		return Result{}, err
	}
	return s.Drive(ctx, w, nil)
}

// Drive steps an already built world, calling onFrame after every step.
func (s *Scenario) Drive(ctx context.Context, w *physics.World, onFrame func(*physics.World)) (Result, error) {
	contacts := 0
	for range s.Steps {
		if err := ctx.Err(); err != nil {
			return Result{Name: s.Name, Contacts: contacts}, err
		}
		contacts += len(w.Step(s.Dt))
		if onFrame != nil {
			onFrame(w)
		}
	}
	return s.Report(w, contacts), nil
}

// Report summarises w and checks it against the scenario's expectations.
func (s *Scenario) Report(w *physics.World, contacts int) Result {
	res := Result{
		Name:     s.Name,
		Frames:   w.Frame(),
		Elapsed:  w.Elapsed(),
		Contacts: contacts,
		Hash:     fmt.Sprintf("%016x", w.StateHash()),
		Bodies:   w.Snapshot(),
	}
	res.Failures = s.check(res.Bodies)
	return res
}

// RunAll runs every scenario in its own world, at most workers at a time, and
// returns the results in input order.
func RunAll(ctx context.Context, list []*Scenario, workers int, opts ...physics.WorldOption) ([]Result, error) {
	return concurrent.ParallelMap(ctx, list, workers, func(ctx context.Context, s *Scenario) (Result, error) {
		res, err := s.Run(ctx, opts...)
		if err != nil {
			return Result{}, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		return res, nil
	})
}

func (s *Scenario) check(bodies []physics.BodyState) []string {
	var failures []string
	for _, e := range s.Expect {
		st, ok := findBody(bodies, e.Body)
		if !ok {
			failures = append(failures, fmt.Sprintf("%s: no such body", e.Body))
			continue
		}
		tol := e.Tolerance
		if tol <= 0 {
			tol = defaultTolerance
		}
		if e.Position != nil {
			d := st.Position.Sub(*e.Position)
			if math.Abs(d.X) > tol || math.Abs(d.Y) > tol {
				failures = append(failures, fmt.Sprintf("%s: position %v, want %v ±%g", e.Body, st.Position, *e.Position, tol))
			}
		}
		if e.Grounded != nil && st.Grounded != *e.Grounded {
			failures = append(failures, fmt.Sprintf("%s: grounded %t, want %t", e.Body, st.Grounded, *e.Grounded))
		}
	}
	return failures
}

func findBody(bodies []physics.BodyState, name string) (physics.BodyState, bool) {
	for _, b := range bodies {
		if b.Name == name {
			return b, true
		}
	}
	return physics.BodyState{}, false
}
