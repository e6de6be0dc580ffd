package systems

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zeusync/unpossible/internal/core/observability/log"
)

var (
	ErrInvalidStep     = errors.New("fixed step must be positive")
	ErrDuplicateSystem = errors.New("system already registered")
	ErrNilSystem       = errors.New("system is nil")
)

type RunnerOption func(*Runner)

// WithMaxFrames stops Run after n ticks. Zero means no limit.
func WithMaxFrames(n uint64) RunnerOption {
	return func(r *Runner) { r.maxFrames = n }
}

// WithMaxCatchUp caps the ticks run for one wall-clock interval; the rest of
// the backlog is dropped.
func WithMaxCatchUp(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxCatchUp = n
		}
	}
}

func WithRunnerLogger(l log.Log) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// Runner drives registered systems at a fixed timestep.
type Runner struct {
	step       time.Duration
	maxFrames  uint64
	maxCatchUp int
	log        log.Log
	now        func() time.Time

	systems []System
	metrics map[string]*Metrics
	frames  uint64
}

func NewRunner(step time.Duration, opts ...RunnerOption) (*Runner, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStep, step)
	}
	r := &Runner{
		step:       step,
		maxCatchUp: 5,
		log:        log.Nop(),
		now:        time.Now,
		metrics:    make(map[string]*Metrics),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Runner) Register(s System) error {
	if s == nil {
		return ErrNilSystem
	}
	if _, ok := r.metrics[s.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
	}
	r.systems = append(r.systems, s)
	sort.SliceStable(r.systems, func(i, j int) bool {
		return r.systems[i].Priority() > r.systems[j].Priority()
	})
	r.metrics[s.Name()] = &Metrics{}
	return nil
}

// Systems returns the registered systems in execution order.
func (r *Runner) Systems() []System {
	return append([]System(nil), r.systems...)
}

func (r *Runner) Frames() uint64 { return r.frames }

func (r *Runner) Step() time.Duration { return r.step }

func (r *Runner) GetMetrics(name string) (Metrics, bool) {
	m, ok := r.metrics[name]
	if !ok {
		return Metrics{}, false
	}
	return *m, true
}

// Tick runs one fixed step of every system in priority order.
func (r *Runner) Tick() error {
	dt := r.step.Seconds()
	for _, s := range r.systems {
		start := r.now()
		err := s.FixedUpdate(dt)
		r.metrics[s.Name()].record(start, r.now().Sub(start), err)
		if err != nil {
			return fmt.Errorf("system %s: %w", s.Name(), err)
		}
	}
	r.frames++
	return nil
}

// RunFrames initialises the systems, ticks n times as fast as possible and
// shuts them down. It stops early when ctx is cancelled.
func (r *Runner) RunFrames(ctx context.Context, n uint64) (err error) {
	if err = r.initialize(ctx); err != nil {
		return err
	}
	defer func() { err = errors.Join(err, r.shutdown(context.WithoutCancel(ctx))) }()

	for i := uint64(0); i < n; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = r.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Run ticks in real time until ctx is done or the frame limit is reached.
// A cancelled context is a normal stop and returns nil.
func (r *Runner) Run(ctx context.Context) (err error) {
	if err = r.initialize(ctx); err != nil {
		return err
	}
	defer func() { err = errors.Join(err, r.shutdown(context.WithoutCancel(ctx))) }()

	ticker := time.NewTicker(r.step)
	defer ticker.Stop()

	last := r.now()
	var acc time.Duration
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		now := r.now()
		acc += now.Sub(last)
		last = now

		ticks := 0
		for acc >= r.step && ticks < r.maxCatchUp {
			if err = r.Tick(); err != nil {
				return err
			}
			acc -= r.step
			ticks++
			if r.maxFrames > 0 && r.frames >= r.maxFrames {
				return nil
			}
		}
		if acc >= r.step {
			r.log.Warn("runner falling behind, dropping backlog", log.Duration("backlog", acc))
			acc = 0
		}
	}
}

// initialize starts the systems in order. When one fails, the ones already
// started are shut down in reverse order.
func (r *Runner) initialize(ctx context.Context) error {
	for i, s := range r.systems {
		if err := s.Initialize(ctx); err != nil {
			err = fmt.Errorf("initialize %s: %w", s.Name(), err)
			return errors.Join(err, r.shutdownFirst(context.WithoutCancel(ctx), i))
		}
		r.log.Debug("system initialized", log.String("system", s.Name()))
	}
	return nil
}

func (r *Runner) shutdown(ctx context.Context) error {
	return r.shutdownFirst(ctx, len(r.systems))
}

// shutdownFirst shuts down systems[:n] in reverse order.
func (r *Runner) shutdownFirst(ctx context.Context, n int) error {
	var all error
	for i := n - 1; i >= 0; i-- {
		s := r.systems[i]
		if err := s.Shutdown(ctx); err != nil {
			all = errors.Join(all, fmt.Errorf("shutdown %s: %w", s.Name(), err))
		}
	}
	return all
}
