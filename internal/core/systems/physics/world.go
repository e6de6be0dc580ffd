package physics

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/zeusync/unpossible/internal/core/events/bus"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/pkg/vmath"
)

// Handle is a stable key into a World. A handle whose shape was removed never
// resolves again, even after its slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h was never issued.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string { return fmt.Sprintf("%d:%d", h.index, h.gen) }

type slot struct {
	shape  Shape
	gen    uint32
	alive  bool
	doomed bool
}

type WorldOption func(*World)

func WithLogger(l log.Log) WorldOption {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithEventBus publishes contact and removal events on b.
func WithEventBus(b bus.EventBus) WorldOption {
	return func(w *World) { w.events = b }
}

// World owns the active shapes and steps them in insertion order. It is not
// safe for concurrent use.
type World struct {
	id     uuid.UUID
	solver *Solver
	log    log.Log
	events bus.EventBus

	slots   []slot
	free    []uint32
	order   []uint32
	bubbles []TimeBubble

	pending  []Handle
	stepping bool

	frame   uint64
	elapsed float64
}

func NewWorld(cfg Config, opts ...WorldOption) (*World, error) {
	solver, err := NewSolver(cfg)
	if err != nil {
		return nil, err
	}
	w := &World{id: uuid.New(), solver: solver, log: log.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(log.String("world", w.id.String()))
	return w, nil
}

func (w *World) ID() string      { return w.id.String() }
func (w *World) Config() Config  { return w.solver.cfg }
func (w *World) Solver() *Solver { return w.solver }
func (w *World) Frame() uint64   { return w.frame }

// Elapsed is the simulated time after clamping.
func (w *World) Elapsed() float64 { return w.elapsed }

func (w *World) Add(s Shape) (Handle, error) {
	if s == nil {
		return Handle{}, ErrNilShape
	}
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{})
	}
	sl := &w.slots[idx]
	sl.gen++
	sl.shape = s
	sl.alive = true
	w.order = append(w.order, idx)

	h := Handle{index: idx, gen: sl.gen}
	w.log.Debug("shape added", log.String("handle", h.String()), log.String("kind", s.Kind().String()))
	return h, nil
}

// Remove drops the shape behind h. During Step the removal is deferred until
// the collision pass has finished, and the shape takes part in no further
// pairs of that pass.
func (w *World) Remove(h Handle) error {
	if _, ok := w.Get(h); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	if w.stepping {
		if !w.slots[h.index].doomed {
			w.slots[h.index].doomed = true
			w.pending = append(w.pending, h)
		}
		return nil
	}
	w.release(h)
	return nil
}

func (w *World) release(h Handle) {
	s, ok := w.Get(h)
	if !ok {
		return
	}
	w.slots[h.index] = slot{gen: h.gen}
	w.free = append(w.free, h.index)
	for i, idx := range w.order {
		if idx == h.index {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	w.log.Debug("shape removed", log.String("handle", h.String()), log.String("kind", s.Kind().String()))
	w.publish(EventRemoved, RemovedEvent{World: w.ID(), Frame: w.frame, Handle: h, Kind: s.Kind()})
}

func (w *World) Get(h Handle) (Shape, bool) {
	if h.IsZero() || int(h.index) >= len(w.slots) {
		return nil, false
	}
	sl := w.slots[h.index]
	if !sl.alive || sl.gen != h.gen {
		return nil, false
	}
	return sl.shape, true
}

func (w *World) Len() int { return len(w.order) }

// Each visits the live shapes in insertion order until fn returns false.
func (w *World) Each(fn func(Handle, Shape) bool) {
	for _, idx := range append([]uint32(nil), w.order...) {
		sl := w.slots[idx]
		if !sl.alive {
			continue
		}
		if !fn(Handle{index: idx, gen: sl.gen}, sl.shape) {
			return
		}
	}
}

func (w *World) AddBubble(b TimeBubble) error {
	if b.Region == nil {
		return ErrNilShape
	}
	if _, err := NewTimeBubble(b.Region, b.Scale); err != nil {
		return err
	}
	w.bubbles = append(w.bubbles, b)
	return nil
}

func (w *World) Bubbles() []TimeBubble {
	return append([]TimeBubble(nil), w.bubbles...)
}

// Step advances the world by dt: forces and integration for every dynamic
// body, then every pair in insertion order against the state left by earlier
// pairs, then deferred removals. It returns the reported contacts.
func (w *World) Step(dt float64) []Contact {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil
	}
	cfg := w.solver.cfg
	if cfg.MaxStep > 0 && dt > cfg.MaxStep {
		w.log.Warn("clamping frame delta", log.Float64("dt", dt), log.Float64("max", cfg.MaxStep))
		dt = cfg.MaxStep
	}

	w.stepping = true
	live := append([]uint32(nil), w.order...)

	for _, idx := range live {
		s := w.slots[idx].shape
		b := s.RigidBody()
		if b == nil || !b.UseDynamics {
			continue
		}
		if b.UseGravity {
			b.AddForce(cfg.Gravity.Scale(b.Mass))
		}
		b.integrate(LocalDelta(dt, s, w.bubbles), cfg.AngularDamping)
		b.ClearForces()
		b.Grounded = false
		if o, ok := s.(*OOBB); ok {
			o.ComputeAxes()
		}
	}

	var contacts []Contact
	w.solver.inPass = true
	for i, ia := range live {
		for _, ib := range live[i+1:] {
			a, b := w.slots[ia], w.slots[ib]
			if a.doomed {
				break
			}
			if b.doomed || !movable(a.shape) && !movable(b.shape) {
				continue
			}
			if !w.solver.Collide(a.shape, b.shape) {
				continue
			}
			contacts = append(contacts, Contact{
				A:     Handle{index: ia, gen: a.gen},
				B:     Handle{index: ib, gen: b.gen},
				KindA: a.shape.Kind(),
				KindB: b.shape.Kind(),
			})
		}
	}
	w.solver.inPass = false

	if w.events != nil && len(contacts) > 0 {
		batch := make([]bus.Event, len(contacts))
		for i, c := range contacts {
			batch[i] = bus.NewEvent(EventContact, w.ID(), ContactEvent{World: w.ID(), Frame: w.frame, Contact: c})
		}
		if err := w.events.PublishBatch(batch...); err != nil {
			w.log.Warn("event handler failed", log.String("event", EventContact), log.Err(err))
		}
	}

	w.stepping = false
	pending := w.pending
	w.pending = nil
	for _, h := range pending {
		w.release(h)
	}

	w.frame++
	w.elapsed += dt
	w.log.Debug("step",
		log.Uint64("frame", w.frame),
		log.Float64("dt", dt),
		log.Int("contacts", len(contacts)),
		log.Int("bodies", len(w.order)),
	)
	return contacts
}

func movable(s Shape) bool {
	b := s.RigidBody()
	return b != nil && b.UseDynamics
}

func (w *World) publish(eventType string, payload any) {
	if w.events == nil {
		return
	}
	if err := w.events.Publish(bus.NewEvent(eventType, w.ID(), payload)); err != nil {
		w.log.Warn("event handler failed", log.String("event", eventType), log.Err(err))
	}
}

// BodyState is a read-only copy of one body, for snapshots and streaming.
type BodyState struct {
	Handle          string        `json:"handle" yaml:"handle"`
	Name            string        `json:"name,omitempty" yaml:"name,omitempty"`
	Kind            string        `json:"kind" yaml:"kind"`
	Position        vmath.Vector2 `json:"position" yaml:"position"`
	Velocity        vmath.Vector2 `json:"velocity" yaml:"velocity"`
	Rotation        float64       `json:"rotation" yaml:"rotation"`
	AngularVelocity float64       `json:"angular_velocity" yaml:"angular_velocity"`
	Grounded        bool          `json:"grounded" yaml:"grounded"`
}

// Snapshot copies the state of every body in insertion order. Planes and
// colliders are omitted.
func (w *World) Snapshot() []BodyState {
	out := make([]BodyState, 0, len(w.order))
	w.Each(func(h Handle, s Shape) bool {
		b := s.RigidBody()
		if b == nil {
			return true
		}
		st := BodyState{
			Handle:          h.String(),
			Kind:            s.Kind().String(),
			Position:        b.Position,
			Velocity:        b.Velocity,
			Rotation:        b.Rotation,
			AngularVelocity: b.AngularVelocity,
			Grounded:        b.Grounded,
		}
		if name, ok := b.Owner.(string); ok {
			st.Name = name
		}
		out = append(out, st)
		return true
	})
	return out
}

// StateHash digests the frame counter and every body's kinematic state. Two
// worlds stepped identically hash equal.
func (w *World) StateHash() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint64(buf, w.frame)
	_, _ = d.Write(buf)

	w.Each(func(_ Handle, s Shape) bool {
		b := s.RigidBody()
		if b == nil {
			return true
		}
		buf = buf[:0]
		buf = append(buf, byte(s.Kind()))
		for _, f := range [...]float64{
			b.Position.X, b.Position.Y,
			b.Velocity.X, b.Velocity.Y,
			b.Rotation, b.AngularVelocity,
		} {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
		}
		if b.Grounded {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		_, _ = d.Write(buf)
		return true
	})
	return d.Sum64()
}
