package server

import (
	"context"
	"sync"

	"github.com/zeusync/unpossible/internal/core/events/bus"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/internal/core/systems"
	"github.com/zeusync/unpossible/internal/core/systems/physics"
)

var _ systems.System = (*StreamSystem)(nil)

type StreamOption func(*StreamSystem)

// WithContacts attaches the world's contact events from b to each frame.
func WithContacts(b bus.EventBus) StreamOption {
	return func(s *StreamSystem) { s.events = b }
}

// StreamSystem publishes a Frame of its world every `every` ticks. It runs
// after physics in the same Runner.
type StreamSystem struct {
	name   string
	world  *physics.World
	server *Server
	every  int
	ticks  int
	logger log.Log

	events   bus.EventBus
	sub      bus.Subscription
	mu       sync.Mutex
	contacts []ContactState
}

func NewStreamSystem(name string, w *physics.World, srv *Server, every int, opts ...StreamOption) *StreamSystem {
	if every <= 0 {
		every = 1
	}
	s := &StreamSystem{name: name, world: w, server: srv, every: every, logger: srv.logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StreamSystem) Name() string               { return "stream:" + s.name }
func (s *StreamSystem) Priority() systems.Priority { return systems.PriorityLow }

func (s *StreamSystem) Initialize(context.Context) error {
	if s.events != nil {
		sub, err := s.events.Subscribe(physics.EventContact, s.onContact)
		if err != nil {
			return err
		}
		s.sub = sub
	}
	return s.server.Publish(FrameOf(s.name, s.world))
}

func (s *StreamSystem) onContact(e bus.Event) error {
	if e.Source() != s.world.ID() {
		return nil
	}
	ev, ok := e.Data().(physics.ContactEvent)
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.contacts = append(s.contacts, ContactState{
		Frame: ev.Frame,
		A:     ev.Contact.A.String(),
		B:     ev.Contact.B.String(),
		KindA: ev.Contact.KindA.String(),
		KindB: ev.Contact.KindB.String(),
	})
	s.mu.Unlock()
	return nil
}

func (s *StreamSystem) FixedUpdate(float64) error {
	s.ticks++
	if s.ticks%s.every != 0 {
		return nil
	}
	f := FrameOf(s.name, s.world)
	s.mu.Lock()
	f.Contacts, s.contacts = s.contacts, nil
	s.mu.Unlock()
	if err := s.server.Publish(f); err != nil {
		s.logger.Debug("frame not published", log.String("world", s.name), log.Err(err))
	}
	return nil
}

func (s *StreamSystem) Shutdown(context.Context) error {
	if s.sub == nil {
		return nil
	}
	err := s.events.Unsubscribe(s.sub)
	s.sub = nil
	return err
}
