package injector

import (
	"context"

	"github.com/google/wire"
	"github.com/zeusync/unpossible/internal/config"
	"github.com/zeusync/unpossible/internal/core/events/bus"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/internal/core/systems"
	"github.com/zeusync/unpossible/internal/core/systems/physics"
	"github.com/zeusync/unpossible/internal/scenario"
	"github.com/zeusync/unpossible/internal/server"
)

// SimulationSet provides everything a real-time scenario run needs.
var SimulationSet = wire.NewSet(
	ProvideLogger,
	bus.New,
	ProvideWorld,
	ProvideRunner,
	NewSimulation,
)

// StreamSet adds the snapshot stream on top of SimulationSet.
var StreamSet = wire.NewSet(
	SimulationSet,
	ProvideServer,
	NewStream,
)

func ProvideLogger(cfg *config.Config) log.Log {
	return log.New(cfg.Log.Options("unpossible"))
}

func ProvideWorld(s *scenario.Scenario, logger log.Log, events bus.EventBus) (*physics.World, error) {
	return s.Build(
		physics.WithLogger(logger.Named("physics")),
		physics.WithEventBus(events),
	)
}

// ProvideRunner ticks at the scenario's dt scaled by the playback speed and
// stops after the scenario's step count.
func ProvideRunner(cfg *config.Config, s *scenario.Scenario, logger log.Log) (*systems.Runner, error) {
	return systems.NewRunner(cfg.Sim.Period(s.Dt),
		systems.WithMaxFrames(uint64(s.Steps)),
		systems.WithMaxCatchUp(cfg.Sim.MaxCatchUp),
		systems.WithRunnerLogger(logger.Named("runner")),
	)
}

func ProvideServer(cfg *config.Config, logger log.Log) (*server.Server, error) {
	return server.New(server.Config{
		Addr:            cfg.Server.Addr,
		SendBuffer:      cfg.Server.SendBuffer,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, logger)
}

// Simulation is a scenario world driven in real time by a Runner.
type Simulation struct {
	Scenario *scenario.Scenario
	World    *physics.World
	Events   bus.EventBus
	Runner   *systems.Runner
	Logger   log.Log
	Physics  *physics.System
}

func NewSimulation(s *scenario.Scenario, w *physics.World, events bus.EventBus, runner *systems.Runner, logger log.Log) (*Simulation, error) {
	sys := physics.NewSystem(w, physics.WithFixedDelta(s.Dt))
	if err := runner.Register(sys); err != nil {
		return nil, err
	}
	return &Simulation{Scenario: s, World: w, Events: events, Runner: runner, Logger: logger, Physics: sys}, nil
}

// Run ticks the world in real time until ctx is done or the scenario's step
// count is reached.
func (s *Simulation) Run(ctx context.Context) error {
	s.Logger.Info("simulation started",
		log.String("scenario", s.Scenario.Name),
		log.Int("bodies", s.World.Len()),
		log.Float64("dt", s.Scenario.Dt),
		log.Duration("period", s.Runner.Step()),
	)
	err := s.Runner.Run(ctx)
	s.Logger.Info("simulation stopped",
		log.Uint64("frames", s.World.Frame()),
		log.Int("contacts", s.Physics.Contacts()),
		log.Uint64("events", s.Events.GetMetrics().Published),
	)
	return err
}

// Stream is a Simulation whose frames are pushed to websocket clients.
type Stream struct {
	*Simulation
	Server *server.Server
}

func NewStream(sim *Simulation, srv *server.Server) (*Stream, error) {
	if err := sim.Runner.Register(server.NewStreamSystem(sim.Scenario.Name, sim.World, srv, 1, server.WithContacts(sim.Events))); err != nil {
		return nil, err
	}
	return &Stream{Simulation: sim, Server: srv}, nil
}
