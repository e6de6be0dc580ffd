//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/unpossible/internal/config"
	"github.com/zeusync/unpossible/internal/scenario"
)

func InitializeSimulation(cfg *config.Config, s *scenario.Scenario) (*Simulation, error) {
	wire.Build(SimulationSet)
	return nil, nil
}

func InitializeStream(cfg *config.Config, s *scenario.Scenario) (*Stream, error) {
	wire.Build(StreamSet)
	return nil, nil
}
