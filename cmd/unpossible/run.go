package main

import (
	"github.com/spf13/cobra"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/internal/core/systems/physics"
	"github.com/zeusync/unpossible/internal/injector"
	"github.com/zeusync/unpossible/internal/scenario"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		realtime bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print the final state",
		Long: `Run steps the scenario's world for its configured number of steps and prints
the resulting body states. The command fails when any expectation does not hold.

With --realtime the world is ticked on the wall clock, scaled by sim.speed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.LoadFile(args[0])
			if err != nil {
				return err
			}

			var res scenario.Result
			if realtime {
				sim, err := injector.InitializeSimulation(a.cfg, s)
				if err != nil {
					return err
				}
				if err := sim.Run(cmd.Context()); err != nil {
					return err
				}
				res = s.Report(sim.World, sim.Physics.Contacts())
			} else {
				res, err = s.Run(cmd.Context(), physics.WithLogger(a.logger.Named("physics")))
				if err != nil {
					return err
				}
			}

			a.logger.Info("scenario finished",
				log.String("scenario", res.Name),
				log.Uint64("frames", res.Frames),
				log.Int("contacts", res.Contacts),
				log.String("hash", res.Hash),
				log.Bool("passed", res.Passed()),
			)
			if err := writeResults(cmd.OutOrStdout(), format, res); err != nil {
				return err
			}
			return failures(res)
		},
	}
	cmd.Flags().BoolVar(&realtime, "realtime", false, "tick on the wall clock instead of as fast as possible")
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().Float64("speed", 0, "override sim.speed for --realtime")
	bindFlag(cmd, "speed", "sim.speed")
	return cmd
}
