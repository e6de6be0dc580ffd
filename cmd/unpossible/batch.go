package main

import (
	"github.com/spf13/cobra"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/internal/core/systems/physics"
	"github.com/zeusync/unpossible/internal/scenario"
)

func newBatchCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "batch <scenario.yaml>...",
		Short: "Run several scenarios in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := make([]*scenario.Scenario, 0, len(args))
			for _, path := range args {
				s, err := scenario.LoadFile(path)
				if err != nil {
					return err
				}
				list = append(list, s)
			}

			results, err := scenario.RunAll(cmd.Context(), list, a.cfg.Sim.Workers,
				physics.WithLogger(a.logger.Named("physics")))
			if err != nil {
				return err
			}
			for _, res := range results {
				a.logger.Info("scenario finished",
					log.String("scenario", res.Name),
					log.String("hash", res.Hash),
					log.Bool("passed", res.Passed()),
				)
			}
			if err := writeResults(cmd.OutOrStdout(), format, results); err != nil {
				return err
			}
			return failures(results...)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "output format: yaml or json")
	cmd.Flags().Int("workers", 0, "override sim.workers")
	bindFlag(cmd, "workers", "sim.workers")
	return cmd
}
