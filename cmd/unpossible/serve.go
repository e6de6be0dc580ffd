package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/zeusync/unpossible/internal/core/observability/log"
	"github.com/zeusync/unpossible/internal/injector"
	"github.com/zeusync/unpossible/internal/scenario"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var exitOnFinish bool
	cmd := &cobra.Command{
		Use:   "serve <scenario.yaml>",
		Short: "Run a scenario in real time and stream frames over websocket",
		Long: `Serve ticks the scenario on the wall clock and publishes every frame to
websocket clients connected to /ws?world=<name>. The latest frame is also
available from /snapshot?world=<name>.

The server keeps running after the last step until interrupted, unless
--exit-on-finish is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.LoadFile(args[0])
			if err != nil {
				return err
			}
			st, err := injector.InitializeStream(a.cfg, s)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			srvCtx, stopServer := context.WithCancel(ctx)
			defer stopServer()

			g.Go(func() error { return st.Server.ListenAndServe(srvCtx) })
			g.Go(func() error {
				if err := st.Run(ctx); err != nil {
					return err
				}
				res := s.Report(st.World, st.Physics.Contacts())
				a.logger.Info("scenario finished",
					log.String("scenario", res.Name),
					log.String("hash", res.Hash),
					log.Bool("passed", res.Passed()),
				)
				if exitOnFinish {
					stopServer()
				}
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&exitOnFinish, "exit-on-finish", false, "stop serving once the scenario's steps are done")
	cmd.Flags().String("addr", "", "override server.addr")
	cmd.Flags().Float64("speed", 0, "override sim.speed")
	bindFlag(cmd, "addr", "server.addr")
	bindFlag(cmd, "speed", "sim.speed")
	return cmd
}
