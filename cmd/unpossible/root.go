package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zeusync/unpossible/internal/config"
	"github.com/zeusync/unpossible/internal/core/observability/log"
)

// app carries state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	logger  log.Log
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "unpossible",
		Short:         "Deterministic 2D platformer physics, headless or streamed.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./unpossible.yaml)")
	root.PersistentFlags().String("log-level", "", "override log.level")
	_ = root.PersistentFlags().SetAnnotation("log-level", configKey, []string{"log.level"})

	root.AddCommand(
		newRunCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys := f.Annotations[configKey]; len(keys) > 0 {
			bindErr = errors.Join(bindErr, a.v.BindPFlag(keys[0], f))
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = log.New(cfg.Log.Options("unpossible"))
	a.logger.Debug("config loaded", log.String("file", a.v.ConfigFileUsed()), log.String("version", Version))
	return nil
}

// configKey annotates flags that override a config key. Only the flags of the
// command being executed are bound, so subcommands may share a key.
const configKey = "unpossible/config-key"

func bindFlag(cmd *cobra.Command, name, key string) {
	_ = cmd.Flags().SetAnnotation(name, configKey, []string{key})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skips config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unpossible %s\n", Version)
		},
	}
}
