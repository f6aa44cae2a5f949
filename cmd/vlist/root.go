package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grindlemire/go-virtual/internal/config"
	"github.com/grindlemire/go-virtual/internal/debug"
)

// app carries what PersistentPreRunE prepared to the subcommands.
type app struct {
	cfgFile  string
	logLevel string
	debugLog string

	cfg     *config.Config
	log     *zap.Logger
	closeFn func()
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop(), closeFn: func() {}}

	cmd := &cobra.Command{
		Use:           "vlist",
		Short:         "Windowing engine for long scrollable lists.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if a.logLevel != "" {
				cfg.Logger.Level = a.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			log, closeFn, err := newLogger(cfg.Logger, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if a.debugLog != "" {
				if err := debug.Init(a.debugLog); err != nil {
					closeFn()
					return err
				}
			}
			// Everything also reaches the debug log when one is enabled here
			// or through VLIST_DEBUG; otherwise its core is a no-op.
			log = log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
				return zapcore.NewTee(c, debug.Logger().Core())
			}))
			a.cfg, a.log = cfg, log
			a.closeFn = func() {
				closeFn()
				_ = debug.Close()
			}
			a.log.Debug("configuration loaded",
				zap.String("command", cmd.Name()),
				zap.Int("ahead_margin", cfg.Engine.AheadMargin),
				zap.Int("behind_margin", cfg.Engine.BehindMargin),
			)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.closeFn()
		},
	}
	cmd.SetVersionTemplate(`{{printf "vlist version %s\n" .Version}}`)
	cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./vlist.yaml or ./vlist.toml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logger.level")
	cmd.PersistentFlags().StringVar(&a.debugLog, "debug-log", "", "append engine debug output to this file (default $"+debug.EnvVar+")")

	cmd.AddCommand(
		newSimulateCmd(a),
		newRenderCmd(a),
		newVersionCmd(),
	)
	return cmd
}
