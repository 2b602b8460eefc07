package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/daemon"
	"github.com/1broseidon/tagtile/internal/wm"
)

func newDaemonCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the window manager in the foreground",
		Long: `Take over window management on $DISPLAY and run until quit.

The config file is watched and reloaded on change; SIGHUP and
"tagtile reload" reload it as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, path, err := flags.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, err := newLogger(os.Stderr, flags.logLevel, res.Config.LogLevel)
			if err != nil {
				return err
			}
			if res.File == "" {
				logger.Info("no config file, using defaults", "path", path)
			}

			err = daemon.Run(cmd.Context(), daemon.Options{
				ConfigPath: path,
				Config:     res.Config,
				Version:    version,
				Logger:     logger,
			})
			if errors.Is(err, wm.ErrOtherWM) {
				return fmt.Errorf("cannot start: %w", err)
			}
			return err
		},
	}
}
