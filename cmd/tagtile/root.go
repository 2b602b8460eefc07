package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "tagtile",
		Short: "A dynamic tiling window manager for X11",
		Long: `tagtile manages X11 windows in tiled, monocle and floating layouts,
organised by tags rather than workspaces.

Run "tagtile daemon" from your X session (for example at the end of
~/.xinitrc). The other commands talk to the running daemon over its
control socket.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(os.Stderr, flags.logLevel, "")
			if err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/tagtile/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config, else info)")

	root.AddCommand(newDaemonCmd(flags))
	root.AddCommand(newStatusCmd())
	root.AddCommand(newClientsCmd())
	root.AddCommand(newActionCmd())
	root.AddCommand(newReloadCmd())
	root.AddCommand(newQuitCmd())
	root.AddCommand(newConfigCmd(flags))
	root.AddCommand(newTopCmd())
	root.AddCommand(newMenuCmd(flags))
	root.AddCommand(newMCPCmd())
	return root
}

// resolveConfigPath returns the --config value or the default location.
func (f *globalFlags) resolveConfigPath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig loads and validates the config file named by the flags.
func (f *globalFlags) loadConfig() (*config.LoadResult, string, error) {
	path, err := f.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return res, path, nil
}

// newLogger builds the slog logger every component receives. The level comes
// from --log-level, then the config file, then info.
func newLogger(w io.Writer, flagLevel, cfgLevel string) (*slog.Logger, error) {
	name := flagLevel
	if name == "" {
		name = cfgLevel
	}
	level := charmlog.InfoLevel
	if name != "" {
		parsed, err := charmlog.ParseLevel(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", name, err)
		}
		level = parsed
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	return slog.New(handler), nil
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger stored by withLogger, or a stderr
// logger at info level.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	l, _ := newLogger(os.Stderr, "", "")
	return l
}
