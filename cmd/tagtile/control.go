package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show monitors, tags and layouts of the running window manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, st)
			}
			renderStatus(out, st, isTerminal(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw status as JSON")
	return cmd
}

func newClientsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List managed windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := ipc.NewClient()
			clients, err := client.GetClients()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, clients)
			}
			st, err := client.GetStatus()
			if err != nil {
				return err
			}
			renderClients(out, clients, st.Tags, isTerminal(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the client list as JSON")
	return cmd
}

func actionHelp() string {
	var b strings.Builder
	b.WriteString("Run a key binding action in the running window manager.\n\n")
	b.WriteString("The argument uses config file syntax: tag lists such as [2] or [1,3]\n")
	b.WriteString("or \"all\", mfact deltas such as +0.05, a scratchpad key, or a shell\n")
	b.WriteString("command for spawn.\n\nActions:\n")
	for _, a := range config.Actions() {
		fmt.Fprintf(&b, "  %s\n", a)
	}
	return b.String()
}

func newActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "action <name> [arg]",
		Short:   "Run a window manager action",
		Long:    actionHelp(),
		Example: "  tagtile action view [2]\n  tagtile action setmfact +0.05\n  tagtile action togglescratch y\n  tagtile action spawn 'st -e htop'",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			action := config.Action(args[0])
			if _, ok := config.ArgKindOf(action); !ok {
				return fmt.Errorf("unknown action %q (see 'tagtile action --help')", args[0])
			}
			arg := ""
			if len(args) == 2 {
				arg = args[1]
			}
			if _, err := config.ParseArg(action, arg); err != nil {
				return err
			}
			return ipc.NewClient().Run(args[0], arg)
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the config file in the running window manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := ipc.NewClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}

func newQuitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quit",
		Short: "Stop the running window manager",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return ipc.NewClient().Quit()
		},
	}
}
