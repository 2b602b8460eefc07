package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/tui"
)

func newTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Live dashboard of monitors, tags and clients",
		Long: `Open an interactive view of the running window manager. It refreshes
every second; number keys view a tag and "a" runs any action.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("top requires an interactive terminal")
			}
			client := ipc.NewClient()
			if _, err := client.Ping(); err != nil {
				return err
			}
			return tui.Run(client)
		},
	}
}
