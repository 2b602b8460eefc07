package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/palette"
)

func newMenuCmd(flags *globalFlags) *cobra.Command {
	var launcher string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Pick an action from a rofi or dmenu menu",
		Long: `Show the window manager's actions in rofi or dmenu and run the one
picked. Tags in view and the current layout are highlighted. Bind it to
a key with: spawn: tagtile menu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := palette.NewBackend(launcher)
			if err != nil {
				return err
			}
			res, _, err := flags.loadConfig()
			if err != nil {
				return err
			}
			client := ipc.NewClient()
			st, err := client.GetStatus()
			if err != nil {
				return err
			}

			picked, err := palette.NewMenu(backend, "tagtile", palette.Entries(res.Config, st)).Show()
			if errors.Is(err, palette.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("running menu action", "action", picked.Action, "arg", picked.Arg)
			return client.Run(picked.Action, picked.Arg)
		},
	}
	cmd.Flags().StringVar(&launcher, "launcher", "auto", "menu program: auto, rofi or dmenu")
	return cmd
}
