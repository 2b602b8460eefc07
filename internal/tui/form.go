package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/tagtile/internal/config"
)

// actionForm asks for an action and its argument. The bound values live on
// the heap so copies of the model share them with the form.
type actionForm struct {
	form   *huh.Form
	action string
	arg    string
}

func newActionForm() *actionForm {
	f := &actionForm{action: string(config.ActionView)}

	actions := config.RemoteActions()
	options := make([]huh.Option[string], 0, len(actions))
	for _, a := range actions {
		options = append(options, huh.NewOption(string(a), string(a)))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Action").
				Options(options...).
				Value(&f.action),
			huh.NewInput().
				Title("Argument").
				Description("config syntax: [2], all, +0.05, a scratchpad key or a command").
				Value(&f.arg).
				Validate(f.validateArg),
		),
	).WithShowHelp(true)
	return f
}

func (f *actionForm) validateArg(raw string) error {
	_, err := config.ParseArg(config.Action(f.action), raw)
	return err
}
