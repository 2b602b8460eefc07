package mcp

import "github.com/1broseidon/tagtile/internal/wm"

// StatusInput is the input for the wm_status tool.
type StatusInput struct{}

// StatusOutput is the output for the wm_status tool.
type StatusOutput struct {
	Status wm.Status `json:"status"`
	// SelectedTags names the tags in view on the selected monitor.
	SelectedTags []string `json:"selected_tags"`
}

// ListClientsInput is the input for the wm_list_clients tool.
type ListClientsInput struct {
	Monitor     *int `json:"monitor,omitempty" jsonschema:"Only list clients on this monitor number"`
	Tag         int  `json:"tag,omitempty" jsonschema:"Only list clients carrying this one-based tag number"`
	VisibleOnly bool `json:"visible_only,omitempty" jsonschema:"Only list clients whose tags are in view"`
}

// ListClientsOutput is the output for the wm_list_clients tool.
type ListClientsOutput struct {
	Clients []wm.ClientInfo `json:"clients"`
}

// RunActionInput is the input for the wm_run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Action name, for example view, setmfact or togglescratch"`
	Arg    string `json:"arg,omitempty" jsonschema:"Argument in config file syntax, for example [2], +0.05 or y"`
}

// RunActionOutput is the output for the wm_run_action tool.
type RunActionOutput struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
	// Status is the window manager state after the action ran.
	Status *wm.Status `json:"status,omitempty"`
}
