// Package mcp exposes the window manager to MCP clients as tools. Every tool
// goes through the control socket; the server holds no window state itself.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

const ServerName = "tagtile"

// Daemon is the control socket surface the tools use.
type Daemon interface {
	GetStatus() (*wm.Status, error)
	GetClients() ([]wm.ClientInfo, error)
	Run(action, arg string) error
}

// Server is the MCP server for tagtile.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives the daemon behind d.
func NewServer(d Daemon, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{daemon: d, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_status",
		Description: "Report every monitor of the tagtile window manager: selected, occupied and urgent tags, the layout symbol, mfact, nmaster and the focused window title.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_list_clients",
		Description: "List managed windows with their class, title, tags, monitor, geometry and floating/fullscreen/urgent state. Filter by monitor, tag or visibility.",
	}, s.handleListClients)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_run_action",
		Description: runActionDescription(),
	}, s.handleRunAction)
}

func runActionDescription() string {
	actions := config.RemoteActions()
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	return "Run a window manager action as if its key binding was pressed. " +
		"Tag arguments are a list of one-based tag numbers such as [2] or \"all\"; " +
		"setmfact takes a delta such as +0.05; togglescratch takes the scratchpad key. " +
		"Actions: " + strings.Join(names, ", ") + "."
}

// selectedTags names the tags in view on the selected monitor.
func selectedTags(st *wm.Status) []string {
	names := []string{}
	for _, m := range st.Monitors {
		if !m.Selected {
			continue
		}
		for i, name := range st.Tags {
			if m.Tags&(1<<uint(i)) != 0 {
				names = append(names, name)
			}
		}
	}
	return names
}

// filterClients applies the wm_list_clients filters.
func filterClients(clients []wm.ClientInfo, in ListClientsInput) []wm.ClientInfo {
	out := []wm.ClientInfo{}
	for _, c := range clients {
		if in.Monitor != nil && c.Monitor != *in.Monitor {
			continue
		}
		if in.Tag > 0 && c.Tags&(1<<uint(in.Tag-1)) == 0 {
			continue
		}
		if in.VisibleOnly && !c.Visible {
			continue
		}
		out = append(out, c)
	}
	return out
}

func validateAction(name string) error {
	action := config.Action(strings.TrimSpace(name))
	if _, ok := config.ArgKindOf(action); !ok {
		return fmt.Errorf("unknown action %q", name)
	}
	if action.NeedsPointer() {
		return fmt.Errorf("%s needs a pointer button press", action)
	}
	return nil
}
