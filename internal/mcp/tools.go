package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagtile/internal/ipc"
)

// daemonError turns a control socket failure into a tool error.
func daemonError(op string, err error) error {
	if errors.Is(err, ipc.ErrDaemonNotRunning) {
		return fmt.Errorf("%s: tagtile is not running in this X session (start it with 'tagtile daemon')", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, daemonError("wm_status", err)
	}
	return nil, StatusOutput{Status: *st, SelectedTags: selectedTags(st)}, nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, args ListClientsInput) (*mcpsdk.CallToolResult, ListClientsOutput, error) {
	if args.Tag < 0 {
		return nil, ListClientsOutput{}, fmt.Errorf("tag must be a one-based tag number")
	}
	clients, err := s.daemon.GetClients()
	if err != nil {
		return nil, ListClientsOutput{}, daemonError("wm_list_clients", err)
	}
	return nil, ListClientsOutput{Clients: filterClients(clients, args)}, nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	if err := validateAction(args.Action); err != nil {
		return nil, RunActionOutput{}, err
	}
	action := strings.TrimSpace(args.Action)
	s.logger.Info("mcp action", "action", action, "arg", args.Arg)
	if err := s.daemon.Run(action, args.Arg); err != nil {
		return nil, RunActionOutput{}, daemonError("wm_run_action", err)
	}

	out := RunActionOutput{Action: action, Arg: args.Arg}
	// quit leaves nothing to report on.
	if action != "quit" {
		if st, err := s.daemon.GetStatus(); err == nil {
			out.Status = st
		}
	}
	return nil, out, nil
}
