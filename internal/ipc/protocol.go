package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CommandType represents the type of IPC command
type CommandType string

const (
	// CommandPing checks that the daemon answers
	CommandPing CommandType = "PING"
	// CommandGetStatus returns monitors and their tag state
	CommandGetStatus CommandType = "GET_STATUS"
	// CommandGetClients lists managed clients
	CommandGetClients CommandType = "GET_CLIENTS"
	// CommandRun runs a key action by name
	CommandRun CommandType = "RUN_COMMAND"
	// CommandReload re-reads the configuration file
	CommandReload CommandType = "RELOAD"
	// CommandQuit stops the window manager
	CommandQuit CommandType = "QUIT"
)

// Response status values.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// ErrDaemonNotRunning is returned by the client when nothing listens on the
// control socket.
var ErrDaemonNotRunning = errors.New("tagtile daemon is not running")

// Request represents an IPC request from client to daemon
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from daemon to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RunPayload names the action for RUN_COMMAND. Arg is parsed with the same
// rules as binding arguments in the config file.
type RunPayload struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
}

// PingData is returned by PING.
type PingData struct {
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: StatusOK}

	if data != nil {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		resp.Data = dataBytes
	}

	return resp, nil
}

// NewErrorResponse creates an error response
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a JSON request
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, errors.New("missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
