package daemon

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

// controller is the part of the engine the control socket drives.
type controller interface {
	Status() wm.Status
	Clients() []wm.ClientInfo
	Run(action config.Action, arg config.Arg) error
	Quit()
}

// control answers control socket requests. It runs on the loop goroutine.
type control struct {
	wm      controller
	reload  func() error
	version string
	started time.Time
	now     func() time.Time
}

func newControl(ctl controller, reload func() error, version string, started time.Time) *control {
	return &control{wm: ctl, reload: reload, version: version, started: started, now: time.Now}
}

func (c *control) handle(req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CommandPing:
		return ok(ipc.PingData{
			Version:       c.version,
			UptimeSeconds: int64(c.now().Sub(c.started).Seconds()),
		})
	case ipc.CommandGetStatus:
		return ok(c.wm.Status())
	case ipc.CommandGetClients:
		clients := c.wm.Clients()
		if clients == nil {
			clients = []wm.ClientInfo{}
		}
		return ok(clients)
	case ipc.CommandRun:
		return c.run(req.Payload)
	case ipc.CommandReload:
		if err := c.reload(); err != nil {
			return ipc.NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
		}
		return ok(nil)
	case ipc.CommandQuit:
		c.wm.Quit()
		return ok(nil)
	default:
		return ipc.NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (c *control) run(payload json.RawMessage) *ipc.Response {
	var p ipc.RunPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ipc.NewErrorResponse(fmt.Sprintf("Invalid run payload: %v", err))
	}
	action := config.Action(p.Action)
	if _, known := config.ArgKindOf(action); !known {
		return ipc.NewErrorResponse(fmt.Sprintf("unknown action: %s", p.Action))
	}
	arg, err := config.ParseArg(action, p.Arg)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	if err := c.wm.Run(action, arg); err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func ok(data any) *ipc.Response {
	resp, err := ipc.NewOKResponse(data)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}
