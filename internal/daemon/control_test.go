package daemon

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

type runCall struct {
	Action config.Action
	Arg    config.Arg
}

type fakeController struct {
	status  wm.Status
	clients []wm.ClientInfo
	runs    []runCall
	runErr  error
	quit    bool
}

func (f *fakeController) Status() wm.Status        { return f.status }
func (f *fakeController) Clients() []wm.ClientInfo { return f.clients }
func (f *fakeController) Quit()                    { f.quit = true }

func (f *fakeController) Run(action config.Action, arg config.Arg) error {
	f.runs = append(f.runs, runCall{action, arg})
	return f.runErr
}

func newTestControl(f *fakeController, reload func() error) *control {
	started := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newControl(f, reload, "v1.2.3", started)
	c.now = func() time.Time { return started.Add(90 * time.Second) }
	return c
}

func runRequest(t *testing.T, action, arg string) *ipc.Request {
	t.Helper()
	payload, err := json.Marshal(ipc.RunPayload{Action: action, Arg: arg})
	if err != nil {
		t.Fatal(err)
	}
	return &ipc.Request{Command: ipc.CommandRun, Payload: payload}
}

func TestControl_Ping(t *testing.T) {
	c := newTestControl(&fakeController{}, nil)
	resp := c.handle(&ipc.Request{Command: ipc.CommandPing})
	if resp.Status != ipc.StatusOK {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	var got ipc.PingData
	if err := json.Unmarshal(resp.Data, &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ipc.PingData{Version: "v1.2.3", UptimeSeconds: 90}, got); diff != "" {
		t.Fatalf("ping mismatch (-want +got):\n%s", diff)
	}
}

func TestControl_GetClientsNeverNull(t *testing.T) {
	c := newTestControl(&fakeController{}, nil)
	resp := c.handle(&ipc.Request{Command: ipc.CommandGetClients})
	if string(resp.Data) != "[]" {
		t.Fatalf("expected an empty list, got %s", resp.Data)
	}
}

func TestControl_RunParsesTypedArgs(t *testing.T) {
	tests := []struct {
		action string
		arg    string
		want   runCall
	}{
		{"view", "[2]", runCall{config.ActionView, config.TagArg(1)}},
		{"view", "all", runCall{config.ActionView, config.AllTags}},
		{"setmfact", "+0.05", runCall{config.ActionSetMFact, config.FloatArg(0.05)}},
		{"focusstack", "-1", runCall{config.ActionFocusStack, config.IntArg(-1)}},
		{"togglescratch", "y", runCall{config.ActionToggleScratch, config.ScratchArg('y')}},
		{"setlayout", "", runCall{config.ActionSetLayout, config.NoArg{}}},
		{"zoom", "", runCall{config.ActionZoom, config.NoArg{}}},
	}
	for _, tt := range tests {
		t.Run(tt.action+" "+tt.arg, func(t *testing.T) {
			f := &fakeController{}
			resp := newTestControl(f, nil).handle(runRequest(t, tt.action, tt.arg))
			if resp.Status != ipc.StatusOK {
				t.Fatalf("unexpected error: %s", resp.Error)
			}
			if diff := cmp.Diff([]runCall{tt.want}, f.runs); diff != "" {
				t.Fatalf("run mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestControl_RunRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		arg     string
		wantErr string
	}{
		{"unknown action", "frobnicate", "", "unknown action"},
		{"missing arg", "setmfact", "", "numeric argument is required"},
		{"unexpected arg", "zoom", "1", "takes no argument"},
		{"long scratch key", "togglescratch", "yy", "single-character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeController{}
			resp := newTestControl(f, nil).handle(runRequest(t, tt.action, tt.arg))
			if resp.Status != ipc.StatusError || !strings.Contains(resp.Error, tt.wantErr) {
				t.Fatalf("expected error containing %q, got %+v", tt.wantErr, resp)
			}
			if len(f.runs) != 0 {
				t.Fatalf("action should not run, got %+v", f.runs)
			}
		})
	}
}

func TestControl_RunSurfacesEngineError(t *testing.T) {
	f := &fakeController{runErr: errors.New("movemouse needs a pointer button press")}
	resp := newTestControl(f, nil).handle(runRequest(t, "movemouse", ""))
	if resp.Status != ipc.StatusError || !strings.Contains(resp.Error, "pointer button") {
		t.Fatalf("expected engine error, got %+v", resp)
	}
}

func TestControl_ReloadAndQuit(t *testing.T) {
	f := &fakeController{}
	reloads := 0
	c := newTestControl(f, func() error {
		reloads++
		if reloads > 1 {
			return errors.New("bad colors")
		}
		return nil
	})

	if resp := c.handle(&ipc.Request{Command: ipc.CommandReload}); resp.Status != ipc.StatusOK {
		t.Fatalf("first reload failed: %s", resp.Error)
	}
	if resp := c.handle(&ipc.Request{Command: ipc.CommandReload}); !strings.Contains(resp.Error, "bad colors") {
		t.Fatalf("expected reload error, got %+v", resp)
	}
	if resp := c.handle(&ipc.Request{Command: ipc.CommandQuit}); resp.Status != ipc.StatusOK || !f.quit {
		t.Fatalf("quit not delivered: %+v quit=%v", resp, f.quit)
	}
	if resp := c.handle(&ipc.Request{Command: "DANCE"}); resp.Status != ipc.StatusError {
		t.Fatalf("expected error for unknown command, got %+v", resp)
	}
}
