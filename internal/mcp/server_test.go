package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/ipc"
	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeDaemon struct {
	status  wm.Status
	clients []wm.ClientInfo
	err     error
	runs    [][2]string
}

func (f *fakeDaemon) GetStatus() (*wm.Status, error) {
	if f.err != nil {
		return nil, f.err
	}
	st := f.status
	return &st, nil
}

func (f *fakeDaemon) GetClients() ([]wm.ClientInfo, error) {
	return f.clients, f.err
}

func (f *fakeDaemon) Run(action, arg string) error {
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, [2]string{action, arg})
	return nil
}

func testStatus() wm.Status {
	return wm.Status{
		Tags: []string{"1", "2", "3", "web"},
		Monitors: []wm.MonitorStatus{
			{Num: 0, Tags: 0b0001},
			{Num: 1, Selected: true, Tags: 0b1010},
		},
	}
}

func TestSelectedTags(t *testing.T) {
	st := testStatus()
	if diff := cmp.Diff([]string{"2", "web"}, selectedTags(&st)); diff != "" {
		t.Fatalf("selected tags mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterClients(t *testing.T) {
	clients := []wm.ClientInfo{
		{Window: 1, Monitor: 0, Tags: 0b001, Visible: true},
		{Window: 2, Monitor: 0, Tags: 0b010},
		{Window: 3, Monitor: 1, Tags: 0b110, Visible: true},
	}
	one := 1
	tests := []struct {
		name string
		in   ListClientsInput
		want []uint32
	}{
		{"no filter", ListClientsInput{}, []uint32{1, 2, 3}},
		{"monitor", ListClientsInput{Monitor: &one}, []uint32{3}},
		{"tag", ListClientsInput{Tag: 2}, []uint32{2, 3}},
		{"visible", ListClientsInput{VisibleOnly: true}, []uint32{1, 3}},
		{"no match", ListClientsInput{Tag: 9}, []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []uint32{}
			for _, c := range filterClients(clients, tt.in) {
				got = append(got, c.Window)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleRunAction(t *testing.T) {
	d := &fakeDaemon{status: testStatus()}
	s := NewServer(d, "test", nil)

	_, out, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: " view ", Arg: "[4]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([][2]string{{"view", "[4]"}}, d.runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
	if out.Status == nil || len(out.Status.Monitors) != 2 {
		t.Fatalf("expected the post-action status, got %+v", out)
	}
}

func TestHandleRunAction_RejectsBeforeCallingDaemon(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d, "test", nil)
	for _, name := range []string{"frobnicate", "movemouse", ""} {
		if _, _, err := s.handleRunAction(context.Background(), nil, RunActionInput{Action: name}); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
	if len(d.runs) != 0 {
		t.Fatalf("daemon should not be called, got %v", d.runs)
	}
}

func TestHandleStatus_DaemonNotRunning(t *testing.T) {
	s := NewServer(&fakeDaemon{err: ipc.ErrDaemonNotRunning}, "test", nil)
	_, _, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err == nil || !strings.Contains(err.Error(), "not running") {
		t.Fatalf("expected not-running error, got %v", err)
	}
}

func TestHandleListClients_WrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewServer(&fakeDaemon{err: boom}, "test", nil)
	_, _, err := s.handleListClients(context.Background(), nil, ListClientsInput{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestRunActionDescription_OmitsPointerActions(t *testing.T) {
	desc := runActionDescription()
	if strings.Contains(desc, "movemouse") || !strings.Contains(desc, "togglescratch") {
		t.Fatalf("unexpected description: %s", desc)
	}
}
