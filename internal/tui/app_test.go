package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/wm"
)

type fakeDaemon struct {
	status  *wm.Status
	clients []wm.ClientInfo
	err     error
	runErr  error
	ran     []string
}

func (f *fakeDaemon) GetStatus() (*wm.Status, error) { return f.status, f.err }

func (f *fakeDaemon) GetClients() ([]wm.ClientInfo, error) { return f.clients, f.err }

func (f *fakeDaemon) Run(action, arg string) error {
	f.ran = append(f.ran, describe(action, arg))
	return f.runErr
}

func newFake() *fakeDaemon {
	return &fakeDaemon{
		status: &wm.Status{
			Tags:    []string{"1", "2", "3"},
			Clients: 1,
			Monitors: []wm.MonitorStatus{
				{Num: 0, Selected: true, Tags: 1, Occupied: 1, Symbol: "[]=", MFact: 0.55, NMaster: 1, Focused: "vim"},
			},
		},
		clients: []wm.ClientInfo{
			{Window: 0x400001, Class: "st", Name: "vim", Tags: 0b101, Focused: true, Visible: true},
		},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model that has received one snapshot from d.
func loaded(t *testing.T, d *fakeDaemon) model {
	t.Helper()
	m := newModel(d, RefreshInterval)
	next, _ := m.Update(m.refresh())
	return next.(model)
}

func TestUpdate_SnapshotFillsTable(t *testing.T) {
	m := loaded(t, newFake())
	want := []table.Row{{"0x400001", "0", "1,3", "*", "st", "vim"}}
	if diff := cmp.Diff(want, m.table.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	view := m.View()
	if !strings.Contains(view, "[]=") || !strings.Contains(view, "mfact 0.55") {
		t.Fatalf("monitor line missing from view:\n%s", view)
	}
}

func TestUpdate_SnapshotErrorKeepsLastState(t *testing.T) {
	d := newFake()
	m := loaded(t, d)
	d.err = errors.New("daemon not running")
	next, _ := m.Update(m.refresh())
	m = next.(model)
	if m.status == nil || len(m.table.Rows()) != 1 {
		t.Fatal("previous snapshot discarded on error")
	}
	if !strings.Contains(m.View(), "daemon not running") {
		t.Fatalf("error not shown:\n%s", m.View())
	}
}

func TestUpdate_NumberKeyViewsTag(t *testing.T) {
	d := newFake()
	m := loaded(t, d)

	_, cmd := m.Update(key("2"))
	if cmd == nil {
		t.Fatal("expected a command for tag key")
	}
	msg := cmd()
	if diff := cmp.Diff([]string{"view [2]"}, d.ran); diff != "" {
		t.Fatalf("ran mismatch (-want +got):\n%s", diff)
	}

	next, _ := m.Update(msg)
	if got := next.(model).message; got != "ran view [2]" {
		t.Fatalf("message = %q", got)
	}
}

func TestUpdate_TagKeyBeyondTagCountIgnored(t *testing.T) {
	d := newFake()
	m := loaded(t, d)
	if _, cmd := m.Update(key("9")); cmd != nil {
		cmd()
	}
	if len(d.ran) != 0 {
		t.Fatalf("unexpected actions: %v", d.ran)
	}
}

func TestUpdate_ActionFailureShown(t *testing.T) {
	d := newFake()
	d.runErr = errors.New("boom")
	m := loaded(t, d)
	_, cmd := m.Update(key("0"))
	next, _ := m.Update(cmd())
	if got := next.(model).message; got != "view failed: boom" {
		t.Fatalf("message = %q", got)
	}
}

func TestUpdate_QuitKey(t *testing.T) {
	m := loaded(t, newFake())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestUpdate_ActionFormOpensAndCancels(t *testing.T) {
	m := loaded(t, newFake())
	next, _ := m.Update(key("a"))
	m = next.(model)
	if m.form == nil {
		t.Fatal("action form not opened")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if next.(model).form != nil {
		t.Fatal("esc did not close the form")
	}
}

func TestActionForm_ValidatesArgument(t *testing.T) {
	f := newActionForm()
	f.action = "setmfact"
	if err := f.validateArg("lots"); err == nil {
		t.Fatal("expected error for non-numeric mfact")
	}
	if err := f.validateArg("+0.05"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.action = "view"
	if err := f.validateArg("[2]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFlags(t *testing.T) {
	got := flags(wm.ClientInfo{Floating: true, Urgent: true})
	if got != "fuh" {
		t.Fatalf("flags = %q", got)
	}
}
