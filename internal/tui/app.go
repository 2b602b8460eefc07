// Package tui is the interactive dashboard behind "tagtile top": a live view
// of monitors, tags and clients with a small action launcher.
package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/tagtile/internal/wm"
)

// RefreshInterval is how often the dashboard polls the daemon.
const RefreshInterval = time.Second

// Daemon is the part of the control socket client the dashboard uses.
type Daemon interface {
	GetStatus() (*wm.Status, error)
	GetClients() ([]wm.ClientInfo, error)
	Run(action, arg string) error
}

type snapshotMsg struct {
	status  *wm.Status
	clients []wm.ClientInfo
	err     error
}

type tickMsg time.Time

type actionDoneMsg struct {
	action string
	arg    string
	err    error
}

// model is the root bubbletea model.
type model struct {
	daemon   Daemon
	interval time.Duration

	status  *wm.Status
	clients []wm.ClientInfo
	err     error
	message string

	table table.Model
	form  *actionForm

	width  int
	height int
}

func newModel(d Daemon, interval time.Duration) model {
	return model{
		daemon:   d,
		interval: interval,
		table:    newClientTable(),
	}
}

// Run starts the dashboard on the terminal and blocks until the user quits.
func Run(d Daemon) error {
	p := tea.NewProgram(newModel(d, RefreshInterval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) refresh() tea.Msg {
	st, err := m.daemon.GetStatus()
	if err != nil {
		return snapshotMsg{err: err}
	}
	clients, err := m.daemon.GetClients()
	return snapshotMsg{status: st, clients: clients, err: err}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) run(action, arg string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: action, arg: arg, err: m.daemon.Run(action, arg)}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh, m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.tableHeight())
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh, m.tick())

	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.clients = msg.clients
			m.table.SetRows(clientRows(m.clients, m.status.Tags))
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.message = "ran " + describe(msg.action, msg.arg)
		}
		return m, m.refresh
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch key := km.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refresh
		case "a", ":":
			m.form = newActionForm()
			return m, m.form.form.Init()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			n, _ := strconv.Atoi(key)
			if m.status == nil || n > len(m.status.Tags) {
				return m, nil
			}
			return m, m.run("view", fmt.Sprintf("[%d]", n))
		case "0":
			return m, m.run("view", "all")
		case " ":
			return m, m.run("setlayout", "")
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateForm feeds input to the action launcher while it is open.
func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.form = f
	}

	switch m.form.form.State {
	case huh.StateCompleted:
		action, arg := m.form.action, m.form.arg
		m.form = nil
		return m, m.run(action, arg)
	case huh.StateAborted:
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// tableHeight is the space left for the client table below the header.
func (m model) tableHeight() int {
	used := 4
	if m.status != nil {
		used += len(m.status.Monitors)
	}
	return max(3, m.height-used)
}

func describe(action, arg string) string {
	if arg == "" {
		return action
	}
	return action + " " + arg
}
