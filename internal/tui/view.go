package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagtile/internal/wm"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	selectedTagStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	occupiedTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	urgentTagStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("167"))
	emptyTagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

const helpText = "1-9: view tag  0: all tags  space: toggle layout  a: run action  r: refresh  q: quit"

func newClientTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Window", Width: 10},
			{Title: "Mon", Width: 3},
			{Title: "Tags", Width: 8},
			{Title: "Flags", Width: 5},
			{Title: "Class", Width: 14},
			{Title: "Title", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62"))
	t.SetStyles(styles)
	return t
}

func clientRows(clients []wm.ClientInfo, tags []string) []table.Row {
	rows := make([]table.Row, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, table.Row{
			fmt.Sprintf("0x%x", c.Window),
			fmt.Sprint(c.Monitor),
			strings.Join(tagNames(c.Tags, tags), ","),
			flags(c),
			c.Class,
			c.Name,
		})
	}
	return rows
}

func tagNames(mask uint32, names []string) []string {
	out := []string{}
	for i, name := range names {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// flags summarizes client state: * focused, f floating, F fullscreen,
// u urgent, h hidden.
func flags(c wm.ClientInfo) string {
	var b strings.Builder
	if c.Focused {
		b.WriteByte('*')
	}
	if c.Floating {
		b.WriteByte('f')
	}
	if c.Fullscreen {
		b.WriteByte('F')
	}
	if c.Urgent {
		b.WriteByte('u')
	}
	if !c.Visible {
		b.WriteByte('h')
	}
	return b.String()
}

func tagStrip(m wm.MonitorStatus, names []string) string {
	cells := make([]string, 0, len(names))
	for i, name := range names {
		bit := uint32(1) << uint(i)
		style := emptyTagStyle
		switch {
		case m.Urgent&bit != 0:
			style = urgentTagStyle
		case m.Tags&bit != 0:
			style = selectedTagStyle
		case m.Occupied&bit != 0:
			style = occupiedTagStyle
		}
		cells = append(cells, style.Render(" "+name+" "))
	}
	return strings.Join(cells, "")
}

func monitorLine(m wm.MonitorStatus, names []string) string {
	marker := " "
	if m.Selected {
		marker = "*"
	}
	return fmt.Sprintf("%s%d %s %s  mfact %.2f  nmaster %d  %s",
		marker, m.Num, tagStrip(m, names), m.Symbol, m.MFact, m.NMaster, m.Focused)
}

func (m model) header() string {
	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render("● ") + m.err.Error()
	case m.status == nil:
		status = "connecting..."
	default:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("● ") +
			fmt.Sprintf("%d clients  %d tray icons", m.status.Clients, m.status.TrayIcons)
		if m.status.StatusText != "" {
			status += "  │ " + m.status.StatusText
		}
		if m.status.PendingScratch != "" {
			status += "  │ scratchpad " + m.status.PendingScratch + " pending"
		}
	}
	if m.width > 0 {
		return barStyle.Width(m.width).Render(status)
	}
	return barStyle.Render(status)
}

// View implements tea.Model.
func (m model) View() string {
	sections := []string{m.header()}
	if m.status != nil {
		for _, mon := range m.status.Monitors {
			sections = append(sections, monitorLine(mon, m.status.Tags))
		}
	}
	if m.form != nil {
		sections = append(sections, "", m.form.form.View())
	} else {
		sections = append(sections, "", m.table.View())
	}
	if m.message != "" {
		sections = append(sections, m.message)
	}
	sections = append(sections, helpStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
