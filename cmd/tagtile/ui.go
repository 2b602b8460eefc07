package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/1broseidon/tagtile/internal/wm"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleOccupied = lipgloss.NewStyle().Foreground(colorWhite)
	styleUrgent   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleEmpty    = lipgloss.NewStyle().Foreground(colorDim)
)

// isTerminal reports whether w is a terminal, so output can be styled.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// tagNames lists the names of the tags set in mask.
func tagNames(mask uint32, names []string) []string {
	out := []string{}
	for i, name := range names {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// tagStrip renders every tag of a monitor the way the bar does: selected,
// occupied, urgent or empty.
func tagStrip(m wm.MonitorStatus, names []string, styled bool) string {
	parts := make([]string, 0, len(names))
	for i, name := range names {
		bit := uint32(1) << uint(i)
		if !styled {
			switch {
			case m.Tags&bit != 0:
				parts = append(parts, "["+name+"]")
			case m.Urgent&bit != 0:
				parts = append(parts, "!"+name)
			case m.Occupied&bit != 0:
				parts = append(parts, name)
			}
			continue
		}
		style := styleEmpty
		switch {
		case m.Urgent&bit != 0:
			style = styleUrgent
		case m.Tags&bit != 0:
			style = styleSelected
		case m.Occupied&bit != 0:
			style = styleOccupied
		}
		parts = append(parts, style.Render(name))
	}
	return strings.Join(parts, " ")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// renderStatus prints one line per monitor, or a table on a terminal.
func renderStatus(w io.Writer, st *wm.Status, styled bool) {
	if !styled {
		for _, m := range st.Monitors {
			sel := " "
			if m.Selected {
				sel = "*"
			}
			fmt.Fprintf(w, "%s%d %s %s mfact=%.2f nmaster=%d clients=%d %s\n",
				sel, m.Num, tagStrip(m, st.Tags, false), m.Symbol, m.MFact, m.NMaster, m.Clients, m.Focused)
		}
		fmt.Fprintf(w, "status: %s\n", st.StatusText)
		if st.PendingScratch != "" {
			fmt.Fprintf(w, "pending scratchpad: %s\n", st.PendingScratch)
		}
		return
	}

	t := newTable("", "Mon", "Tags", "Layout", "MFact", "NMaster", "Clients", "Focused")
	for _, m := range st.Monitors {
		sel := ""
		if m.Selected {
			sel = styleSelected.Render("›")
		}
		t.Row(sel, fmt.Sprint(m.Num), tagStrip(m, st.Tags, true), m.Symbol,
			fmt.Sprintf("%.2f", m.MFact), fmt.Sprint(m.NMaster), fmt.Sprint(m.Clients), m.Focused)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%s %s\n", styleHeader.Render("status"), st.StatusText)
	if st.TrayIcons > 0 {
		fmt.Fprintf(w, "%s %d\n", styleHeader.Render("tray icons"), st.TrayIcons)
	}
	if st.PendingScratch != "" {
		fmt.Fprintf(w, "%s %s\n", styleHeader.Render("pending scratchpad"), st.PendingScratch)
	}
}

// clientFlags abbreviates a client's state: focused, floating, fullscreen,
// urgent, hidden.
func clientFlags(c wm.ClientInfo) string {
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
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// renderClients prints one tab-separated line per client, or a table on a
// terminal.
func renderClients(w io.Writer, clients []wm.ClientInfo, tags []string, styled bool) {
	if !styled {
		for _, c := range clients {
			fmt.Fprintf(w, "0x%x\t%d\t%s\t%s\t%s\t%s\n", c.Window, c.Monitor,
				strings.Join(tagNames(c.Tags, tags), ","), clientFlags(c), c.Class, c.Name)
		}
		return
	}

	t := newTable("Window", "Mon", "Tags", "Flags", "Class", "Title", "Geometry")
	for _, c := range clients {
		g := c.Geometry
		t.Row(fmt.Sprintf("0x%x", c.Window), fmt.Sprint(c.Monitor),
			strings.Join(tagNames(c.Tags, tags), ","), clientFlags(c), c.Class, c.Name,
			fmt.Sprintf("%dx%d+%d+%d", g.Width, g.Height, g.X, g.Y))
	}
	fmt.Fprintln(w, t.Render())
}
