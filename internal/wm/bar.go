package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/config"
)

// DefaultStatus is shown when the root window has no name.
const DefaultStatus = "tagtile"

const (
	// IconSize is the edge of the window icon drawn before the title.
	IconSize    = 16
	iconSpacing = 5
)

// Scheme selects a color scheme for a bar cell.
type Scheme int

const (
	SchemeNorm Scheme = iota
	SchemeSel
)

// BarIcon is a window icon in ARGB, one pixel per element.
type BarIcon struct {
	Width, Height int
	ARGB          []uint32
}

// BarCell is one painted region of a bar. Text starts Pad pixels in.
type BarCell struct {
	X, W   int
	Text   string
	Pad    int
	Scheme Scheme
	// Invert swaps foreground and background.
	Invert bool
	// Box draws the small square in the top left corner; BoxFilled fills it.
	Box       bool
	BoxFilled bool
	Icon      *BarIcon
}

// BarState is everything the drawer needs to paint one bar.
type BarState struct {
	Win    xproto.Window
	Width  int
	Height int
	Cells  []BarCell
}

func (e *Engine) textW(s string) int {
	return e.draw.TextWidth(s) + e.lrpad
}

// barWidth is the bar width of m, leaving room for the tray.
func (e *Engine) barWidth(m *Monitor) int {
	w := m.WW
	if m == e.systrayMon() {
		w -= e.systrayWidth()
	}
	return max(w, 1)
}

// barState lays out the bar of m the way it is drawn and clicked.
func (e *Engine) barState(m *Monitor) BarState {
	stw := 0
	if m == e.systrayMon() {
		stw = e.systrayWidth()
	}
	bar := BarState{Win: m.BarWin, Width: max(m.WW-stw, 1), Height: e.bh}

	tw := 0
	if m == e.selmon {
		tw = e.textW(e.status) - e.lrpad/2 + 2
		bar.Cells = append(bar.Cells, BarCell{
			X: m.WW - tw - stw, W: tw, Text: e.status, Pad: e.lrpad/2 - 2, Scheme: SchemeNorm,
		})
	}

	var occ, urg uint32
	for _, w := range m.Clients {
		c := e.clients[w]
		if c == nil {
			continue
		}
		occ |= c.Tags
		if c.IsUrgent {
			urg |= c.Tags
		}
	}
	sel := e.sel(m)
	x := 0
	for i, name := range e.cfg.Tags {
		bit := uint32(1) << uint(i)
		w := e.textW(name)
		scheme := SchemeNorm
		if m.TagSet[m.SelTags]&bit != 0 {
			scheme = SchemeSel
		}
		bar.Cells = append(bar.Cells, BarCell{
			X: x, W: w, Text: name, Pad: e.lrpad / 2, Scheme: scheme,
			Invert:    urg&bit != 0,
			Box:       occ&bit != 0,
			BoxFilled: m == e.selmon && sel != nil && sel.Tags&bit != 0,
		})
		x += w
	}
	w := e.textW(m.LtSymbol)
	bar.Cells = append(bar.Cells, BarCell{X: x, W: w, Text: m.LtSymbol, Pad: e.lrpad / 2, Scheme: SchemeNorm})
	x += w

	if w = m.WW - tw - stw - x; w > e.bh {
		if sel != nil {
			scheme := SchemeNorm
			if m == e.selmon {
				scheme = SchemeSel
			}
			cell := BarCell{
				X: x, W: w, Text: sel.Name, Pad: e.lrpad / 2, Scheme: scheme,
				Box: sel.IsFloating, BoxFilled: sel.IsFixed,
			}
			if sel.Icon != nil {
				cell.Icon = &BarIcon{Width: sel.IconW, Height: sel.IconH, ARGB: sel.Icon}
				cell.Pad += IconSize + iconSpacing
			}
			bar.Cells = append(bar.Cells, cell)
		} else {
			bar.Cells = append(bar.Cells, BarCell{X: x, W: w, Scheme: SchemeNorm})
		}
	}
	return bar
}

func (e *Engine) drawBar(m *Monitor) {
	if m == nil || !m.ShowBar || m.BarWin == 0 {
		return
	}
	e.draw.DrawBar(e.barState(m))
}

func (e *Engine) drawBars() {
	for _, m := range e.mons {
		e.drawBar(m)
	}
}

// barClick resolves a click at x on the bar of m to a click region. Tag
// clicks carry the clicked tag.
func (e *Engine) barClick(m *Monitor, x int) (config.Click, config.Arg) {
	pos := 0
	for i, name := range e.cfg.Tags {
		pos += e.textW(name)
		if x < pos {
			return config.ClickTagBar, config.TagArg(i)
		}
	}
	stw := 0
	if m == e.systrayMon() {
		stw = e.systrayWidth()
	}
	switch {
	case x < pos+e.textW(m.LtSymbol):
		return config.ClickLtSymbol, config.NoArg{}
	case x > m.WW-e.textW(e.status)-stw:
		return config.ClickStatusText, config.NoArg{}
	default:
		return config.ClickWinTitle, config.NoArg{}
	}
}

func (e *Engine) updateStatus() {
	e.status = e.srv.RootName()
	if e.status == "" {
		e.status = DefaultStatus
	}
	e.drawBar(e.selmon)
}
