package wm

import (
	"math/bits"
	"slices"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/tiling"
)

// Pertag remembers per-tag view settings. Index 0 stands for the view of
// all tags; index i+1 for tag i.
type Pertag struct {
	CurTag, PrevTag int
	NMasters        []int
	MFacts          []float64
	SelLts          []int
	LtIdxs          [][2]int
	ShowBars        []bool
	// Sel is the last focused client on each tag, re-selected when the tag
	// is viewed again.
	Sel []xproto.Window
}

// Monitor is one physical screen region with its own view and layout.
type Monitor struct {
	Num      int
	LtSymbol string
	MFact    float64
	NMaster  int

	MX, MY, MW, MH int
	WX, WY, WW, WH int
	BY             int

	SelTags int
	TagSet  [2]uint32
	SelLt   int
	Lt      [2]int

	ShowBar bool
	TopBar  bool

	// Clients is manage order; Stack is focus order, most recent first.
	Clients []xproto.Window
	Stack   []xproto.Window
	Sel     xproto.Window

	BarWin xproto.Window
	Pertag *Pertag
}

func (e *Engine) createMon() *Monitor {
	m := &Monitor{
		MFact:   e.cfg.MFact,
		NMaster: e.cfg.NMaster,
		ShowBar: e.cfg.ShowBar,
		TopBar:  e.cfg.TopBar,
		TagSet:  [2]uint32{1, 1},
		Lt:      [2]int{0, min(1, len(e.layouts)-1)},
	}
	m.LtSymbol = e.layouts[0].Symbol
	n := len(e.cfg.Tags) + 1
	p := &Pertag{
		CurTag:   1,
		PrevTag:  1,
		NMasters: make([]int, n),
		MFacts:   make([]float64, n),
		SelLts:   make([]int, n),
		LtIdxs:   make([][2]int, n),
		ShowBars: make([]bool, n),
		Sel:      make([]xproto.Window, n),
	}
	for i := range n {
		p.NMasters[i] = m.NMaster
		p.MFacts[i] = m.MFact
		p.LtIdxs[i] = m.Lt
		p.ShowBars[i] = m.ShowBar
	}
	m.Pertag = p
	return m
}

// Rect returns the monitor's screen rectangle.
func (m *Monitor) Rect() tiling.Rect {
	return tiling.Rect{X: m.MX, Y: m.MY, Width: m.MW, Height: m.MH}
}

// WorkArea returns the screen rectangle minus the bar.
func (m *Monitor) WorkArea() tiling.Rect {
	return tiling.Rect{X: m.WX, Y: m.WY, Width: m.WW, Height: m.WH}
}

func (m *Monitor) updateBarPos(bh int) {
	m.WY = m.MY
	m.WH = m.MH
	if m.ShowBar {
		m.WH -= bh
		if m.TopBar {
			m.BY = m.WY
			m.WY += bh
		} else {
			m.BY = m.WY + m.WH
		}
	} else {
		m.BY = -bh
	}
}

// viewTag is the pertag index for a tag mask: the lowest set tag, or 0 for
// the all-tags view.
func viewTag(mask, all uint32) int {
	if mask == all {
		return 0
	}
	return bits.TrailingZeros32(mask) + 1
}

func (m *Monitor) attach(w xproto.Window) {
	m.Clients = slices.Insert(m.Clients, 0, w)
}

func (m *Monitor) detach(w xproto.Window) {
	m.Clients = slices.DeleteFunc(m.Clients, func(x xproto.Window) bool { return x == w })
}

func (m *Monitor) attachStack(w xproto.Window) {
	m.Stack = slices.Insert(m.Stack, 0, w)
}

func (m *Monitor) detachStack(w xproto.Window) {
	m.Stack = slices.DeleteFunc(m.Stack, func(x xproto.Window) bool { return x == w })
}

func (e *Engine) client(w xproto.Window) *Client {
	if w == 0 {
		return nil
	}
	return e.clients[w]
}

// sel returns the selected client of m.
func (e *Engine) sel(m *Monitor) *Client {
	if m == nil {
		return nil
	}
	return e.client(m.Sel)
}

func (e *Engine) layout(m *Monitor) tiling.Layout {
	return e.layouts[m.Lt[m.SelLt]]
}

// tiled returns the visible, non-floating clients of m in manage order.
func (e *Engine) tiled(m *Monitor) []*Client {
	var out []*Client
	for _, w := range m.Clients {
		if c := e.clients[w]; c != nil && c.Visible() && !c.IsFloating {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) visibleCount(m *Monitor) int {
	n := 0
	for _, w := range m.Clients {
		if c := e.clients[w]; c != nil && c.Visible() {
			n++
		}
	}
	return n
}

// dirToMon returns the monitor next to the selected one in the ring.
func (e *Engine) dirToMon(dir int) *Monitor {
	i := slices.Index(e.mons, e.selmon)
	n := len(e.mons)
	if dir > 0 {
		return e.mons[(i+1)%n]
	}
	return e.mons[(i-1+n)%n]
}

// winToMon resolves the monitor responsible for a window: the root window
// maps to the monitor under the pointer, bars to their monitor, clients to
// their owner.
func (e *Engine) winToMon(w xproto.Window) *Monitor {
	if w == e.root {
		if x, y, ok := e.srv.Pointer(); ok {
			return RectToMon(e.mons, e.selmon, x, y, 1, 1)
		}
	}
	for _, m := range e.mons {
		if w != 0 && w == m.BarWin {
			return m
		}
	}
	if c := e.client(w); c != nil {
		return c.Mon
	}
	return e.selmon
}
