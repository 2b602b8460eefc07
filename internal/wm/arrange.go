package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/tiling"
)

func rectOf(x, y, w, h int) tiling.Rect {
	return tiling.Rect{X: x, Y: y, Width: w, Height: h}
}

// arrange shows and hides clients per the view of m, then lays it out and
// restacks it. A nil m arranges every monitor.
func (e *Engine) arrange(m *Monitor) {
	if m != nil {
		e.showHide(m)
		e.arrangeMon(m)
		e.restack(m)
		return
	}
	for _, m := range e.mons {
		e.showHide(m)
	}
	for _, m := range e.mons {
		e.arrangeMon(m)
		e.restack(m)
	}
}

// showHide moves visible clients into place top-down and hidden clients off
// screen bottom-up. Hidden clients stay mapped.
func (e *Engine) showHide(m *Monitor) {
	tiles := e.layout(m).Tiles()
	for _, w := range m.Stack {
		c := e.clients[w]
		if c == nil || !c.Visible() {
			continue
		}
		e.srv.Move(c.Win, c.X, c.Y)
		if (!tiles || c.IsFloating) && !c.IsFullscreen {
			e.resize(c, c.X, c.Y, c.W, c.H, false)
		}
	}
	for i := len(m.Stack) - 1; i >= 0; i-- {
		c := e.clients[m.Stack[i]]
		if c == nil || c.Visible() {
			continue
		}
		e.srv.Move(c.Win, c.OuterWidth()*-2, c.Y)
	}
}

func (e *Engine) arrangeMon(m *Monitor) {
	l := e.layout(m)
	tiled := e.tiled(m)
	m.LtSymbol = tiling.Symbol(l, e.visibleCount(m), len(tiled), m.NMaster)
	if !l.Tiles() {
		return
	}
	rects := tiling.Arrange(l.Kind, tiling.Params{
		Area:        m.WorkArea(),
		N:           len(tiled),
		NMaster:     m.NMaster,
		MFact:       m.MFact,
		BorderWidth: e.cfg.BorderPx,
		Gap:         e.cfg.GapPx,
	})
	for i, c := range tiled {
		if i >= len(rects) {
			break
		}
		r := rects[i]
		e.resize(c, r.X, r.Y, r.Width, r.Height, false)
	}
}

// resize applies size hints and moves the client if anything changed.
func (e *Engine) resize(c *Client, x, y, w, h int, interact bool) {
	if x, y, w, h, changed := e.constrain(c, x, y, w, h, interact); changed {
		e.resizeClient(c, x, y, w, h)
	}
}

func (e *Engine) resizeClient(c *Client, x, y, w, h int) {
	c.OldX, c.X = c.X, x
	c.OldY, c.Y = c.Y, y
	c.OldW, c.W = c.W, w
	c.OldH, c.H = c.H, h
	if c.IsFloating && !c.IsFullscreen {
		c.saveFloat()
	}
	e.srv.MoveResize(c.Win, x, y, w, h, c.BW)
	e.configure(c)
}

// configure tells the client its geometry with a synthetic ConfigureNotify.
func (e *Engine) configure(c *Client) {
	e.srv.SendConfigureNotify(c.Win, c.X, c.Y, c.W, c.H, c.BW)
}

// restack orders m top to bottom: bar, fullscreen, floating, tiled.
func (e *Engine) restack(m *Monitor) {
	e.drawBar(m)
	clients := e.stackOrder(m)
	if len(clients) == 0 {
		return
	}
	order := make([]xproto.Window, 0, 1+len(clients))
	if m.BarWin != 0 {
		order = append(order, m.BarWin)
	}
	order = append(order, clients...)
	e.srv.Restack(order)
	e.srv.DiscardEnterEvents()
}

// stackOrder returns the visible clients of m top to bottom. Within each
// group the focus stack decides, so the selected client leads.
func (e *Engine) stackOrder(m *Monitor) []xproto.Window {
	var fullscreen, floating, tiled []xproto.Window
	tiles := e.layout(m).Tiles()
	for _, w := range m.Stack {
		c := e.clients[w]
		if c == nil || !c.Visible() {
			continue
		}
		switch {
		case c.IsFullscreen:
			fullscreen = append(fullscreen, w)
		case c.IsFloating || !tiles:
			floating = append(floating, w)
		default:
			tiled = append(tiled, w)
		}
	}
	return append(append(fullscreen, floating...), tiled...)
}

func (e *Engine) setFullscreen(c *Client, on bool) {
	switch {
	case on && !c.IsFullscreen:
		e.srv.SetFullscreenState(c.Win, true)
		c.IsFullscreen = true
		c.OldState = c.IsFloating
		c.OldBW = c.BW
		c.BW = 0
		c.IsFloating = true
		m := c.Mon
		e.resizeClient(c, m.MX, m.MY, m.MW, m.MH)
		e.srv.Raise(c.Win)
	case !on && c.IsFullscreen:
		e.srv.SetFullscreenState(c.Win, false)
		c.IsFullscreen = false
		c.IsFloating = c.OldState
		c.BW = c.OldBW
		c.X, c.Y, c.W, c.H = c.OldX, c.OldY, c.OldW, c.OldH
		e.resizeClient(c, c.X, c.Y, c.W, c.H)
		e.arrange(c.Mon)
	}
}
