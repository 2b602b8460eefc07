package wm

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
)

// manage adopts a new top-level window.
func (e *Engine) manage(w xproto.Window, wa WindowAttrs) {
	c := &Client{
		Win:   w,
		X:     wa.X,
		Y:     wa.Y,
		W:     wa.Width,
		H:     wa.Height,
		OldBW: wa.BorderWidth,
	}
	c.OldX, c.OldY, c.OldW, c.OldH = c.X, c.Y, c.W, c.H
	e.updateTitle(c)

	trans, hasTrans := e.srv.TransientFor(w)
	if t := e.client(trans); hasTrans && t != nil {
		c.Mon = t.Mon
		c.Tags = t.Tags
	} else {
		c.Mon = e.selmon
		e.applyRules(c)
	}
	e.clients[w] = c

	m := c.Mon
	if c.X+c.OuterWidth() > m.WX+m.WW {
		c.X = m.WX + m.WW - c.OuterWidth()
	}
	if c.Y+c.OuterHeight() > m.WY+m.WH {
		c.Y = m.WY + m.WH - c.OuterHeight()
	}
	c.X = max(c.X, m.WX)
	c.Y = max(c.Y, m.WY)
	c.BW = e.cfg.BorderPx
	c.saveFloat()

	e.srv.SetBorder(w, c.BW)
	e.srv.SetBorderColor(w, false)
	e.configure(c)
	e.updateWindowType(c)
	c.updateSizeHints(e.srv.SizeHints(w))
	e.updateWMHints(c)
	e.updateIcon(c)
	e.srv.SelectClientInput(w)
	e.keys.GrabButtons(w, false)
	if !c.IsFloating {
		c.IsFloating = hasTrans || c.IsFixed
		c.OldState = c.IsFloating
	}
	if c.IsFloating {
		e.srv.Raise(w)
	}
	m.attach(w)
	m.attachStack(w)
	e.updateClientList()
	// Some clients only honor their first configure once they are mapped
	// somewhere else first.
	e.srv.MoveResize(w, c.X+2*e.sw, c.Y, c.W, c.H, c.BW)
	e.srv.SetClientState(w, NormalState)
	if m == e.selmon {
		e.unfocus(e.sel(e.selmon), false)
	}
	m.Sel = w
	e.arrange(m)
	e.srv.Map(w)
	e.focus(nil)
	e.logger.Debug("managed client", "window", w, "name", c.Name, "tags", c.Tags,
		"monitor", m.Num, "floating", c.IsFloating, "scratchkey", string(c.ScratchKey))
}

// unmanage forgets a client. destroyed is set when the window no longer
// exists, in which case nothing is written back to it.
func (e *Engine) unmanage(c *Client, destroyed bool) {
	m := c.Mon
	m.detach(c.Win)
	m.detachStack(c.Win)
	if m.Sel == c.Win {
		m.Sel = 0
	}
	for i, w := range m.Pertag.Sel {
		if w == c.Win {
			m.Pertag.Sel[i] = 0
		}
	}
	delete(e.clients, c.Win)
	delete(e.killing, c.Win)
	if e.drag != nil && e.drag.client == c.Win {
		e.endDrag()
	}
	if !destroyed {
		e.srv.SetBorder(c.Win, c.OldBW)
		e.keys.UngrabButtons(c.Win)
		e.srv.SetClientState(c.Win, WithdrawnState)
	}
	e.logger.Debug("unmanaged client", "window", c.Win, "name", c.Name, "destroyed", destroyed)
	e.focus(nil)
	e.updateClientList()
	e.arrange(m)
}

// sendMon moves a client to another monitor, adopting that monitor's view.
func (e *Engine) sendMon(c *Client, m *Monitor) {
	if c.Mon == m {
		return
	}
	e.unfocus(c, true)
	old := c.Mon
	old.detach(c.Win)
	old.detachStack(c.Win)
	if old.Sel == c.Win {
		old.Sel = 0
	}
	c.Mon = m
	c.FloatX += m.WX - old.WX
	c.FloatY += m.WY - old.WY
	if c.ScratchKey == 0 || c.Tags != 0 {
		c.Tags = m.TagSet[m.SelTags]
	}
	m.attach(c.Win)
	m.attachStack(c.Win)
	e.focus(nil)
	e.arrange(nil)
}

func (e *Engine) updateClientList() {
	var wins []xproto.Window
	for _, m := range e.mons {
		for i := len(m.Clients) - 1; i >= 0; i-- {
			wins = append(wins, m.Clients[i])
		}
	}
	e.srv.SetClientList(wins)
}

// updateGeom reconciles the monitor ring with the screens reported by the
// server. It reports whether anything changed.
func (e *Engine) updateGeom() bool {
	rects := e.srv.ScreenRects()
	if len(rects) == 0 {
		rects = append(rects, rectOf(0, 0, e.sw, e.sh))
	}
	dirty := false
	for len(e.mons) < len(rects) {
		m := e.createMon()
		m.Num = len(e.mons)
		e.mons = append(e.mons, m)
		dirty = true
	}
	for i, r := range rects {
		m := e.mons[i]
		if m.MX != r.X || m.MY != r.Y || m.MW != r.Width || m.MH != r.Height {
			dirty = true
			m.Num = i
			m.MX, m.WX = r.X, r.X
			m.MY, m.WY = r.Y, r.Y
			m.MW, m.WW = r.Width, r.Width
			m.MH, m.WH = r.Height, r.Height
			m.updateBarPos(e.bh)
		}
	}
	for len(e.mons) > len(rects) {
		gone := e.mons[len(e.mons)-1]
		first := e.mons[0]
		for len(gone.Clients) > 0 {
			w := gone.Clients[0]
			gone.Clients = gone.Clients[1:]
			gone.detachStack(w)
			c := e.clients[w]
			c.Mon = first
			if c.ScratchKey == 0 || c.Tags != 0 {
				c.Tags = first.TagSet[first.SelTags]
			}
			first.attach(w)
			first.attachStack(w)
		}
		if gone.BarWin != 0 {
			e.srv.Unmap(gone.BarWin)
			e.draw.DestroyBar(gone.BarWin)
		}
		e.mons = e.mons[:len(e.mons)-1]
		if e.selmon == gone {
			e.selmon = first
		}
		dirty = true
	}
	if dirty {
		e.selmon = e.winToMonOrFirst()
	}
	return dirty
}

func (e *Engine) winToMonOrFirst() *Monitor {
	if e.selmon != nil && slices.Contains(e.mons, e.selmon) {
		return e.selmon
	}
	return e.mons[0]
}

// updateBars creates bar windows for monitors that lack one.
func (e *Engine) updateBars() {
	for _, m := range e.mons {
		if m.BarWin != 0 {
			continue
		}
		m.BarWin = e.draw.CreateBar(m.WX, m.BY, e.barWidth(m), e.bh)
		e.srv.Map(m.BarWin)
	}
}

func (e *Engine) resizeBarWin(m *Monitor) {
	if m.BarWin == 0 {
		return
	}
	e.srv.MoveResize(m.BarWin, m.WX, m.BY, e.barWidth(m), e.bh, 0)
}
