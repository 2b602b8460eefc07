package wm

const (
	protoDelete    = "WM_DELETE_WINDOW"
	protoTakeFocus = "WM_TAKE_FOCUS"
)

// focus gives c the input focus. A nil or hidden c selects the most recently
// focused visible client of the selected monitor.
func (e *Engine) focus(c *Client) {
	if c == nil || !c.Visible() {
		c = nil
		for _, w := range e.selmon.Stack {
			if cand := e.clients[w]; cand != nil && cand.Visible() {
				c = cand
				break
			}
		}
	}
	if prev := e.sel(e.selmon); prev != nil && prev != c {
		e.unfocus(prev, c != nil && c.NeverFocus)
	}
	if c != nil {
		if c.Mon != e.selmon {
			e.selmon = c.Mon
		}
		if c.IsUrgent {
			e.setUrgent(c, false)
		}
		c.Mon.detachStack(c.Win)
		c.Mon.attachStack(c.Win)
		e.keys.GrabButtons(c.Win, true)
		e.srv.SetBorderColor(c.Win, true)
		e.setFocus(c)
		p := c.Mon.Pertag
		p.Sel[p.CurTag] = c.Win
		e.selmon.Sel = c.Win
	} else {
		e.srv.FocusRoot()
		e.srv.ClearActiveWindow()
		e.selmon.Sel = 0
	}
	e.drawBars()
}

// remembered returns the client last focused on the current tag of m if it
// is still visible there.
func (e *Engine) remembered(m *Monitor) *Client {
	p := m.Pertag
	if p.CurTag < 0 || p.CurTag >= len(p.Sel) {
		return nil
	}
	c := e.client(p.Sel[p.CurTag])
	if c == nil || c.Mon != m || !c.Visible() {
		return nil
	}
	return c
}

// unfocus drops the focus decoration from c. setFocus also returns the input
// focus to the root window, for when the next client cannot take it.
func (e *Engine) unfocus(c *Client, setFocus bool) {
	if c == nil {
		return
	}
	e.keys.GrabButtons(c.Win, false)
	e.srv.SetBorderColor(c.Win, false)
	if setFocus {
		e.srv.FocusRoot()
		e.srv.ClearActiveWindow()
	}
}

func (e *Engine) setFocus(c *Client) {
	if !c.NeverFocus {
		e.srv.SetInputFocus(c.Win)
		e.srv.SetActiveWindow(c.Win)
	}
	if e.srv.SupportsProtocol(c.Win, protoTakeFocus) {
		e.srv.SendProtocol(c.Win, protoTakeFocus)
	}
}

// focusStack moves the focus forward or backward through the visible
// clients of the selected monitor in manage order, wrapping around.
func (e *Engine) focusStack(dir int) {
	sel := e.sel(e.selmon)
	if sel == nil || (sel.IsFullscreen && e.cfg.LockFullscreen) {
		return
	}
	var visible []*Client
	idx := -1
	for _, w := range e.selmon.Clients {
		c := e.clients[w]
		if c == nil {
			continue
		}
		if c == sel {
			idx = len(visible)
		}
		if c.Visible() {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 || idx < 0 {
		return
	}
	// idx is where sel sits among the visible clients; sel itself may be
	// hidden if it was just retagged.
	selVisible := idx < len(visible) && visible[idx] == sel
	var next *Client
	if dir > 0 {
		i := idx
		if selVisible {
			i++
		}
		next = visible[i%len(visible)]
	} else {
		i := idx - 1
		if i < 0 {
			i = len(visible) - 1
		}
		next = visible[i]
	}
	if next != nil {
		e.focus(next)
		e.restack(e.selmon)
	}
}
