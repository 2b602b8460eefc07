package wm

import "fmt"

// scratchClient returns the live client registered under key.
func (e *Engine) scratchClient(key rune) *Client {
	for _, m := range e.mons {
		for _, w := range m.Clients {
			if c := e.clients[w]; c != nil && c.ScratchKey == key {
				return c
			}
		}
	}
	return nil
}

// toggleScratch shows, hides or creates the scratchpad bound to key. A
// hidden scratchpad carries no tags, so no view shows it until it is
// toggled back onto the selected monitor.
func (e *Engine) toggleScratch(key rune) error {
	c := e.scratchClient(key)
	if c == nil {
		cmd, ok := e.cfg.ScratchCommand(key)
		if !ok {
			return fmt.Errorf("no scratchpad bound to %q", key)
		}
		e.pendingScratch = key
		return e.spawn(cmd)
	}

	m := e.selmon
	if c.Win == m.Sel && c.Mon == m && c.Visible() {
		c.Tags = 0
		e.focus(nil)
		e.arrange(m)
		return nil
	}
	if c.Mon != m {
		old := c.Mon
		old.detach(c.Win)
		old.detachStack(c.Win)
		if old.Sel == c.Win {
			old.Sel = 0
		}
		c.Mon = m
		m.attach(c.Win)
		m.attachStack(c.Win)
		e.arrange(old)
		if c.IsFloating && RectToMon(e.mons, m, c.X, c.Y, c.W, c.H) != m {
			c.X = m.WX + (m.WW-c.OuterWidth())/2
			c.Y = m.WY + (m.WH-c.OuterHeight())/2
		}
	}
	c.Tags = m.TagSet[m.SelTags]
	e.focus(c)
	e.arrange(m)
	return nil
}

// PendingScratch returns the scratchpad key awaiting its window, or 0.
func (e *Engine) PendingScratch() rune { return e.pendingScratch }
