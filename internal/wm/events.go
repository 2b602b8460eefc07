package wm

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/config"
)

// _NET_WM_STATE actions.
const (
	netWMStateRemove = 0
	netWMStateAdd    = 1
	netWMStateToggle = 2
)

// Dispatch routes one X event to its handler. Events for windows the engine
// does not know are ignored.
func (e *Engine) Dispatch(ev xgb.Event) {
	switch ev := ev.(type) {
	case xproto.ButtonPressEvent:
		e.buttonPress(ev)
	case xproto.ButtonReleaseEvent:
		if e.drag != nil {
			e.finishDrag()
		}
	case xproto.ClientMessageEvent:
		e.clientMessage(ev)
	case xproto.ConfigureRequestEvent:
		e.configureRequest(ev)
	case xproto.ConfigureNotifyEvent:
		e.configureNotify(ev)
	case xproto.DestroyNotifyEvent:
		e.destroyNotify(ev)
	case xproto.EnterNotifyEvent:
		e.enterNotify(ev)
	case xproto.ExposeEvent:
		e.expose(ev)
	case xproto.FocusInEvent:
		e.focusIn(ev)
	case xproto.KeyPressEvent:
		e.keyPress(ev)
	case xproto.MappingNotifyEvent:
		e.keys.RefreshMapping(ev)
	case xproto.MapRequestEvent:
		e.mapRequest(ev)
	case xproto.MotionNotifyEvent:
		e.motionNotify(ev)
	case xproto.PropertyNotifyEvent:
		e.propertyNotify(ev)
	case xproto.ResizeRequestEvent:
		e.resizeRequest(ev)
	case xproto.UnmapNotifyEvent:
		e.unmapNotify(ev)
	}
}

func (e *Engine) buttonPress(ev xproto.ButtonPressEvent) {
	click := config.ClickRootWin
	var arg config.Arg = config.NoArg{}
	if m := e.winToMon(ev.Event); m != e.selmon {
		e.unfocus(e.sel(e.selmon), true)
		e.selmon = m
		e.focus(nil)
	}
	if ev.Event == e.selmon.BarWin && ev.Event != 0 {
		click, arg = e.barClick(e.selmon, int(ev.EventX))
	} else if c := e.client(ev.Event); c != nil {
		e.focus(c)
		e.restack(e.selmon)
		e.srv.ReplayPointer()
		click = config.ClickClientWin
	}
	for _, b := range e.keys.Button(click, ev.State, ev.Detail) {
		a := b.Arg
		if _, none := a.(config.NoArg); click == config.ClickTagBar && (a == nil || none) {
			a = arg
		}
		if err := e.run(b.Action, a); err != nil {
			e.logger.Warn("button action failed", "action", b.Action, "error", err)
		}
	}
}

func (e *Engine) clientMessage(ev xproto.ClientMessageEvent) {
	data := ev.Data.Data32
	if e.tray != nil && ev.Window == e.tray.win && ev.Type == e.atoms.trayOpcode {
		if len(data) > 2 && data[1] == trayRequestDock {
			e.dock(xproto.Window(data[2]))
		}
		return
	}
	c := e.client(ev.Window)
	if c == nil {
		return
	}
	if len(data) < 3 {
		return
	}
	switch ev.Type {
	case e.atoms.wmState:
		fs := uint32(e.atoms.wmFullscreen)
		if data[1] == fs || data[2] == fs {
			on := data[0] == netWMStateAdd || (data[0] == netWMStateToggle && !c.IsFullscreen)
			e.setFullscreen(c, on)
		}
	case e.atoms.activeWindow:
		if c.Win != e.selmon.Sel && !c.IsUrgent {
			e.setUrgent(c, true)
			e.drawBars()
		}
	}
}

func (e *Engine) configureRequest(ev xproto.ConfigureRequestEvent) {
	c := e.client(ev.Window)
	if c == nil {
		e.srv.ForwardConfigure(ev)
		return
	}
	mask := ev.ValueMask
	switch {
	case mask&xproto.ConfigWindowBorderWidth != 0:
		c.BW = int(ev.BorderWidth)
	case c.IsFloating || !e.layout(e.selmon).Tiles():
		m := c.Mon
		if mask&xproto.ConfigWindowX != 0 {
			c.OldX = c.X
			c.X = m.MX + int(ev.X)
		}
		if mask&xproto.ConfigWindowY != 0 {
			c.OldY = c.Y
			c.Y = m.MY + int(ev.Y)
		}
		if mask&xproto.ConfigWindowWidth != 0 {
			c.OldW = c.W
			c.W = int(ev.Width)
		}
		if mask&xproto.ConfigWindowHeight != 0 {
			c.OldH = c.H
			c.H = int(ev.Height)
		}
		if c.X+c.W > m.MX+m.MW && c.IsFloating {
			c.X = m.MX + (m.MW/2 - c.OuterWidth()/2)
		}
		if c.Y+c.H > m.MY+m.MH && c.IsFloating {
			c.Y = m.MY + (m.MH/2 - c.OuterHeight()/2)
		}
		if mask&(xproto.ConfigWindowX|xproto.ConfigWindowY) != 0 &&
			mask&(xproto.ConfigWindowWidth|xproto.ConfigWindowHeight) == 0 {
			e.configure(c)
		}
		if c.IsFloating {
			c.saveFloat()
		}
		if c.Visible() {
			e.srv.MoveResize(c.Win, c.X, c.Y, c.W, c.H, c.BW)
		}
	default:
		e.configure(c)
	}
}

func (e *Engine) configureNotify(ev xproto.ConfigureNotifyEvent) {
	if ev.Window != e.root {
		return
	}
	dirty := e.sw != int(ev.Width) || e.sh != int(ev.Height)
	e.sw, e.sh = int(ev.Width), int(ev.Height)
	if !e.updateGeom() && !dirty {
		return
	}
	e.updateBars()
	for _, m := range e.mons {
		for _, w := range m.Clients {
			if c := e.clients[w]; c != nil && c.IsFullscreen {
				e.resizeClient(c, m.MX, m.MY, m.MW, m.MH)
			}
		}
		e.resizeBarWin(m)
	}
	e.logger.Info("screen geometry changed", "monitors", len(e.mons), "width", e.sw, "height", e.sh)
	e.focus(nil)
	e.arrange(nil)
	e.updateSystray()
}

func (e *Engine) destroyNotify(ev xproto.DestroyNotifyEvent) {
	if c := e.client(ev.Window); c != nil {
		e.unmanage(c, true)
	} else if i := e.trayIcon(ev.Window); i != nil {
		e.removeTrayIcon(i)
	}
}

func (e *Engine) enterNotify(ev xproto.EnterNotifyEvent) {
	if (ev.Mode != xproto.NotifyModeNormal || ev.Detail == xproto.NotifyDetailInferior) && ev.Event != e.root {
		return
	}
	c := e.client(ev.Event)
	m := e.winToMon(ev.Event)
	if c != nil {
		m = c.Mon
	}
	if m != e.selmon {
		e.unfocus(e.sel(e.selmon), true)
		e.selmon = m
	} else if c == nil || c.Win == e.selmon.Sel {
		return
	}
	e.focus(c)
}

func (e *Engine) expose(ev xproto.ExposeEvent) {
	if ev.Count != 0 {
		return
	}
	for _, m := range e.mons {
		if m.BarWin == ev.Window {
			e.drawBar(m)
			if m == e.systrayMon() {
				e.updateSystray()
			}
			return
		}
	}
}

// focusIn takes the focus back from clients that grab it on their own.
func (e *Engine) focusIn(ev xproto.FocusInEvent) {
	if sel := e.sel(e.selmon); sel != nil && ev.Event != sel.Win {
		e.setFocus(sel)
	}
}

func (e *Engine) keyPress(ev xproto.KeyPressEvent) {
	for _, k := range e.keys.Key(ev.State, ev.Detail) {
		if err := e.run(k.Action, k.Arg); err != nil {
			e.logger.Warn("key action failed", "key", k.Key, "action", k.Action, "error", err)
		}
	}
}

func (e *Engine) mapRequest(ev xproto.MapRequestEvent) {
	if i := e.trayIcon(ev.Window); i != nil {
		e.srv.Map(i.Win)
		e.updateSystray()
		return
	}
	wa, ok := e.srv.Attributes(ev.Window)
	if !ok || wa.OverrideRedirect {
		return
	}
	if e.client(ev.Window) == nil {
		e.manage(ev.Window, wa)
	}
}

func (e *Engine) motionNotify(ev xproto.MotionNotifyEvent) {
	if e.drag != nil {
		e.dragMotion(ev)
		return
	}
	if ev.Event != e.root {
		return
	}
	m := RectToMon(e.mons, e.selmon, int(ev.RootX), int(ev.RootY), 1, 1)
	if m != e.motion && e.motion != nil {
		e.unfocus(e.sel(e.selmon), true)
		e.selmon = m
		e.focus(nil)
	}
	e.motion = m
}

func (e *Engine) propertyNotify(ev xproto.PropertyNotifyEvent) {
	if i := e.trayIcon(ev.Window); i != nil {
		if ev.Atom == xproto.AtomWmNormalHints {
			i.updateSizeHints(e.srv.SizeHints(i.Win))
			e.updateTrayIconGeom(i, i.W, i.H)
		} else if ev.Atom == e.atoms.xembedInfo {
			e.updateTrayIconState(i)
		}
		e.updateSystray()
		return
	}
	if ev.Window == e.root && ev.Atom == xproto.AtomWmName {
		e.updateStatus()
		return
	}
	if ev.State == xproto.PropertyDelete {
		return
	}
	c := e.client(ev.Window)
	if c == nil {
		return
	}
	switch ev.Atom {
	case xproto.AtomWmTransientFor:
		if trans, ok := e.srv.TransientFor(c.Win); !c.IsFloating && ok && e.client(trans) != nil {
			c.IsFloating = true
			e.arrange(c.Mon)
		}
	case xproto.AtomWmNormalHints:
		c.HintsValid = false
	case xproto.AtomWmHints:
		e.updateWMHints(c)
		e.drawBars()
	}
	if ev.Atom == xproto.AtomWmName || ev.Atom == e.atoms.wmName {
		e.updateTitle(c)
		if c.Win == c.Mon.Sel {
			e.drawBar(c.Mon)
		}
	}
	if ev.Atom == e.atoms.wmWindowType {
		e.updateWindowType(c)
	}
	if ev.Atom == e.atoms.wmIcon {
		e.updateIcon(c)
		if c.Win == c.Mon.Sel {
			e.drawBar(c.Mon)
		}
	}
}

func (e *Engine) resizeRequest(ev xproto.ResizeRequestEvent) {
	if i := e.trayIcon(ev.Window); i != nil {
		e.updateTrayIconGeom(i, int(ev.Width), int(ev.Height))
		e.updateSystray()
	}
}

// unmapNotify unmanages clients that withdraw themselves. Tray icons that
// unmap on their own leave the tray.
func (e *Engine) unmapNotify(ev xproto.UnmapNotifyEvent) {
	if c := e.client(ev.Window); c != nil {
		e.unmanage(c, false)
		return
	}
	if i := e.trayIcon(ev.Window); i != nil {
		if i.ignoreUnmap > 0 {
			i.ignoreUnmap--
			return
		}
		e.removeTrayIcon(i)
	}
}
