package wm

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
)

// SYSTEM_TRAY opcodes.
const trayRequestDock = 0

type trayIcon struct {
	Client
	mapped bool
	// ignoreUnmap counts unmaps we caused ourselves.
	ignoreUnmap int
}

type systray struct {
	win   xproto.Window
	icons []*trayIcon
}

// systrayMon returns the monitor hosting the tray, or nil without a tray.
func (e *Engine) systrayMon() *Monitor {
	if e.tray == nil || len(e.mons) == 0 {
		return nil
	}
	if e.cfg.Systray.FollowSelected {
		return e.selmon
	}
	if p := e.cfg.Systray.Pinning; p >= 0 && p < len(e.mons) {
		return e.mons[p]
	}
	return e.mons[0]
}

// systrayWidth is the space the tray takes at the end of its bar.
func (e *Engine) systrayWidth() int {
	if e.tray == nil {
		return 0
	}
	w := 0
	for _, i := range e.tray.icons {
		if i.mapped {
			w += i.W + e.cfg.Systray.Spacing
		}
	}
	if w == 0 {
		return 1
	}
	return w + e.cfg.Systray.Spacing
}

func (e *Engine) trayIcon(w xproto.Window) *trayIcon {
	if e.tray == nil || w == 0 {
		return nil
	}
	for _, i := range e.tray.icons {
		if i.Win == w {
			return i
		}
	}
	return nil
}

// updateSystray creates the tray on first use, lays icons out at bar height
// and moves the tray to the end of its bar.
func (e *Engine) updateSystray() {
	if !e.cfg.Systray.Enabled || e.trayX == nil || len(e.mons) == 0 {
		return
	}
	if e.tray == nil {
		m := e.mons[0]
		win, err := e.trayX.CreateTray(m.MX+m.MW-1, m.BY, 1, e.bh)
		if err != nil {
			e.logger.Warn("system tray unavailable", "error", err)
			e.trayX = nil
			return
		}
		e.tray = &systray{win: win}
	}
	m := e.systrayMon()
	icons := e.tray.icons
	if e.cfg.Systray.OnLeft {
		icons = slices.Clone(icons)
		slices.Reverse(icons)
	}
	w := 0
	for _, i := range icons {
		i.Mon = m
		if !i.mapped {
			continue
		}
		w += e.cfg.Systray.Spacing
		i.X = w
		e.srv.MoveResize(i.Win, i.X, 0, i.W, i.H, 0)
		e.srv.Raise(i.Win)
		w += i.W
	}
	if w > 0 {
		w += e.cfg.Systray.Spacing
	} else {
		w = 1
	}
	y := m.BY
	if !m.ShowBar {
		y = -e.bh
	}
	e.srv.MoveResize(e.tray.win, m.MX+m.MW-w, y, w, e.bh, 0)
	e.srv.Raise(e.tray.win)
	for _, mon := range e.mons {
		e.resizeBarWin(mon)
	}
	e.drawBars()
}

// dock embeds a window that asked to join the tray.
func (e *Engine) dock(win xproto.Window) {
	if e.tray == nil || win == 0 || e.trayIcon(win) != nil {
		return
	}
	wa, ok := e.srv.Attributes(win)
	if !ok {
		return
	}
	i := &trayIcon{mapped: true}
	i.Win = win
	i.Mon = e.systrayMon()
	i.IsFloating = true
	i.OldBW = wa.BorderWidth
	i.updateSizeHints(e.srv.SizeHints(win))
	e.updateTrayIconGeom(i, wa.Width, wa.Height)
	if !e.trayX.Embed(e.tray.win, win) {
		return
	}
	if wa.Viewable {
		// Reparenting a mapped window unmaps it first.
		i.ignoreUnmap++
	}
	if mapped, ok := e.trayX.EmbedMapped(win); ok {
		i.mapped = mapped
	}
	e.tray.icons = slices.Insert(e.tray.icons, 0, i)
	if i.mapped {
		e.srv.Map(win)
		e.trayX.SetEmbedActive(e.tray.win, win, true)
		e.srv.SetClientState(win, NormalState)
	}
	e.logger.Debug("docked tray icon", "window", win, "size", []int{i.W, i.H})
	e.updateSystray()
}

// updateTrayIconGeom scales an icon to the bar height keeping its aspect.
func (e *Engine) updateTrayIconGeom(i *trayIcon, w, h int) {
	i.H = e.bh
	switch {
	case w == h || h <= 0:
		i.W = e.bh
	case h == e.bh:
		i.W = w
	default:
		i.W = int(float64(e.bh) * (float64(w) / float64(h)))
	}
	if i.MaxW > 0 {
		i.W = min(i.W, i.MaxW)
	}
	if i.MaxH > 0 {
		i.H = min(i.H, i.MaxH)
	}
	if i.H > e.bh {
		if i.W == i.H {
			i.W = e.bh
		} else {
			i.W = int(float64(e.bh) * (float64(i.W) / float64(i.H)))
		}
		i.H = e.bh
	}
	i.W = max(i.W, 1)
}

// updateTrayIconState follows the XEMBED_MAPPED flag of an icon.
func (e *Engine) updateTrayIconState(i *trayIcon) {
	mapped, ok := e.trayX.EmbedMapped(i.Win)
	if !ok || mapped == i.mapped {
		return
	}
	i.mapped = mapped
	if mapped {
		e.srv.Map(i.Win)
		e.trayX.SetEmbedActive(e.tray.win, i.Win, true)
		e.srv.SetClientState(i.Win, NormalState)
	} else {
		i.ignoreUnmap++
		e.srv.Unmap(i.Win)
		e.trayX.SetEmbedActive(e.tray.win, i.Win, false)
		e.srv.SetClientState(i.Win, WithdrawnState)
	}
}

func (e *Engine) removeTrayIcon(i *trayIcon) {
	e.tray.icons = slices.DeleteFunc(e.tray.icons, func(x *trayIcon) bool { return x == i })
	e.logger.Debug("removed tray icon", "window", i.Win)
	e.updateSystray()
}

func (e *Engine) cleanupSystray() {
	if e.tray == nil {
		return
	}
	for _, i := range e.tray.icons {
		e.trayX.Release(i.Win)
	}
	e.trayX.DestroyTray(e.tray.win)
	e.tray = nil
}

// TrayIcons returns the docked icon windows, newest first.
func (e *Engine) TrayIcons() []xproto.Window {
	if e.tray == nil {
		return nil
	}
	out := make([]xproto.Window, 0, len(e.tray.icons))
	for _, i := range e.tray.icons {
		out = append(out, i.Win)
	}
	return out
}
