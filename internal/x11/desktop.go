package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// SetActiveWindow publishes _NET_ACTIVE_WINDOW.
func (b *Backend) SetActiveWindow(win xproto.Window) {
	if err := ewmh.ActiveWindowSet(b.XUtil, win); err != nil {
		b.logger.Debug("set active window failed", "window", win, "error", err)
	}
}

// ClearActiveWindow removes _NET_ACTIVE_WINDOW from the root window.
func (b *Backend) ClearActiveWindow() {
	xproto.DeleteProperty(b.XUtil.Conn(), b.Root(), b.Atom("_NET_ACTIVE_WINDOW"))
}

// SetClientList publishes _NET_CLIENT_LIST.
func (b *Backend) SetClientList(wins []xproto.Window) {
	if len(wins) == 0 {
		xproto.DeleteProperty(b.XUtil.Conn(), b.Root(), b.Atom("_NET_CLIENT_LIST"))
		return
	}
	if err := ewmh.ClientListSet(b.XUtil, wins); err != nil {
		b.logger.Debug("set client list failed", "error", err)
	}
}

// SetDesktops exposes one desktop per tag through _NET_NUMBER_OF_DESKTOPS
// and _NET_DESKTOP_NAMES.
func (b *Backend) SetDesktops(names []string) {
	if err := ewmh.NumberOfDesktopsSet(b.XUtil, uint(len(names))); err != nil {
		b.logger.Debug("set desktop count failed", "error", err)
	}
	if err := ewmh.DesktopNamesSet(b.XUtil, names); err != nil {
		b.logger.Debug("set desktop names failed", "error", err)
	}
}

// SetCurrentDesktop publishes _NET_CURRENT_DESKTOP.
func (b *Backend) SetCurrentDesktop(i int) {
	if err := ewmh.CurrentDesktopSet(b.XUtil, uint(i)); err != nil {
		b.logger.Debug("set current desktop failed", "desktop", i, "error", err)
	}
}
