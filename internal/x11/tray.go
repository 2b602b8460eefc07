package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/wm"
)

// XEMBED messages and flags.
const (
	xembedEmbeddedNotify   = 0
	xembedWindowActivate   = 1
	xembedWindowDeactivate = 2
	xembedVersion          = 0
	xembedMapped           = 1 << 0
)

const trayOrientationHorz = 0

var _ wm.TrayServer = (*Backend)(nil)

func (b *Backend) traySelection() string {
	return fmt.Sprintf("_NET_SYSTEM_TRAY_S%d", b.XUtil.Conn().DefaultScreen)
}

// CreateTray creates the tray window, takes the tray selection and announces
// it with a MANAGER client message on the root window.
func (b *Backend) CreateTray(x, y, w, h int) (xproto.Window, error) {
	xu := b.XUtil
	conn := xu.Conn()
	win, err := xwindow.Generate(xu)
	if err != nil {
		return 0, fmt.Errorf("create tray window: %w", err)
	}
	win.Create(b.Root(), x, y, max(w, 1), max(h, 1),
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		b.normBg, 1, xproto.EventMaskButtonPress|xproto.EventMaskExposure)
	if err := xprop.ChangeProp32(xu, win.Id, "_NET_SYSTEM_TRAY_ORIENTATION", "CARDINAL",
		trayOrientationHorz); err != nil {
		b.logger.Debug("set tray orientation failed", "error", err)
	}
	win.Map()

	sel := b.Atom(b.traySelection())
	xproto.SetSelectionOwner(conn, win.Id, sel, xproto.TimeCurrentTime)
	owner, err := xproto.GetSelectionOwner(conn, sel).Reply()
	if err != nil || owner.Owner != win.Id {
		win.Destroy()
		return 0, fmt.Errorf("cannot take %s selection", b.traySelection())
	}

	cm, err := xevent.NewClientMessage(32, b.Root(), b.Atom("MANAGER"),
		int(xproto.TimeCurrentTime), int(sel), int(win.Id), 0, 0)
	if err != nil {
		return 0, err
	}
	if err := xevent.SendRootEvent(xu, cm, xproto.EventMaskStructureNotify); err != nil {
		b.logger.Debug("announce tray failed", "error", err)
	}
	b.Sync()
	b.logger.Debug("system tray created", "window", win.Id)
	return win.Id, nil
}

// DestroyTray gives up the tray selection and destroys the tray window.
func (b *Backend) DestroyTray(tray xproto.Window) {
	conn := b.XUtil.Conn()
	xproto.SetSelectionOwner(conn, 0, b.Atom(b.traySelection()), xproto.TimeCurrentTime)
	xproto.UnmapWindow(conn, tray)
	xproto.DestroyWindow(conn, tray)
	b.Sync()
}

// Embed reparents icon into the tray and sends XEMBED_EMBEDDED_NOTIFY.
func (b *Backend) Embed(tray, icon xproto.Window) bool {
	conn := b.XUtil.Conn()
	xproto.ChangeWindowAttributes(conn, icon, xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{b.normBg, xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange |
			xproto.EventMaskResizeRedirect})
	if err := xproto.ReparentWindowChecked(conn, icon, tray, 0, 0).Check(); err != nil {
		b.logger.Debug("reparent tray icon failed", "window", icon, "error", err)
		return false
	}
	xproto.ChangeSaveSet(conn, xproto.SetModeInsert, icon)
	b.sendXembed(icon, xembedEmbeddedNotify, 0, tray, xembedVersion)
	b.Sync()
	return true
}

// EmbedMapped reads the XEMBED_MAPPED flag of icon.
func (b *Backend) EmbedMapped(icon xproto.Window) (bool, bool) {
	info, err := xprop.PropValNums(xprop.GetProperty(b.XUtil, icon, "_XEMBED_INFO"))
	if err != nil || len(info) < 2 {
		return false, false
	}
	return info[1]&xembedMapped != 0, true
}

// SetEmbedActive sends XEMBED_WINDOW_ACTIVATE or XEMBED_WINDOW_DEACTIVATE.
func (b *Backend) SetEmbedActive(tray, icon xproto.Window, active bool) {
	msg := xembedWindowDeactivate
	if active {
		msg = xembedWindowActivate
	}
	b.sendXembed(icon, msg, 0, tray, xembedVersion)
}

// Release hands icon back to the root window.
func (b *Backend) Release(icon xproto.Window) {
	conn := b.XUtil.Conn()
	xproto.UnmapWindow(conn, icon)
	xproto.ReparentWindow(conn, icon, b.Root(), 0, 0)
	xproto.ChangeSaveSet(conn, xproto.SetModeDelete, icon)
}

func (b *Backend) sendXembed(icon xproto.Window, msg, detail int, tray xproto.Window, version int) {
	cm, err := xevent.NewClientMessage(32, icon, b.Atom("_XEMBED"),
		int(xproto.TimeCurrentTime), msg, detail, int(tray), version)
	if err != nil {
		b.logger.Debug("build xembed message failed", "error", err)
		return
	}
	xproto.SendEvent(b.XUtil.Conn(), false, icon, xproto.EventMaskStructureNotify, string(cm.Bytes()))
}
