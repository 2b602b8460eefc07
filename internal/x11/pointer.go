package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/wm"
)

// ReplayPointer releases a frozen synchronous button grab so the click
// reaches the client.
func (b *Backend) ReplayPointer() {
	xevent.ReplayPointer(b.XUtil)
}

// WarpPointer moves the pointer to x, y relative to win.
func (b *Backend) WarpPointer(win xproto.Window, x, y int) {
	xproto.WarpPointer(b.XUtil.Conn(), 0, win, 0, 0, 0, 0, int16(x), int16(y))
}

// GrabPointer starts an active pointer grab for a drag.
func (b *Backend) GrabPointer(cursor wm.Cursor) bool {
	ok, err := mousebind.GrabPointer(b.XUtil, b.Root(), 0, b.cursors[cursor])
	if err != nil {
		b.logger.Debug("pointer grab failed", "error", err)
		return false
	}
	return ok
}

// UngrabPointer ends a drag.
func (b *Backend) UngrabPointer() {
	mousebind.UngrabPointer(b.XUtil)
}
