package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/wm"
)

// Request opcodes whose errors are expected while clients come and go.
const (
	opConfigureWindow   = 12
	opGrabButton        = 28
	opGrabKey           = 33
	opSetInputFocus     = 42
	opCopyArea          = 62
	opPolyRectangle     = 67
	opPolyFillRectangle = 70
	opPutImage          = 72
	opImageText16       = 77
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	logger *slog.Logger
}

// NewConnection establishes a connection to the X11 server and initializes
// the keyboard and pointer helpers.
func NewConnection(logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	c := &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		logger: logger,
	}
	xevent.ErrorHandlerSet(xu, c.handleError)
	return c, nil
}

// BecomeWM selects substructure redirection on the root window. Only one
// client may hold it, so failure means another window manager is running.
func (c *Connection) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root,
		xproto.CwEventMask, []uint32{xproto.EventMaskSubstructureRedirect}).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return wm.ErrOtherWM
		}
		return fmt.Errorf("select root events: %w", err)
	}
	return nil
}

func (c *Connection) handleError(err xgb.Error) {
	if ignoredError(err) {
		c.logger.Debug("ignored X error", "error", err)
		return
	}
	c.logger.Error("X error", "error", err)
}

// ignoredError reports errors caused by windows vanishing between an event
// and the requests made in response to it.
func ignoredError(err xgb.Error) bool {
	switch e := err.(type) {
	case xproto.WindowError:
		return true
	case xproto.MatchError:
		return e.MajorOpcode == opSetInputFocus || e.MajorOpcode == opConfigureWindow
	case xproto.DrawableError:
		switch e.MajorOpcode {
		case opImageText16, opPolyFillRectangle, opPolyRectangle, opPutImage, opCopyArea:
			return true
		}
	case xproto.AccessError:
		return e.MajorOpcode == opGrabButton || e.MajorOpcode == opGrabKey
	}
	return false
}

// Sync waits for the server to process every request sent so far.
func (c *Connection) Sync() {
	xproto.GetInputFocus(c.XUtil.Conn()).Reply()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
