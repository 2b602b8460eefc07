package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

// WMName is advertised through _NET_SUPPORTING_WM_CHECK.
const WMName = "tagtile"

// supportedAtoms is the _NET_SUPPORTED list.
var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_ICON",
	"_NET_SYSTEM_TRAY_OPCODE",
	"_NET_SYSTEM_TRAY_ORIENTATION",
	"_NET_SYSTEM_TRAY_ORIENTATION_HORZ",
}

// Backend implements wm.Server on top of an X connection.
type Backend struct {
	*Connection
	check    *xwindow.Window
	cursors  map[wm.Cursor]xproto.Cursor
	normBdr  uint32
	selBdr   uint32
	normBg   uint32
	colormap xproto.Colormap
}

var _ wm.Server = (*Backend)(nil)

// NewBackend takes over the root window and publishes the EWMH support
// properties. It returns wm.ErrOtherWM when another manager is running.
func NewBackend(conn *Connection, cfg *config.Config) (*Backend, error) {
	if err := conn.BecomeWM(); err != nil {
		return nil, err
	}
	b := &Backend{
		Connection: conn,
		cursors:    make(map[wm.Cursor]xproto.Cursor),
		colormap:   conn.XUtil.Screen().DefaultColormap,
	}
	if err := b.SetColors(cfg.Colors); err != nil {
		return nil, err
	}
	for cur, shape := range map[wm.Cursor]uint16{
		wm.CursorNormal: xcursor.LeftPtr,
		wm.CursorMove:   xcursor.Fleur,
		wm.CursorResize: xcursor.Sizing,
	} {
		id, err := xcursor.CreateCursor(conn.XUtil, shape)
		if err != nil {
			return nil, fmt.Errorf("create cursor: %w", err)
		}
		b.cursors[cur] = id
	}
	if err := b.setupRoot(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backend) setupRoot() error {
	xu := b.XUtil
	check, err := xwindow.Generate(xu)
	if err != nil {
		return fmt.Errorf("create check window: %w", err)
	}
	check.Create(b.Root(), 0, 0, 1, 1, 0)
	b.check = check
	if err := ewmh.SupportingWmCheckSet(xu, check.Id, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(xu, check.Id, WMName); err != nil {
		return fmt.Errorf("set wm name: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(xu, b.Root(), check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.SupportedSet(xu, supportedAtoms); err != nil {
		return fmt.Errorf("set supported atoms: %w", err)
	}
	xproto.DeleteProperty(xu.Conn(), b.Root(), b.Atom("_NET_CLIENT_LIST"))

	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify |
		xproto.EventMaskButtonPress | xproto.EventMaskPointerMotion |
		xproto.EventMaskEnterWindow | xproto.EventMaskLeaveWindow |
		xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange)
	xproto.ChangeWindowAttributes(xu.Conn(), b.Root(), xproto.CwEventMask|xproto.CwCursor,
		[]uint32{mask, uint32(b.cursors[wm.CursorNormal])})
	return nil
}

// SetColors allocates the border pixels for both schemes and the tray
// background.
func (b *Backend) SetColors(colors config.Schemes) error {
	norm, err := b.Pixel(colors.Norm.Border)
	if err != nil {
		return err
	}
	sel, err := b.Pixel(colors.Sel.Border)
	if err != nil {
		return err
	}
	bg, err := b.Pixel(colors.Norm.Bg)
	if err != nil {
		return err
	}
	b.normBdr, b.selBdr, b.normBg = norm, sel, bg
	return nil
}

// Pixel allocates a "#rrggbb" color in the default colormap.
func (b *Backend) Pixel(hex string) (uint32, error) {
	r, g, bl, err := parseColor(hex)
	if err != nil {
		return 0, err
	}
	reply, err := xproto.AllocColor(b.XUtil.Conn(), b.colormap, r, g, bl).Reply()
	if err != nil {
		return 0, fmt.Errorf("allocate color %s: %w", hex, err)
	}
	return reply.Pixel, nil
}

// parseColor splits "#rrggbb" into 16-bit channels.
func parseColor(hex string) (r, g, b uint16, err error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	r = uint16(v>>16&0xff) * 0x101
	g = uint16(v>>8&0xff) * 0x101
	b = uint16(v&0xff) * 0x101
	return r, g, b, nil
}

// Root returns the root window.
func (b *Backend) Root() xproto.Window { return b.Connection.Root }

// Atom interns name, caching the result.
func (b *Backend) Atom(name string) xproto.Atom {
	a, err := xprop.Atm(b.XUtil, name)
	if err != nil {
		b.logger.Warn("intern atom failed", "atom", name, "error", err)
		return 0
	}
	return a
}

// ScreenSize returns the root window size.
func (b *Backend) ScreenSize() (int, int) {
	s := b.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// Children lists the root window's children bottom to top.
func (b *Backend) Children() []xproto.Window {
	tree, err := xproto.QueryTree(b.XUtil.Conn(), b.Root()).Reply()
	if err != nil {
		b.logger.Warn("query tree failed", "error", err)
		return nil
	}
	return tree.Children
}

// RootName returns WM_NAME of the root window, which holds the status text.
func (b *Backend) RootName() string {
	reply, err := xprop.GetProperty(b.XUtil, b.Root(), "WM_NAME")
	if err != nil {
		return ""
	}
	s, _ := xprop.PropValStr(reply, nil)
	return s
}

// Pointer returns the pointer position on the root window.
func (b *Backend) Pointer() (int, int, bool) {
	reply, err := xproto.QueryPointer(b.XUtil.Conn(), b.Root()).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(reply.RootX), int(reply.RootY), true
}

// Cleanup releases the check window and cursors and hands focus back to
// the pointer root.
func (b *Backend) Cleanup() {
	conn := b.XUtil.Conn()
	if b.check != nil {
		b.check.Destroy()
	}
	for _, c := range b.cursors {
		xproto.FreeCursor(conn, c)
	}
	xproto.DeleteProperty(conn, b.Root(), b.Atom("_NET_ACTIVE_WINDOW"))
	xproto.DeleteProperty(conn, b.Root(), b.Atom("_NET_SUPPORTING_WM_CHECK"))
	xproto.SetInputFocus(conn, xproto.InputFocusPointerRoot, xproto.InputFocusPointerRoot, xproto.TimeCurrentTime)
	b.Sync()
}
