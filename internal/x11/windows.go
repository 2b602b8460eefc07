package x11

import (
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/wm"
)

const clientEventMask = xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify

// Attributes returns what the manager needs to decide whether to manage win.
func (b *Backend) Attributes(win xproto.Window) (wm.WindowAttrs, bool) {
	conn := b.XUtil.Conn()
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return wm.WindowAttrs{}, false
	}
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return wm.WindowAttrs{}, false
	}
	return wm.WindowAttrs{
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
		X:                int(geom.X),
		Y:                int(geom.Y),
		Width:            int(geom.Width),
		Height:           int(geom.Height),
		BorderWidth:      int(geom.BorderWidth),
	}, true
}

// Title prefers _NET_WM_NAME and falls back to WM_NAME.
func (b *Backend) Title(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(b.XUtil, win); err == nil && name != "" {
		return name
	}
	name, _ := icccm.WmNameGet(b.XUtil, win)
	return name
}

// Class returns both halves of WM_CLASS.
func (b *Backend) Class(win xproto.Window) (string, string) {
	wc, err := icccm.WmClassGet(b.XUtil, win)
	if err != nil {
		return "", ""
	}
	return wc.Class, wc.Instance
}

// TransientFor returns the window win is a transient for.
func (b *Backend) TransientFor(win xproto.Window) (xproto.Window, bool) {
	parent, err := icccm.WmTransientForGet(b.XUtil, win)
	if err != nil {
		return 0, false
	}
	return parent, true
}

// SizeHints reads WM_NORMAL_HINTS.
func (b *Backend) SizeHints(win xproto.Window) (wm.SizeHints, bool) {
	nh, err := icccm.WmNormalHintsGet(b.XUtil, win)
	if err != nil {
		return wm.SizeHints{}, false
	}
	return wm.SizeHints{
		Flags:        nh.Flags,
		MinWidth:     int(nh.MinWidth),
		MinHeight:    int(nh.MinHeight),
		MaxWidth:     int(nh.MaxWidth),
		MaxHeight:    int(nh.MaxHeight),
		WidthInc:     int(nh.WidthInc),
		HeightInc:    int(nh.HeightInc),
		MinAspectNum: int(nh.MinAspectNum),
		MinAspectDen: int(nh.MinAspectDen),
		MaxAspectNum: int(nh.MaxAspectNum),
		MaxAspectDen: int(nh.MaxAspectDen),
		BaseWidth:    int(nh.BaseWidth),
		BaseHeight:   int(nh.BaseHeight),
	}, true
}

// WMHints reads the urgency and input fields of WM_HINTS.
func (b *Backend) WMHints(win xproto.Window) (wm.WMHints, bool) {
	h, err := icccm.WmHintsGet(b.XUtil, win)
	if err != nil {
		return wm.WMHints{}, false
	}
	return wm.WMHints{
		Urgent:   h.Flags&icccm.HintUrgency != 0,
		HasInput: h.Flags&icccm.HintInput != 0,
		Input:    h.Input != 0,
	}, true
}

// SetUrgencyHint toggles the urgency flag in WM_HINTS.
func (b *Backend) SetUrgencyHint(win xproto.Window, urgent bool) {
	h, err := icccm.WmHintsGet(b.XUtil, win)
	if err != nil {
		return
	}
	if urgent {
		h.Flags |= icccm.HintUrgency
	} else {
		h.Flags &^= icccm.HintUrgency
	}
	if err := icccm.WmHintsSet(b.XUtil, win, h); err != nil {
		b.logger.Debug("set WM_HINTS failed", "window", win, "error", err)
	}
}

// WindowState reports whether _NET_WM_STATE holds the fullscreen atom.
func (b *Backend) WindowState(win xproto.Window) bool {
	states, err := ewmh.WmStateGet(b.XUtil, win)
	return err == nil && slices.Contains(states, "_NET_WM_STATE_FULLSCREEN")
}

// IsDialog reports whether _NET_WM_WINDOW_TYPE names a dialog.
func (b *Backend) IsDialog(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(b.XUtil, win)
	return err == nil && slices.Contains(types, "_NET_WM_WINDOW_TYPE_DIALOG")
}

// WMState reads the ICCCM WM_STATE of win.
func (b *Backend) WMState(win xproto.Window) (int, bool) {
	st, err := icccm.WmStateGet(b.XUtil, win)
	if err != nil {
		return 0, false
	}
	return int(st.State), true
}

// Icon returns the _NET_WM_ICON image best suited for the bar, scaled to
// fit wm.IconSize.
func (b *Backend) Icon(win xproto.Window) (int, int, []uint32, bool) {
	icons, err := ewmh.WmIconGet(b.XUtil, win)
	if err != nil || len(icons) == 0 {
		return 0, 0, nil, false
	}
	return scaleIcon(icons, wm.IconSize)
}

// SelectClientInput subscribes to the events the manager tracks on clients.
func (b *Backend) SelectClientInput(win xproto.Window) {
	xproto.ChangeWindowAttributes(b.XUtil.Conn(), win, xproto.CwEventMask,
		[]uint32{clientEventMask})
}

// MoveResize sets the full geometry of win.
func (b *Backend) MoveResize(win xproto.Window, x, y, w, h, bw int) {
	xproto.ConfigureWindow(b.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|
			xproto.ConfigWindowHeight|xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(x), uint32(y), uint32(max(w, 1)), uint32(max(h, 1)), uint32(bw)})
}

// Move changes only the position of win.
func (b *Backend) Move(win xproto.Window, x, y int) {
	xproto.ConfigureWindow(b.XUtil.Conn(), win, xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(x), uint32(y)})
}

// SendConfigureNotify tells a client its geometry without changing it.
func (b *Backend) SendConfigureNotify(win xproto.Window, x, y, w, h, bw int) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            win,
		Window:           win,
		AboveSibling:     0,
		X:                int16(x),
		Y:                int16(y),
		Width:            uint16(w),
		Height:           uint16(h),
		BorderWidth:      uint16(bw),
		OverrideRedirect: false,
	}
	xproto.SendEvent(b.XUtil.Conn(), false, win, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// ForwardConfigure grants a ConfigureRequest unchanged.
func (b *Backend) ForwardConfigure(ev xproto.ConfigureRequestEvent) {
	xproto.ConfigureWindow(b.XUtil.Conn(), ev.Window, ev.ValueMask, configureValues(ev))
}

// configureValues builds the value list for the fields set in ev.ValueMask,
// in the order the protocol expects.
func configureValues(ev xproto.ConfigureRequestEvent) []uint32 {
	var vals []uint32
	for _, f := range []struct {
		bit uint16
		val uint32
	}{
		{xproto.ConfigWindowX, uint32(ev.X)},
		{xproto.ConfigWindowY, uint32(ev.Y)},
		{xproto.ConfigWindowWidth, uint32(ev.Width)},
		{xproto.ConfigWindowHeight, uint32(ev.Height)},
		{xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth)},
		{xproto.ConfigWindowSibling, uint32(ev.Sibling)},
		{xproto.ConfigWindowStackMode, uint32(ev.StackMode)},
	} {
		if ev.ValueMask&f.bit != 0 {
			vals = append(vals, f.val)
		}
	}
	return vals
}

// SetBorder sets the border width of win.
func (b *Backend) SetBorder(win xproto.Window, width int) {
	xproto.ConfigureWindow(b.XUtil.Conn(), win, xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(width)})
}

// SetBorderColor paints the border of win in the selected or normal scheme.
func (b *Backend) SetBorderColor(win xproto.Window, selected bool) {
	pixel := b.normBdr
	if selected {
		pixel = b.selBdr
	}
	xproto.ChangeWindowAttributes(b.XUtil.Conn(), win, xproto.CwBorderPixel, []uint32{pixel})
}

// Raise puts win on top of its siblings.
func (b *Backend) Raise(win xproto.Window) {
	xproto.ConfigureWindow(b.XUtil.Conn(), win, xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove})
}

// Restack raises the first window and chains each following window below
// its predecessor.
func (b *Backend) Restack(wins []xproto.Window) {
	if len(wins) == 0 {
		return
	}
	conn := b.XUtil.Conn()
	b.Raise(wins[0])
	for i := 1; i < len(wins); i++ {
		xproto.ConfigureWindow(conn, wins[i],
			xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			[]uint32{uint32(wins[i-1]), xproto.StackModeBelow})
	}
}

// Map maps win.
func (b *Backend) Map(win xproto.Window) {
	xproto.MapWindow(b.XUtil.Conn(), win)
}

// Unmap unmaps win.
func (b *Backend) Unmap(win xproto.Window) {
	xproto.UnmapWindow(b.XUtil.Conn(), win)
}

// DiscardEnterEvents drops queued EnterNotify events caused by our own
// restacking and resizing.
func (b *Backend) DiscardEnterEvents() {
	b.Sync()
	xevent.Read(b.XUtil, false)
	queue := xevent.Peek(b.XUtil)
	for i := len(queue) - 1; i >= 0; i-- {
		if _, ok := queue[i].Event.(xproto.EnterNotifyEvent); ok {
			xevent.DequeueAt(b.XUtil, i)
		}
	}
}

// SetInputFocus gives the keyboard focus to win.
func (b *Backend) SetInputFocus(win xproto.Window) {
	xproto.SetInputFocus(b.XUtil.Conn(), xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}

// FocusRoot returns the keyboard focus to the root window.
func (b *Backend) FocusRoot() {
	b.SetInputFocus(b.Root())
}

// SupportsProtocol reports whether WM_PROTOCOLS of win lists proto.
func (b *Backend) SupportsProtocol(win xproto.Window, proto string) bool {
	protos, err := icccm.WmProtocolsGet(b.XUtil, win)
	return err == nil && slices.Contains(protos, proto)
}

// SendProtocol delivers a WM_PROTOCOLS client message such as
// WM_DELETE_WINDOW or WM_TAKE_FOCUS.
func (b *Backend) SendProtocol(win xproto.Window, proto string) {
	cm, err := xevent.NewClientMessage(32, win, b.Atom("WM_PROTOCOLS"),
		int(b.Atom(proto)), int(xproto.TimeCurrentTime))
	if err != nil {
		b.logger.Warn("build protocol message failed", "protocol", proto, "error", err)
		return
	}
	xproto.SendEvent(b.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(cm.Bytes()))
}

// KillClient destroys the connection owning win.
func (b *Backend) KillClient(win xproto.Window) {
	conn := b.XUtil.Conn()
	xproto.GrabServer(conn)
	xproto.SetCloseDownMode(conn, xproto.CloseDownDestroyAll)
	xproto.KillClient(conn, uint32(win))
	xproto.UngrabServer(conn)
	b.Sync()
}

// SetClientState writes the ICCCM WM_STATE of win.
func (b *Backend) SetClientState(win xproto.Window, state int) {
	if err := icccm.WmStateSet(b.XUtil, win, &icccm.WmState{State: uint(state)}); err != nil {
		b.logger.Debug("set WM_STATE failed", "window", win, "error", err)
	}
}

// SetFullscreenState replaces _NET_WM_STATE of win.
func (b *Backend) SetFullscreenState(win xproto.Window, on bool) {
	states := []string{}
	if on {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if err := ewmh.WmStateSet(b.XUtil, win, states); err != nil {
		b.logger.Debug("set _NET_WM_STATE failed", "window", win, "error", err)
	}
}
