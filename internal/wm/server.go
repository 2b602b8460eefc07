package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/tiling"
)

// WM_STATE values.
const (
	WithdrawnState = 0
	NormalState    = 1
	IconicState    = 3
)

// Size hint flags, as laid out in WM_NORMAL_HINTS.
const (
	HintPMinSize   = 1 << 4
	HintPMaxSize   = 1 << 5
	HintPResizeInc = 1 << 6
	HintPAspect    = 1 << 7
	HintPBaseSize  = 1 << 8
)

// SizeHints is the raw content of WM_NORMAL_HINTS.
type SizeHints struct {
	Flags                      uint
	MinWidth, MinHeight        int
	MaxWidth, MaxHeight        int
	WidthInc, HeightInc        int
	MinAspectNum, MinAspectDen int
	MaxAspectNum, MaxAspectDen int
	BaseWidth, BaseHeight      int
}

// WMHints is the subset of WM_HINTS the manager acts on.
type WMHints struct {
	Urgent   bool
	HasInput bool
	Input    bool
}

// WindowAttrs is what MapRequest and the startup scan need to know about a
// window before managing it.
type WindowAttrs struct {
	OverrideRedirect bool
	Viewable         bool
	X, Y             int
	Width, Height    int
	BorderWidth      int
}

// Server is the display connection as seen by the engine. Every method is
// fire-and-forget from the engine's point of view; requests on windows that
// have vanished are dropped by the implementation's error handler.
type Server interface {
	Root() xproto.Window
	Atom(name string) xproto.Atom

	// ScreenRects lists the physical screens, deduplicated, in a stable order.
	ScreenRects() []tiling.Rect
	ScreenSize() (int, int)

	Attributes(win xproto.Window) (WindowAttrs, bool)
	Children() []xproto.Window
	Title(win xproto.Window) string
	Class(win xproto.Window) (class, instance string)
	TransientFor(win xproto.Window) (xproto.Window, bool)
	SizeHints(win xproto.Window) (SizeHints, bool)
	WMHints(win xproto.Window) (WMHints, bool)
	SetUrgencyHint(win xproto.Window, urgent bool)
	WindowState(win xproto.Window) (fullscreen bool)
	IsDialog(win xproto.Window) bool
	WMState(win xproto.Window) (int, bool)
	Icon(win xproto.Window) (w, h int, argb []uint32, ok bool)
	RootName() string
	Pointer() (x, y int, ok bool)

	SelectClientInput(win xproto.Window)
	MoveResize(win xproto.Window, x, y, w, h, bw int)
	Move(win xproto.Window, x, y int)
	SendConfigureNotify(win xproto.Window, x, y, w, h, bw int)
	ForwardConfigure(ev xproto.ConfigureRequestEvent)
	SetBorder(win xproto.Window, width int)
	SetBorderColor(win xproto.Window, selected bool)
	Raise(win xproto.Window)
	// Restack orders windows top to bottom.
	Restack(wins []xproto.Window)
	Map(win xproto.Window)
	Unmap(win xproto.Window)
	DiscardEnterEvents()
	ReplayPointer()
	WarpPointer(win xproto.Window, x, y int)
	GrabPointer(cursor Cursor) bool
	UngrabPointer()

	SetInputFocus(win xproto.Window)
	FocusRoot()
	SupportsProtocol(win xproto.Window, proto string) bool
	SendProtocol(win xproto.Window, proto string)
	KillClient(win xproto.Window)

	SetClientState(win xproto.Window, state int)
	SetFullscreenState(win xproto.Window, on bool)
	SetActiveWindow(win xproto.Window)
	ClearActiveWindow()
	SetClientList(wins []xproto.Window)
	SetDesktops(names []string)
	SetCurrentDesktop(i int)
}

// Cursor selects the pointer shape during a drag.
type Cursor int

const (
	CursorNormal Cursor = iota
	CursorMove
	CursorResize
)

// Drawer paints bar windows. TextWidth returns the pixel width of s without
// padding; Padding is the horizontal padding around each bar cell.
type Drawer interface {
	BarHeight() int
	Padding() int
	TextWidth(s string) int
	CreateBar(x, y, w, h int) xproto.Window
	DestroyBar(win xproto.Window)
	DrawBar(bar BarState)
	Close()
}

// Bindings resolves key and button chords to configured bindings and owns
// the corresponding passive grabs.
type Bindings interface {
	GrabKeys()
	GrabButtons(win xproto.Window, focused bool)
	UngrabButtons(win xproto.Window)
	// RefreshMapping reloads the keyboard map after a MappingNotify.
	RefreshMapping(ev xproto.MappingNotifyEvent)
	Key(state uint16, code xproto.Keycode) []config.Key
	Button(click config.Click, state uint16, button xproto.Button) []config.Button
}

// Spawner launches detached children.
type Spawner interface {
	Spawn(argv []string) error
}

// TrayServer is the X side of the system tray.
type TrayServer interface {
	// CreateTray creates the container window and takes the tray selection.
	CreateTray(x, y, w, h int) (xproto.Window, error)
	DestroyTray(tray xproto.Window)
	// Embed reparents an icon into the tray and announces the embedding.
	Embed(tray, icon xproto.Window) bool
	// EmbedMapped reports the XEMBED_MAPPED flag of an icon's _XEMBED_INFO.
	EmbedMapped(icon xproto.Window) (mapped, ok bool)
	SetEmbedActive(tray, icon xproto.Window, active bool)
	// Release hands an icon back to the root window on shutdown.
	Release(icon xproto.Window)
}
