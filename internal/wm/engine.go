package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/tiling"
)

// ErrOtherWM is returned by the backend when another window manager holds
// substructure redirection on the root window.
var ErrOtherWM = errors.New("another window manager is already running")

// Options wires the engine to its collaborators.
type Options struct {
	Server   Server
	Drawer   Drawer
	Bindings Bindings
	Spawner  Spawner
	// Tray is nil when the system tray is disabled.
	Tray   TrayServer
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type atoms struct {
	wmState, wmFullscreen, activeWindow, wmName, wmWindowType, wmIcon xproto.Atom
	trayOpcode, xembedInfo                                             xproto.Atom
}

// Engine owns the whole window manager model. It is not safe for concurrent
// use; the daemon serializes every call onto one goroutine.
type Engine struct {
	cfg      *config.Config
	srv      Server
	draw     Drawer
	keys     Bindings
	spawner  Spawner
	trayX    TrayServer
	logger   *slog.Logger
	now      func() time.Time
	layouts  []tiling.Layout
	tagMask  uint32
	atoms    atoms
	root     xproto.Window
	sw, sh   int
	bh       int
	lrpad    int
	clients  map[xproto.Window]*Client
	mons     []*Monitor
	selmon   *Monitor
	motion   *Monitor
	status   string
	running  bool
	tray     *systray
	drag     *dragState
	killing  map[xproto.Window]time.Time
	desktop  int
	// pendingScratch is the scratchpad key whose command was spawned and
	// whose window has not appeared yet.
	pendingScratch rune
}

// New creates an engine for cfg. Setup must be called before dispatching
// events.
func New(cfg *config.Config, opts Options) (*Engine, error) {
	if opts.Server == nil || opts.Drawer == nil || opts.Bindings == nil || opts.Spawner == nil {
		return nil, fmt.Errorf("engine requires server, drawer, bindings and spawner")
	}
	layouts := cfg.LayoutRegistry()
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:     cfg,
		srv:     opts.Server,
		draw:    opts.Drawer,
		keys:    opts.Bindings,
		spawner: opts.Spawner,
		trayX:   opts.Tray,
		logger:  logger,
		now:     now,
		layouts: layouts,
		tagMask: cfg.TagMask(),
		clients: make(map[xproto.Window]*Client),
		killing: make(map[xproto.Window]time.Time),
		desktop: -1,
		running: true,
	}, nil
}

// Setup discovers monitors, creates bars and the tray, publishes EWMH
// desktop state and adopts already mapped windows.
func (e *Engine) Setup() {
	e.root = e.srv.Root()
	e.sw, e.sh = e.srv.ScreenSize()
	e.bh = e.draw.BarHeight()
	e.lrpad = e.draw.Padding()
	e.atoms = atoms{
		wmState:      e.srv.Atom("_NET_WM_STATE"),
		wmFullscreen: e.srv.Atom("_NET_WM_STATE_FULLSCREEN"),
		activeWindow: e.srv.Atom("_NET_ACTIVE_WINDOW"),
		wmName:       e.srv.Atom("_NET_WM_NAME"),
		wmWindowType: e.srv.Atom("_NET_WM_WINDOW_TYPE"),
		wmIcon:       e.srv.Atom("_NET_WM_ICON"),
		trayOpcode:   e.srv.Atom("_NET_SYSTEM_TRAY_OPCODE"),
		xembedInfo:   e.srv.Atom("_XEMBED_INFO"),
	}
	e.updateGeom()
	e.updateBars()
	e.updateStatus()
	e.srv.SetDesktops(e.cfg.Tags)
	e.srv.SetClientList(nil)
	e.keys.GrabKeys()
	e.focus(nil)
	e.scan()
	e.updateSystray()
	e.logger.Info("window manager ready",
		"monitors", len(e.mons), "clients", len(e.clients), "screen", fmt.Sprintf("%dx%d", e.sw, e.sh))
}

// scan manages windows that existed before startup. Transients go second so
// their parents are already known.
func (e *Engine) scan() {
	children := e.srv.Children()
	var transients []xproto.Window
	for _, w := range children {
		wa, ok := e.srv.Attributes(w)
		if !ok || wa.OverrideRedirect || e.isBar(w) {
			continue
		}
		if _, isTransient := e.srv.TransientFor(w); isTransient {
			transients = append(transients, w)
			continue
		}
		if wa.Viewable || e.isIconic(w) {
			e.manage(w, wa)
		}
	}
	for _, w := range transients {
		wa, ok := e.srv.Attributes(w)
		if !ok {
			continue
		}
		if wa.Viewable || e.isIconic(w) {
			e.manage(w, wa)
		}
	}
}

func (e *Engine) isIconic(w xproto.Window) bool {
	st, ok := e.srv.WMState(w)
	return ok && st == IconicState
}

func (e *Engine) isBar(w xproto.Window) bool {
	for _, m := range e.mons {
		if m.BarWin == w {
			return true
		}
	}
	return e.tray != nil && e.tray.win == w
}

// Running reports whether quit has not been requested.
func (e *Engine) Running() bool { return e.running }

// Quit stops the control loop after the current iteration.
func (e *Engine) Quit() { e.running = false }

// Cleanup releases every client back to the root window, as if the window
// manager had never been there.
func (e *Engine) Cleanup() {
	for _, m := range e.mons {
		m.TagSet[m.SelTags] = ^uint32(0)
		m.Lt[m.SelLt] = e.floatingLayout()
	}
	for _, m := range e.mons {
		for len(m.Stack) > 0 {
			if c := e.clients[m.Stack[0]]; c != nil {
				e.unmanage(c, false)
			} else {
				m.Stack = m.Stack[1:]
			}
		}
	}
	e.cleanupSystray()
	e.srv.FocusRoot()
	e.srv.ClearActiveWindow()
	e.draw.Close()
}

// floatingLayout returns the registry index of a non-tiling layout, or the
// current one when the registry has none.
func (e *Engine) floatingLayout() int {
	for i, l := range e.layouts {
		if !l.Tiles() {
			return i
		}
	}
	return 0
}

// Tick performs time-driven work: escalating kills that the client ignored.
func (e *Engine) Tick() {
	now := e.now()
	for w, deadline := range e.killing {
		if e.clients[w] == nil {
			delete(e.killing, w)
			continue
		}
		if now.Before(deadline) {
			continue
		}
		delete(e.killing, w)
		e.logger.Warn("client ignored WM_DELETE_WINDOW, killing", "window", w)
		e.srv.KillClient(w)
	}
}

// Reload applies a new configuration. The layout registry, tags, rules,
// bindings and geometry settings take effect at once.
func (e *Engine) Reload(cfg *config.Config, keys Bindings) error {
	layouts := cfg.LayoutRegistry()
	if len(layouts) == 0 {
		return fmt.Errorf("no layouts configured")
	}
	tagsChanged := len(cfg.Tags) != len(e.cfg.Tags)
	e.cfg = cfg
	e.layouts = layouts
	e.tagMask = cfg.TagMask()
	if keys != nil {
		e.keys = keys
	}

	for _, m := range e.mons {
		for i := range m.Lt {
			if m.Lt[i] >= len(layouts) {
				m.Lt[i] = 0
			}
		}
		for i := range m.TagSet {
			if m.TagSet[i] &= e.tagMask; m.TagSet[i] == 0 {
				m.TagSet[i] = 1
			}
		}
		if tagsChanged {
			fresh := e.createMon()
			m.Pertag = fresh.Pertag
		}
		for i := range m.Pertag.LtIdxs {
			for j := range m.Pertag.LtIdxs[i] {
				if m.Pertag.LtIdxs[i][j] >= len(layouts) {
					m.Pertag.LtIdxs[i][j] = 0
				}
			}
		}
		m.MFact = tiling.ClampMFact(m.MFact)
	}
	for _, c := range e.clients {
		if c.Tags &= e.tagMask; c.Tags == 0 && c.ScratchKey == 0 {
			c.Tags = c.Mon.TagSet[c.Mon.SelTags]
		}
		if !c.IsFullscreen && c.BW != cfg.BorderPx {
			c.BW = cfg.BorderPx
			e.srv.SetBorder(c.Win, c.BW)
		}
	}
	e.srv.SetDesktops(cfg.Tags)
	e.desktop = -1
	e.keys.GrabKeys()
	for _, c := range e.clients {
		e.keys.GrabButtons(c.Win, c.Win == e.selmon.Sel)
	}
	e.focus(nil)
	e.arrange(nil)
	e.updateSystray()
	e.logger.Info("configuration reloaded", "tags", len(cfg.Tags), "layouts", len(layouts))
	return nil
}
