package wm

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/tiling"
)

const testRoot xproto.Window = 1

type fakeWindow struct {
	attrs              WindowAttrs
	title              string
	class, instance    string
	transient          xproto.Window
	hints              *SizeHints
	wmHints            *WMHints
	fullscreen, dialog bool
	protocols          []string
	x, y, w, h, bw     int
	mapped             bool
	state              int
	selected           bool
	embedMapped        *bool
}

type fakeServer struct {
	screens    []tiling.Rect
	sw, sh     int
	windows    map[xproto.Window]*fakeWindow
	atoms      map[string]xproto.Atom
	focus      xproto.Window
	active     xproto.Window
	clientList []xproto.Window
	restacks   [][]xproto.Window
	sent       []string
	killed     []xproto.Window
	desktops   []string
	current    int
	rootName   string
	px, py     int
	grabbed    bool
	fsState    map[xproto.Window]bool
}

func newFakeServer(screens ...tiling.Rect) *fakeServer {
	sw, sh := 0, 0
	for _, r := range screens {
		sw = max(sw, r.X+r.Width)
		sh = max(sh, r.Y+r.Height)
	}
	return &fakeServer{
		screens: screens,
		sw:      sw,
		sh:      sh,
		windows: make(map[xproto.Window]*fakeWindow),
		atoms:   make(map[string]xproto.Atom),
		fsState: make(map[xproto.Window]bool),
	}
}

func (s *fakeServer) win(w xproto.Window) *fakeWindow {
	fw, ok := s.windows[w]
	if !ok {
		fw = &fakeWindow{}
		s.windows[w] = fw
	}
	return fw
}

func (s *fakeServer) addWindow(w xproto.Window, class, instance, title string) *fakeWindow {
	fw := s.win(w)
	fw.class, fw.instance, fw.title = class, instance, title
	fw.attrs = WindowAttrs{X: 10, Y: 10, Width: 300, Height: 200, BorderWidth: 0}
	return fw
}

func (s *fakeServer) Root() xproto.Window { return testRoot }

func (s *fakeServer) Atom(name string) xproto.Atom {
	if a, ok := s.atoms[name]; ok {
		return a
	}
	a := xproto.Atom(100 + len(s.atoms))
	s.atoms[name] = a
	return a
}

func (s *fakeServer) ScreenRects() []tiling.Rect { return slices.Clone(s.screens) }
func (s *fakeServer) ScreenSize() (int, int)     { return s.sw, s.sh }

func (s *fakeServer) Attributes(w xproto.Window) (WindowAttrs, bool) {
	fw, ok := s.windows[w]
	if !ok {
		return WindowAttrs{}, false
	}
	return fw.attrs, true
}

func (s *fakeServer) Children() []xproto.Window {
	var out []xproto.Window
	for w := range s.windows {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

func (s *fakeServer) Title(w xproto.Window) string { return s.win(w).title }

func (s *fakeServer) Class(w xproto.Window) (string, string) {
	fw := s.win(w)
	return fw.class, fw.instance
}

func (s *fakeServer) TransientFor(w xproto.Window) (xproto.Window, bool) {
	fw := s.win(w)
	return fw.transient, fw.transient != 0
}

func (s *fakeServer) SizeHints(w xproto.Window) (SizeHints, bool) {
	if h := s.win(w).hints; h != nil {
		return *h, true
	}
	return SizeHints{}, false
}

func (s *fakeServer) WMHints(w xproto.Window) (WMHints, bool) {
	if h := s.win(w).wmHints; h != nil {
		return *h, true
	}
	return WMHints{}, false
}

func (s *fakeServer) SetUrgencyHint(w xproto.Window, urgent bool) {
	fw := s.win(w)
	if fw.wmHints == nil {
		fw.wmHints = &WMHints{}
	}
	fw.wmHints.Urgent = urgent
}

func (s *fakeServer) WindowState(w xproto.Window) bool { return s.win(w).fullscreen }
func (s *fakeServer) IsDialog(w xproto.Window) bool    { return s.win(w).dialog }

func (s *fakeServer) WMState(w xproto.Window) (int, bool) {
	fw, ok := s.windows[w]
	if !ok {
		return 0, false
	}
	return fw.state, true
}

func (s *fakeServer) Icon(w xproto.Window) (int, int, []uint32, bool) { return 0, 0, nil, false }
func (s *fakeServer) RootName() string                                 { return s.rootName }
func (s *fakeServer) Pointer() (int, int, bool)                        { return s.px, s.py, true }
func (s *fakeServer) SelectClientInput(w xproto.Window)                {}

func (s *fakeServer) MoveResize(w xproto.Window, x, y, width, height, bw int) {
	fw := s.win(w)
	fw.x, fw.y, fw.w, fw.h, fw.bw = x, y, width, height, bw
}

func (s *fakeServer) Move(w xproto.Window, x, y int) {
	fw := s.win(w)
	fw.x, fw.y = x, y
}

func (s *fakeServer) SendConfigureNotify(w xproto.Window, x, y, width, height, bw int) {}
func (s *fakeServer) ForwardConfigure(ev xproto.ConfigureRequestEvent) {
	fw := s.win(ev.Window)
	fw.w, fw.h = int(ev.Width), int(ev.Height)
}
func (s *fakeServer) SetBorder(w xproto.Window, width int) { s.win(w).bw = width }
func (s *fakeServer) SetBorderColor(w xproto.Window, selected bool) {
	s.win(w).selected = selected
}
func (s *fakeServer) Raise(w xproto.Window) {}
func (s *fakeServer) Restack(wins []xproto.Window) {
	s.restacks = append(s.restacks, slices.Clone(wins))
}
func (s *fakeServer) Map(w xproto.Window) {
	fw := s.win(w)
	fw.mapped = true
	fw.attrs.Viewable = true
}
func (s *fakeServer) Unmap(w xproto.Window) {
	fw := s.win(w)
	fw.mapped = false
	fw.attrs.Viewable = false
}
func (s *fakeServer) DiscardEnterEvents()                     {}
func (s *fakeServer) ReplayPointer()                          {}
func (s *fakeServer) WarpPointer(w xproto.Window, x, y int)   {}
func (s *fakeServer) GrabPointer(cursor Cursor) bool          { s.grabbed = true; return true }
func (s *fakeServer) UngrabPointer()                          { s.grabbed = false }
func (s *fakeServer) SetInputFocus(w xproto.Window)           { s.focus = w }
func (s *fakeServer) FocusRoot()                              { s.focus = testRoot }
func (s *fakeServer) SupportsProtocol(w xproto.Window, proto string) bool {
	return slices.Contains(s.win(w).protocols, proto)
}
func (s *fakeServer) SendProtocol(w xproto.Window, proto string) {
	s.sent = append(s.sent, fmt.Sprintf("%d:%s", w, proto))
}
func (s *fakeServer) KillClient(w xproto.Window)               { s.killed = append(s.killed, w) }
func (s *fakeServer) SetClientState(w xproto.Window, state int) { s.win(w).state = state }
func (s *fakeServer) SetFullscreenState(w xproto.Window, on bool) {
	s.fsState[w] = on
}
func (s *fakeServer) SetActiveWindow(w xproto.Window)    { s.active = w }
func (s *fakeServer) ClearActiveWindow()                 { s.active = 0 }
func (s *fakeServer) SetClientList(wins []xproto.Window) { s.clientList = slices.Clone(wins) }
func (s *fakeServer) SetDesktops(names []string)         { s.desktops = slices.Clone(names) }
func (s *fakeServer) SetCurrentDesktop(i int)            { s.current = i }

type fakeDrawer struct {
	next      xproto.Window
	bars      map[xproto.Window]BarState
	destroyed []xproto.Window
}

func (d *fakeDrawer) BarHeight() int         { return 20 }
func (d *fakeDrawer) Padding() int           { return 10 }
func (d *fakeDrawer) TextWidth(s string) int { return 8 * len([]rune(s)) }
func (d *fakeDrawer) CreateBar(x, y, w, h int) xproto.Window {
	d.next++
	return 5000 + d.next
}
func (d *fakeDrawer) DestroyBar(win xproto.Window) {
	d.destroyed = append(d.destroyed, win)
	delete(d.bars, win)
}
func (d *fakeDrawer) DrawBar(bar BarState) {
	if d.bars == nil {
		d.bars = make(map[xproto.Window]BarState)
	}
	d.bars[bar.Win] = bar
}
func (d *fakeDrawer) Close() {}

type fakeBindings struct {
	keys    map[xproto.Keycode][]config.Key
	buttons []config.Button
	grabs   int
}

func (b *fakeBindings) GrabKeys()                                    { b.grabs++ }
func (b *fakeBindings) GrabButtons(w xproto.Window, focused bool)    {}
func (b *fakeBindings) UngrabButtons(w xproto.Window)                {}
func (b *fakeBindings) RefreshMapping(ev xproto.MappingNotifyEvent) { b.grabs++ }
func (b *fakeBindings) Key(state uint16, code xproto.Keycode) []config.Key {
	return b.keys[code]
}
func (b *fakeBindings) Button(click config.Click, state uint16, button xproto.Button) []config.Button {
	var out []config.Button
	for _, btn := range b.buttons {
		if btn.Click == click && btn.Button == fmt.Sprint(button) {
			out = append(out, btn)
		}
	}
	return out
}

type fakeSpawner struct {
	spawned [][]string
	err     error
}

func (s *fakeSpawner) Spawn(argv []string) error {
	s.spawned = append(s.spawned, slices.Clone(argv))
	return s.err
}

type fakeTray struct {
	win      xproto.Window
	embedded []xproto.Window
	active   map[xproto.Window]bool
	released []xproto.Window
	srv      *fakeServer
}

func (t *fakeTray) CreateTray(x, y, w, h int) (xproto.Window, error) {
	t.win = 4000
	return t.win, nil
}
func (t *fakeTray) DestroyTray(tray xproto.Window) {}
func (t *fakeTray) Embed(tray, icon xproto.Window) bool {
	t.embedded = append(t.embedded, icon)
	return true
}
func (t *fakeTray) EmbedMapped(icon xproto.Window) (bool, bool) {
	if m := t.srv.win(icon).embedMapped; m != nil {
		return *m, true
	}
	return false, false
}
func (t *fakeTray) SetEmbedActive(tray, icon xproto.Window, active bool) {
	if t.active == nil {
		t.active = make(map[xproto.Window]bool)
	}
	t.active[icon] = active
}
func (t *fakeTray) Release(icon xproto.Window) { t.released = append(t.released, icon) }

type harness struct {
	t       *testing.T
	e       *Engine
	srv     *fakeServer
	draw    *fakeDrawer
	keys    *fakeBindings
	spawner *fakeSpawner
	tray    *fakeTray
	now     time.Time
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ShowBar = false
	cfg.BorderPx = 0
	cfg.Systray.Enabled = false
	return cfg
}

func newHarness(t *testing.T, cfg *config.Config, screens ...tiling.Rect) *harness {
	t.Helper()
	if len(screens) == 0 {
		screens = []tiling.Rect{{Width: 1000, Height: 800}}
	}
	h := &harness{
		t:       t,
		srv:     newFakeServer(screens...),
		draw:    &fakeDrawer{},
		keys:    &fakeBindings{},
		spawner: &fakeSpawner{},
		now:     time.Unix(1000, 0),
	}
	h.tray = &fakeTray{srv: h.srv}
	e, err := New(cfg, Options{
		Server:   h.srv,
		Drawer:   h.draw,
		Bindings: h.keys,
		Spawner:  h.spawner,
		Tray:     h.tray,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return h.now },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.Setup()
	h.e = e
	return h
}

// open creates and maps a window through a MapRequest.
func (h *harness) open(w xproto.Window, class, instance, title string) *Client {
	h.t.Helper()
	h.srv.addWindow(w, class, instance, title)
	h.e.Dispatch(xproto.MapRequestEvent{Parent: testRoot, Window: w})
	c := h.e.clients[w]
	if c == nil {
		h.t.Fatalf("window %d was not managed", w)
	}
	return c
}

func (h *harness) run(action config.Action, arg config.Arg) {
	h.t.Helper()
	if err := h.e.Run(action, arg); err != nil {
		h.t.Fatalf("run %s: %v", action, err)
	}
}

func (h *harness) checkTagInvariant() {
	h.t.Helper()
	for w, c := range h.e.clients {
		if c.Tags&^h.e.tagMask != 0 {
			h.t.Fatalf("client %d has tags %#x outside mask %#x", w, c.Tags, h.e.tagMask)
		}
		if c.Tags == 0 && c.ScratchKey == 0 {
			h.t.Fatalf("client %d has no tags", w)
		}
	}
}

func (h *harness) checkFocusExclusive() {
	h.t.Helper()
	selected := 0
	for _, m := range h.e.mons {
		for _, w := range m.Clients {
			if h.srv.win(w).selected {
				selected++
				if m != h.e.selmon || m.Sel != w {
					h.t.Fatalf("client %d drawn selected but selection is %d on monitor %d", w, h.e.selmon.Sel, h.e.selmon.Num)
				}
			}
		}
	}
	if selected > 1 {
		h.t.Fatalf("%d clients drawn selected", selected)
	}
	if sel := h.e.sel(h.e.selmon); sel != nil && !sel.Visible() {
		h.t.Fatalf("selected client %d is not visible", sel.Win)
	}
}
