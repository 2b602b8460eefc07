package hotkeys

import (
	"log/slog"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

// modifierMask keeps the bits that take part in chord matching.
const modifierMask = xproto.ModMaskShift | xproto.ModMaskControl |
	xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5

type keyChord struct {
	mods    uint16
	codes   []xproto.Keycode
	binding config.Key
}

type buttonChord struct {
	mods    uint16
	button  xproto.Button
	binding config.Button
}

// Handler owns the passive key and button grabs and resolves incoming
// chords to configured bindings.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	logger  *slog.Logger
	keys    []config.Key
	chords  []keyChord
	buttons []buttonChord
	numLock uint16
}

var _ wm.Bindings = (*Handler)(nil)

// NewHandler parses the configured chords against the current keyboard
// mapping. Chords that do not parse are logged and skipped.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, keys []config.Key, buttons []config.Button, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{xu: xu, root: root, logger: logger, keys: keys}
	h.configureIgnoreMods()
	h.parseKeys()
	for _, b := range buttons {
		mods, button, err := mousebind.ParseString(xu, b.Button)
		if err != nil || button == 0 {
			logger.Warn("skipping button binding", "button", b.Button, "click", b.Click, "error", err)
			continue
		}
		h.buttons = append(h.buttons, buttonChord{mods: mods, button: button, binding: b})
	}
	return h
}

func (h *Handler) parseKeys() {
	h.chords = h.chords[:0]
	for _, k := range h.keys {
		mods, codes, err := keybind.ParseString(h.xu, k.Key)
		if err != nil {
			h.logger.Warn("skipping key binding", "key", k.Key, "error", err)
			continue
		}
		h.chords = append(h.chords, keyChord{mods: mods, codes: codes, binding: k})
	}
}

// GrabKeys replaces every key grab on the root window.
func (h *Handler) GrabKeys() {
	xproto.UngrabKey(h.xu.Conn(), xproto.GrabAny, h.root, xproto.ModMaskAny)
	for _, c := range h.chords {
		for _, code := range c.codes {
			keybind.Grab(h.xu, h.root, c.mods, code)
		}
	}
}

// GrabButtons grabs the client-window chords on win. Unfocused windows also
// get a synchronous grab of every button so a click can focus them.
func (h *Handler) GrabButtons(win xproto.Window, focused bool) {
	conn := h.xu.Conn()
	h.UngrabButtons(win)
	if !focused {
		xproto.GrabButton(conn, false, win,
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease,
			xproto.GrabModeSync, xproto.GrabModeSync, 0, 0,
			xproto.ButtonIndexAny, xproto.ModMaskAny)
	}
	for _, b := range h.buttons {
		if b.binding.Click == config.ClickClientWin {
			mousebind.Grab(h.xu, win, b.mods, b.button, false)
		}
	}
}

// UngrabButtons drops every button grab on win.
func (h *Handler) UngrabButtons(win xproto.Window) {
	xproto.UngrabButton(h.xu.Conn(), xproto.ButtonIndexAny, win, xproto.ModMaskAny)
}

// RefreshMapping reloads the keyboard and modifier maps after a keyboard
// MappingNotify and regrabs the keys.
func (h *Handler) RefreshMapping(ev xproto.MappingNotifyEvent) {
	if ev.Request != xproto.MappingKeyboard && ev.Request != xproto.MappingModifier {
		return
	}
	keyMap, modMap := keybind.MapsGet(h.xu)
	keybind.KeyMapSet(h.xu, keyMap)
	keybind.ModMapSet(h.xu, modMap)
	h.configureIgnoreMods()
	h.parseKeys()
	h.GrabKeys()
	h.logger.Debug("keyboard mapping refreshed", "bindings", len(h.chords))
}

// Key returns the bindings matching a key press.
func (h *Handler) Key(state uint16, code xproto.Keycode) []config.Key {
	clean := cleanMask(state, h.numLock)
	var out []config.Key
	for _, c := range h.chords {
		if cleanMask(c.mods, h.numLock) == clean && slices.Contains(c.codes, code) {
			out = append(out, c.binding)
		}
	}
	return out
}

// Button returns the bindings matching a button press in click.
func (h *Handler) Button(click config.Click, state uint16, button xproto.Button) []config.Button {
	clean := cleanMask(state, h.numLock)
	var out []config.Button
	for _, b := range h.buttons {
		if b.binding.Click == click && b.button == button && cleanMask(b.mods, h.numLock) == clean {
			out = append(out, b.binding)
		}
	}
	return out
}

// cleanMask strips lock modifiers and pointer button state.
func cleanMask(state, numLock uint16) uint16 {
	return state &^ (numLock | xproto.ModMaskLock) & modifierMask
}

func (h *Handler) configureIgnoreMods() {
	h.numLock = modMaskForKeysym(h.xu, "Num_Lock")
	scrollLock := modMaskForKeysym(h.xu, "Scroll_Lock")
	xevent.IgnoreMods = ignoreMods(h.numLock, scrollLock)
}

// ignoreMods lists every combination of CapsLock, NumLock and ScrollLock so
// grabs work whatever lock state the keyboard is in.
func ignoreMods(numLock, scrollLock uint16) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if !slices.Contains(ignore, mask) {
			ignore = append(ignore, mask)
		}
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
