package hotkeys

import (
	"slices"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/config"
)

const numLockMask = xproto.ModMask2

func TestIgnoreMods(t *testing.T) {
	got := ignoreMods(numLockMask, xproto.ModMask5)
	slices.Sort(got)
	want := []uint16{
		0,
		xproto.ModMaskLock,
		xproto.ModMask2,
		xproto.ModMaskLock | xproto.ModMask2,
		xproto.ModMask5,
		xproto.ModMaskLock | xproto.ModMask5,
		xproto.ModMask2 | xproto.ModMask5,
		xproto.ModMaskLock | xproto.ModMask2 | xproto.ModMask5,
	}
	slices.Sort(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ignore mods mismatch (-want +got):\n%s", diff)
	}
}

func TestIgnoreMods_MissingLocks(t *testing.T) {
	got := ignoreMods(0, 0)
	if diff := cmp.Diff([]uint16{0, xproto.ModMaskLock}, got); diff != "" {
		t.Fatalf("ignore mods mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanMask(t *testing.T) {
	state := uint16(xproto.ModMask4 | xproto.ModMaskShift | xproto.ModMaskLock | numLockMask | xproto.KeyButMaskButton1)
	if got := cleanMask(state, numLockMask); got != xproto.ModMask4|xproto.ModMaskShift {
		t.Fatalf("cleanMask = %#x", got)
	}
}

func testHandler() *Handler {
	view := config.Key{Key: "Mod4-1", Action: config.ActionView, Arg: config.TagArg(0)}
	tag := config.Key{Key: "Mod4-Shift-1", Action: config.ActionTag, Arg: config.TagArg(0)}
	move := config.Button{Click: config.ClickClientWin, Button: "Mod4-1", Action: config.ActionMoveMouse, Arg: config.NoArg{}}
	viewClick := config.Button{Click: config.ClickTagBar, Button: "1", Action: config.ActionView, Arg: config.NoArg{}}
	return &Handler{
		numLock: numLockMask,
		chords: []keyChord{
			{mods: xproto.ModMask4, codes: []xproto.Keycode{10}, binding: view},
			{mods: xproto.ModMask4 | xproto.ModMaskShift, codes: []xproto.Keycode{10}, binding: tag},
		},
		buttons: []buttonChord{
			{mods: xproto.ModMask4, button: 1, binding: move},
			{mods: 0, button: 1, binding: viewClick},
		},
	}
}

func TestKey_MatchesIgnoringLocks(t *testing.T) {
	h := testHandler()
	got := h.Key(xproto.ModMask4|numLockMask|xproto.ModMaskLock, 10)
	if len(got) != 1 || got[0].Action != config.ActionView {
		t.Fatalf("expected view binding, got %+v", got)
	}
	if got := h.Key(xproto.ModMask4|xproto.ModMaskShift, 10); len(got) != 1 || got[0].Action != config.ActionTag {
		t.Fatalf("expected tag binding, got %+v", got)
	}
	if got := h.Key(xproto.ModMask4, 11); len(got) != 0 {
		t.Fatalf("expected no binding for another keycode, got %+v", got)
	}
}

func TestButton_MatchesRegion(t *testing.T) {
	h := testHandler()
	if got := h.Button(config.ClickClientWin, xproto.ModMask4, 1); len(got) != 1 || got[0].Action != config.ActionMoveMouse {
		t.Fatalf("expected move binding, got %+v", got)
	}
	if got := h.Button(config.ClickTagBar, numLockMask, 1); len(got) != 1 || got[0].Action != config.ActionView {
		t.Fatalf("expected view binding, got %+v", got)
	}
	if got := h.Button(config.ClickRootWin, 0, 1); len(got) != 0 {
		t.Fatalf("expected no binding on the root window, got %+v", got)
	}
}
