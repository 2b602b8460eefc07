package x11

import (
	"testing"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/tiling"
)

func TestIgnoredError(t *testing.T) {
	cases := []struct {
		name string
		err  xgb.Error
		want bool
	}{
		{"bad window", xproto.WindowError{MajorOpcode: opConfigureWindow}, true},
		{"match on focus", xproto.MatchError{MajorOpcode: opSetInputFocus}, true},
		{"match elsewhere", xproto.MatchError{MajorOpcode: 1}, false},
		{"drawable on fill", xproto.DrawableError{MajorOpcode: opPolyFillRectangle}, true},
		{"drawable elsewhere", xproto.DrawableError{MajorOpcode: 1}, false},
		{"access on grab key", xproto.AccessError{MajorOpcode: opGrabKey}, true},
		{"access on redirect", xproto.AccessError{MajorOpcode: 2}, false},
		{"value", xproto.ValueError{MajorOpcode: opConfigureWindow}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ignoredError(tc.err); got != tc.want {
				t.Fatalf("ignoredError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	r, g, b, err := parseColor("#ff8000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != 0xffff || g != 0x8080 || b != 0 {
		t.Fatalf("got %#x %#x %#x", r, g, b)
	}
	for _, bad := range []string{"", "#fff", "#gg0000", "ff00001"} {
		if _, _, _, err := parseColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestUniqueRects(t *testing.T) {
	in := []tiling.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1280, Height: 1024},
	}
	want := []tiling.Rect{in[0], in[2]}
	if diff := cmp.Diff(want, uniqueRects(in)); diff != "" {
		t.Fatalf("unique rects mismatch (-want +got):\n%s", diff)
	}
}

func solidIcon(w, h int, px uint) ewmh.WmIcon {
	data := make([]uint, w*h)
	for i := range data {
		data[i] = px
	}
	return ewmh.WmIcon{Width: uint(w), Height: uint(h), Data: data}
}

func TestScaleIcon_PrefersSmallestLargeEnough(t *testing.T) {
	icons := []ewmh.WmIcon{
		solidIcon(8, 8, 0xff000001),
		solidIcon(64, 64, 0xff000002),
		solidIcon(32, 32, 0xff000003),
	}
	w, h, data, ok := scaleIcon(icons, 16)
	if !ok || w != 16 || h != 16 {
		t.Fatalf("got %dx%d ok=%v", w, h, ok)
	}
	if data[0] != 0xff000003 {
		t.Fatalf("expected the 32px icon, got pixel %#x", data[0])
	}
}

func TestScaleIcon_FallsBackToLargest(t *testing.T) {
	icons := []ewmh.WmIcon{solidIcon(8, 8, 1), solidIcon(12, 6, 2)}
	w, h, data, ok := scaleIcon(icons, 16)
	if !ok || w != 16 || h != 8 {
		t.Fatalf("got %dx%d ok=%v", w, h, ok)
	}
	if data[0] != 2 {
		t.Fatalf("expected the 12px icon, got pixel %d", data[0])
	}
}

func TestScaleIcon_RejectsTruncatedData(t *testing.T) {
	bad := ewmh.WmIcon{Width: 4, Height: 4, Data: []uint{1, 2}}
	if _, _, _, ok := scaleIcon([]ewmh.WmIcon{bad}, 16); ok {
		t.Fatal("expected truncated icon to be rejected")
	}
}

func TestConfigureValues(t *testing.T) {
	ev := xproto.ConfigureRequestEvent{
		ValueMask: xproto.ConfigWindowX | xproto.ConfigWindowHeight | xproto.ConfigWindowStackMode,
		X:         -5,
		Y:         7,
		Width:     100,
		Height:    50,
		StackMode: xproto.StackModeBelow,
	}
	want := []uint32{uint32(0xfffffffb), 50, xproto.StackModeBelow}
	if diff := cmp.Diff(want, configureValues(ev)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBlendIcon(t *testing.T) {
	got := blendIcon([]uint32{0xffff0000, 0x00ff0000}, [3]uint8{0, 0, 0xff})
	want := []byte{0, 0, 0xff, 0, 0xff, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pixels mismatch (-want +got):\n%s", diff)
	}
}

func TestToChar2b(t *testing.T) {
	got := toChar2b("aλ😀")
	want := []xproto.Char2b{{Byte1: 0, Byte2: 'a'}, {Byte1: 0x03, Byte2: 0xbb}, {Byte1: 0, Byte2: '?'}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chars mismatch (-want +got):\n%s", diff)
	}
}
