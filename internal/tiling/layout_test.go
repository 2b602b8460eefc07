package tiling

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArrange_TileMasterStack(t *testing.T) {
	p := Params{Area: Rect{X: 0, Y: 0, Width: 1000, Height: 800}, N: 3, NMaster: 1, MFact: 0.5}

	got := Arrange(KindTile, p)
	want := []Rect{
		{X: 0, Y: 0, Width: 500, Height: 800},
		{X: 500, Y: 0, Width: 500, Height: 400},
		{X: 500, Y: 400, Width: 500, Height: 400},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tile mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_TileSubtractsBorder(t *testing.T) {
	p := Params{Area: Rect{X: 10, Y: 20, Width: 1000, Height: 800}, N: 2, NMaster: 1, MFact: 0.5, BorderWidth: 2}

	got := Arrange(KindTile, p)
	want := []Rect{
		{X: 10, Y: 20, Width: 496, Height: 796},
		{X: 510, Y: 20, Width: 496, Height: 796},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tile mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_TileZeroMasterUsesFullWidthStack(t *testing.T) {
	p := Params{Area: Rect{Width: 900, Height: 600}, N: 3, NMaster: 0, MFact: 0.5}

	got := Arrange(KindTile, p)
	for i, r := range got {
		if r.X != 0 || r.Width != 900 {
			t.Fatalf("client %d: expected full-width stack column, got %+v", i, r)
		}
		if r.Height != 200 {
			t.Fatalf("client %d: expected height 200, got %d", i, r.Height)
		}
	}
}

func TestArrange_AllMastersFillArea(t *testing.T) {
	p := Params{Area: Rect{Width: 1000, Height: 900}, N: 3, NMaster: 5, MFact: 0.3}

	got := Arrange(KindTile, p)
	want := []Rect{
		{X: 0, Y: 0, Width: 1000, Height: 300},
		{X: 0, Y: 300, Width: 1000, Height: 300},
		{X: 0, Y: 600, Width: 1000, Height: 300},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tile mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_BottomStack(t *testing.T) {
	p := Params{Area: Rect{Width: 1000, Height: 800}, N: 3, NMaster: 1, MFact: 0.5}

	got := Arrange(KindBottomStack, p)
	want := []Rect{
		{X: 0, Y: 0, Width: 1000, Height: 400},
		{X: 0, Y: 400, Width: 500, Height: 400},
		{X: 500, Y: 400, Width: 500, Height: 400},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bstack mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_DeckStacksOverlap(t *testing.T) {
	p := Params{Area: Rect{Width: 1000, Height: 800}, N: 4, NMaster: 1, MFact: 0.6}

	got := Arrange(KindDeck, p)
	stack := Rect{X: 600, Y: 0, Width: 400, Height: 800}
	for i := 1; i < len(got); i++ {
		if got[i] != stack {
			t.Fatalf("client %d: expected %+v, got %+v", i, stack, got[i])
		}
	}
	if got[0] != (Rect{X: 0, Y: 0, Width: 600, Height: 800}) {
		t.Fatalf("unexpected master rect: %+v", got[0])
	}
}

func TestArrange_MonocleGivesEveryoneTheArea(t *testing.T) {
	area := Rect{X: 5, Y: 18, Width: 1280, Height: 782}
	got := Arrange(KindMonocle, Params{Area: area, N: 3, NMaster: 1, MFact: 0.5, BorderWidth: 1})
	want := Rect{X: 5, Y: 18, Width: 1278, Height: 780}
	for i, r := range got {
		if r != want {
			t.Fatalf("client %d: expected %+v, got %+v", i, want, r)
		}
	}
}

func TestArrange_TatamiSpiralCoversArea(t *testing.T) {
	area := Rect{Width: 1200, Height: 800}
	got := Arrange(KindTatami, Params{Area: area, N: 5, NMaster: 1, MFact: 0.5})
	want := []Rect{
		{X: 0, Y: 0, Width: 600, Height: 800},
		{X: 600, Y: 0, Width: 300, Height: 800},
		{X: 900, Y: 0, Width: 300, Height: 400},
		{X: 1050, Y: 400, Width: 150, Height: 400},
		{X: 900, Y: 400, Width: 150, Height: 400},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tatami mismatch (-want +got):\n%s", diff)
	}

	total := 0
	for _, r := range got {
		total += r.Width * r.Height
	}
	if total != area.Width*area.Height {
		t.Fatalf("expected cells to cover %d px, got %d", area.Width*area.Height, total)
	}
}

func TestArrange_TatamiWithoutMasterColumn(t *testing.T) {
	got := Arrange(KindTatami, Params{Area: Rect{Width: 800, Height: 600}, N: 1, NMaster: 1, MFact: 0.5})
	if diff := cmp.Diff([]Rect{{Width: 800, Height: 600}}, got); diff != "" {
		t.Fatalf("tatami mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_CenteredMaster(t *testing.T) {
	p := Params{Area: Rect{Width: 1000, Height: 600}, N: 3, NMaster: 1, MFact: 0.5}

	got := Arrange(KindCenteredMaster, p)
	want := []Rect{
		{X: 250, Y: 0, Width: 500, Height: 600},
		{X: 750, Y: 0, Width: 250, Height: 600},
		{X: 0, Y: 0, Width: 250, Height: 600},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("centeredmaster mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_CenteredFloatingMaster(t *testing.T) {
	p := Params{Area: Rect{Width: 1000, Height: 600}, N: 3, NMaster: 1, MFact: 0.5}

	got := Arrange(KindCenteredFloatingMaster, p)
	want := []Rect{
		{X: 250, Y: 30, Width: 500, Height: 540},
		{X: 0, Y: 0, Width: 500, Height: 600},
		{X: 500, Y: 0, Width: 500, Height: 600},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("centeredfloatingmaster mismatch (-want +got):\n%s", diff)
	}
}

func TestArrange_Idempotent(t *testing.T) {
	p := Params{Area: Rect{X: 1920, Y: 20, Width: 2560, Height: 1420}, N: 7, NMaster: 2, MFact: 0.55, BorderWidth: 1, Gap: 6}
	for _, l := range DefaultLayouts() {
		first := Arrange(l.Kind, p)
		second := Arrange(l.Kind, p)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%s not idempotent (-first +second):\n%s", l.Kind, diff)
		}
		if l.Tiles() && len(first) != p.N {
			t.Fatalf("%s: expected %d rects, got %d", l.Kind, p.N, len(first))
		}
	}
}

func TestArrange_FloatingReturnsNil(t *testing.T) {
	if got := Arrange(KindFloating, Params{Area: Rect{Width: 10, Height: 10}, N: 2}); got != nil {
		t.Fatalf("expected nil for floating layout, got %+v", got)
	}
}

func TestArrange_ClampsOutOfRangeMFact(t *testing.T) {
	low := Arrange(KindTile, Params{Area: Rect{Width: 1000, Height: 100}, N: 2, NMaster: 1, MFact: -3})
	if low[0].Width != 50 {
		t.Fatalf("expected master width 50 at min mfact, got %d", low[0].Width)
	}
	high := Arrange(KindTile, Params{Area: Rect{Width: 1000, Height: 100}, N: 2, NMaster: 1, MFact: 4})
	if high[0].Width != 950 {
		t.Fatalf("expected master width 950 at max mfact, got %d", high[0].Width)
	}
}

func TestClampMFact(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{0.01, MinMFact},
		{-1, MinMFact},
		{0.99, MaxMFact},
		{MaxMFact, MaxMFact},
	}
	for _, tc := range cases {
		if got := ClampMFact(tc.in); got != tc.want {
			t.Fatalf("ClampMFact(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSymbol(t *testing.T) {
	layouts := DefaultLayouts()
	if got := Symbol(layouts[0], 3, 3, 1); got != "[]=" {
		t.Fatalf("expected tile symbol, got %q", got)
	}
	if got := Symbol(layouts[4], 4, 3, 1); got != "[4]" {
		t.Fatalf("expected monocle count symbol, got %q", got)
	}
	if got := Symbol(layouts[4], 0, 0, 1); got != "[M]" {
		t.Fatalf("expected bare monocle symbol, got %q", got)
	}
	if got := Symbol(layouts[2], 5, 5, 1); got != "[D 4]" {
		t.Fatalf("expected deck count symbol, got %q", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, l := range DefaultLayouts() {
		k, err := ParseKind(l.Kind.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", l.Kind.String(), err)
		}
		if k != l.Kind {
			t.Fatalf("ParseKind(%q) = %v", l.Kind.String(), k)
		}
	}
	if _, err := ParseKind("spiral-galaxy"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}
