package wm

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/tagtile/internal/config"
)

func TestApplyRules_FirstMatchWins(t *testing.T) {
	rules := []config.Rule{
		{Class: "Gimp", Floating: true, Monitor: -1},
		{Class: "Gimp", Tags: 1 << 3, Monitor: 1},
	}
	got := ApplyRules(rules, "Gimp-2.10", "gimp", "GNU Image", 0x1ff)
	want := RuleResult{Floating: true, Monitor: -1, Matched: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rule mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRules_AbsentPredicatesMatchAnything(t *testing.T) {
	rules := []config.Rule{{Title: "Event Tester", Floating: true, Monitor: -1}}
	if got := ApplyRules(rules, "xev", "xev", "Event Tester", 0x1ff); !got.Matched || !got.Floating {
		t.Fatalf("expected title-only rule to match, got %+v", got)
	}
	if got := ApplyRules(rules, "xev", "xev", "Other", 0x1ff); got.Matched {
		t.Fatalf("expected no match for a different title, got %+v", got)
	}
}

func TestApplyRules_NoMatch(t *testing.T) {
	got := ApplyRules(config.DefaultConfig().Rules, "Alacritty", "alacritty", "shell", 0x1ff)
	if got.Matched || got.Tags != 0 || got.Monitor != -1 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestApplyRules_PopupInstanceFloats(t *testing.T) {
	got := ApplyRules(config.DefaultConfig().Rules, "firefox", "pop-up", "Sign in", 0x1ff)
	if !got.Matched || !got.Floating {
		t.Fatalf("expected pop-up instance to float, got %+v", got)
	}
}

func TestApplyRules_MasksTags(t *testing.T) {
	rules := []config.Rule{{Class: "Transmission-gtk", Tags: 1 << 8, Monitor: -1}}
	if got := ApplyRules(rules, "Transmission-gtk", "", "", 0x7); got.Tags != 0 {
		t.Fatalf("expected tags outside the mask to be dropped, got %#x", got.Tags)
	}
	if got := ApplyRules(rules, "Transmission-gtk", "", "", 0x1ff); got.Tags != 1<<8 {
		t.Fatalf("expected tag 9, got %#x", got.Tags)
	}
}

func TestApplyRules_ScratchKey(t *testing.T) {
	got := ApplyRules(config.DefaultConfig().Rules, "scratchpad", "scratchpad", "scratchpad", 0x1ff)
	if got.ScratchKey != 'y' || !got.Floating {
		t.Fatalf("expected floating scratchpad y, got %+v", got)
	}
}

func TestRectToMon(t *testing.T) {
	left := &Monitor{Num: 0, WX: 0, WY: 0, WW: 1000, WH: 800}
	right := &Monitor{Num: 1, WX: 1000, WY: 0, WW: 1000, WH: 800}
	mons := []*Monitor{left, right}

	cases := []struct {
		name       string
		x, y, w, h int
		want       *Monitor
	}{
		{"inside left", 10, 10, 100, 100, left},
		{"mostly right", 950, 0, 200, 100, right},
		{"tie goes to earlier", 900, 0, 200, 100, left},
		{"nowhere keeps selection", 5000, 5000, 1, 1, right},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RectToMon(mons, right, tc.x, tc.y, tc.w, tc.h); got != tc.want {
				t.Fatalf("expected monitor %d, got %d", tc.want.Num, got.Num)
			}
		})
	}
}
