package wm

import (
	"strings"
	"unicode/utf8"

	"github.com/1broseidon/tagtile/internal/config"
)

// RuleResult is the placement decided for a new client.
type RuleResult struct {
	// Tags is zero when no rule assigned tags.
	Tags     uint32
	Floating bool
	// Monitor is the target monitor number, or -1 for the current one.
	Monitor    int
	Geometry   *config.Geometry
	ScratchKey rune
	Matched    bool
}

// ApplyRules returns the placement of the first rule whose non-empty
// predicates all occur in the window's class, instance and title. Tags are
// masked with tagMask.
func ApplyRules(rules []config.Rule, class, instance, title string, tagMask uint32) RuleResult {
	for _, r := range rules {
		if r.Class != "" && !strings.Contains(class, r.Class) {
			continue
		}
		if r.Instance != "" && !strings.Contains(instance, r.Instance) {
			continue
		}
		if r.Title != "" && !strings.Contains(title, r.Title) {
			continue
		}
		res := RuleResult{
			Tags:     r.Tags & tagMask,
			Floating: r.Floating,
			Monitor:  r.Monitor,
			Geometry: r.Geometry,
			Matched:  true,
		}
		if r.ScratchKey != "" {
			res.ScratchKey, _ = utf8.DecodeRuneInString(r.ScratchKey)
		}
		return res
	}
	return RuleResult{Monitor: -1}
}

// RectToMon returns the monitor with the largest intersection with the
// rectangle. Ties go to the earlier monitor in ring order; sel is returned
// when nothing overlaps.
func RectToMon(mons []*Monitor, sel *Monitor, x, y, w, h int) *Monitor {
	r := sel
	area := 0
	for _, m := range mons {
		if a := intersect(x, y, w, h, m); a > area {
			area = a
			r = m
		}
	}
	return r
}

func intersect(x, y, w, h int, m *Monitor) int {
	iw := max(0, min(x+w, m.WX+m.WW)-max(x, m.WX))
	ih := max(0, min(y+h, m.WY+m.WH)-max(y, m.WY))
	return iw * ih
}

// applyRules places a new client per the configured rules.
func (e *Engine) applyRules(c *Client) {
	class, instance := e.srv.Class(c.Win)
	if class == "" {
		class = brokenName
	}
	if instance == "" {
		instance = brokenName
	}
	res := ApplyRules(e.cfg.Rules, class, instance, c.Name, e.tagMask)
	c.IsFloating = res.Floating
	c.Tags = res.Tags
	if res.Monitor >= 0 {
		for _, m := range e.mons {
			if m.Num == res.Monitor {
				c.Mon = m
				break
			}
		}
	}
	if res.Geometry != nil {
		g := res.Geometry
		c.X = c.Mon.WX + g.X
		c.Y = c.Mon.WY + g.Y
		c.W = g.Width
		c.H = g.Height
	}
	if res.ScratchKey != 0 && e.scratchClient(res.ScratchKey) == nil {
		c.ScratchKey = res.ScratchKey
		if e.pendingScratch == res.ScratchKey {
			e.pendingScratch = 0
		}
		c.Tags = c.Mon.TagSet[c.Mon.SelTags]
	}
	if c.Tags&e.tagMask == 0 {
		c.Tags = c.Mon.TagSet[c.Mon.SelTags]
	} else {
		c.Tags &= e.tagMask
	}
}
