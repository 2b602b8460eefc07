package wm

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"
)

// maxNameLen bounds the stored client title in bytes.
const maxNameLen = 256

// brokenName is shown for clients that publish no usable title.
const brokenName = "broken"

// Client is one managed top-level window.
type Client struct {
	Win  xproto.Window
	Name string

	MinA, MaxA                                     float64
	BaseW, BaseH, IncW, IncH, MaxW, MaxH, MinW, MinH int
	HintsValid                                     bool

	X, Y, W, H             int
	OldX, OldY, OldW, OldH int
	BW, OldBW              int
	// FloatX..FloatH is the last geometry the client had while floating.
	FloatX, FloatY, FloatW, FloatH int

	Tags uint32

	IsFixed      bool
	IsFloating   bool
	IsUrgent     bool
	NeverFocus   bool
	OldState     bool
	IsFullscreen bool

	// ScratchKey is non-zero for the client registered under a scratchpad key.
	ScratchKey rune

	IconW, IconH int
	Icon         []uint32

	Mon *Monitor
}

func (c *Client) saveFloat() {
	c.FloatX, c.FloatY, c.FloatW, c.FloatH = c.X, c.Y, c.W, c.H
}

// OuterWidth is the width including both borders.
func (c *Client) OuterWidth() int { return c.W + 2*c.BW }

// OuterHeight is the height including both borders.
func (c *Client) OuterHeight() int { return c.H + 2*c.BW }

// Visible reports whether the client is on one of its monitor's viewed tags.
func (c *Client) Visible() bool {
	return c.Mon != nil && c.Tags&c.Mon.TagSet[c.Mon.SelTags] != 0
}

func truncateName(s string) string {
	if len(s) <= maxNameLen {
		return s
	}
	s = s[:maxNameLen]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// updateSizeHints derives the client's size constraints from WM_NORMAL_HINTS.
func (c *Client) updateSizeHints(h SizeHints, ok bool) {
	if !ok {
		h = SizeHints{}
	}
	switch {
	case h.Flags&HintPBaseSize != 0:
		c.BaseW, c.BaseH = h.BaseWidth, h.BaseHeight
	case h.Flags&HintPMinSize != 0:
		c.BaseW, c.BaseH = h.MinWidth, h.MinHeight
	default:
		c.BaseW, c.BaseH = 0, 0
	}
	if h.Flags&HintPResizeInc != 0 {
		c.IncW, c.IncH = h.WidthInc, h.HeightInc
	} else {
		c.IncW, c.IncH = 0, 0
	}
	if h.Flags&HintPMaxSize != 0 {
		c.MaxW, c.MaxH = h.MaxWidth, h.MaxHeight
	} else {
		c.MaxW, c.MaxH = 0, 0
	}
	switch {
	case h.Flags&HintPMinSize != 0:
		c.MinW, c.MinH = h.MinWidth, h.MinHeight
	case h.Flags&HintPBaseSize != 0:
		c.MinW, c.MinH = h.BaseWidth, h.BaseHeight
	default:
		c.MinW, c.MinH = 0, 0
	}
	if h.Flags&HintPAspect != 0 && h.MinAspectNum != 0 && h.MaxAspectDen != 0 {
		c.MinA = float64(h.MinAspectDen) / float64(h.MinAspectNum)
		c.MaxA = float64(h.MaxAspectNum) / float64(h.MaxAspectDen)
	} else {
		c.MinA, c.MaxA = 0, 0
	}
	c.IsFixed = c.MaxW != 0 && c.MaxH != 0 && c.MaxW == c.MinW && c.MaxH == c.MinH
	c.HintsValid = true
}

// constrain applies size hints and screen bounds to a proposed geometry and
// reports whether the result differs from the current geometry. interact is
// set for pointer-driven moves, which are bounded by the whole screen rather
// than the monitor work area.
func (e *Engine) constrain(c *Client, x, y, w, h int, interact bool) (int, int, int, int, bool) {
	m := c.Mon
	w = max(1, w)
	h = max(1, h)
	if interact {
		if x > e.sw {
			x = e.sw - c.OuterWidth()
		}
		if y > e.sh {
			y = e.sh - c.OuterHeight()
		}
		if x+w+2*c.BW < 0 {
			x = 0
		}
		if y+h+2*c.BW < 0 {
			y = 0
		}
	} else {
		if x >= m.WX+m.WW {
			x = m.WX + m.WW - c.OuterWidth()
		}
		if y >= m.WY+m.WH {
			y = m.WY + m.WH - c.OuterHeight()
		}
		if x+w+2*c.BW <= m.WX {
			x = m.WX
		}
		if y+h+2*c.BW <= m.WY {
			y = m.WY
		}
	}
	if h < e.bh {
		h = e.bh
	}
	if w < e.bh {
		w = e.bh
	}
	if e.cfg.ResizeHints || c.IsFloating || !e.layout(m).Tiles() {
		if !c.HintsValid {
			c.updateSizeHints(e.srv.SizeHints(c.Win))
		}
		baseIsMin := c.BaseW == c.MinW && c.BaseH == c.MinH
		if !baseIsMin {
			w -= c.BaseW
			h -= c.BaseH
		}
		if c.MinA > 0 && c.MaxA > 0 {
			if c.MaxA < float64(w)/float64(h) {
				w = int(float64(h)*c.MaxA + 0.5)
			} else if c.MinA < float64(h)/float64(w) {
				h = int(float64(w)*c.MinA + 0.5)
			}
		}
		if baseIsMin {
			w -= c.BaseW
			h -= c.BaseH
		}
		if c.IncW > 0 {
			w -= w % c.IncW
		}
		if c.IncH > 0 {
			h -= h % c.IncH
		}
		w = max(w+c.BaseW, c.MinW)
		h = max(h+c.BaseH, c.MinH)
		if c.MaxW > 0 {
			w = min(w, c.MaxW)
		}
		if c.MaxH > 0 {
			h = min(h, c.MaxH)
		}
	}
	return x, y, w, h, x != c.X || y != c.Y || w != c.W || h != c.H
}

func (e *Engine) updateTitle(c *Client) {
	name := e.srv.Title(c.Win)
	if name == "" {
		name = brokenName
	}
	c.Name = truncateName(name)
}

func (e *Engine) updateWMHints(c *Client) {
	hints, ok := e.srv.WMHints(c.Win)
	if !ok {
		return
	}
	if e.selmon != nil && c.Win == e.selmon.Sel && hints.Urgent {
		e.srv.SetUrgencyHint(c.Win, false)
	} else {
		c.IsUrgent = hints.Urgent
	}
	if hints.HasInput {
		c.NeverFocus = !hints.Input
	} else {
		c.NeverFocus = false
	}
}

func (e *Engine) updateWindowType(c *Client) {
	if e.srv.WindowState(c.Win) {
		e.setFullscreen(c, true)
	}
	if e.srv.IsDialog(c.Win) {
		c.IsFloating = true
	}
}

func (e *Engine) updateIcon(c *Client) {
	w, h, data, ok := e.srv.Icon(c.Win)
	if !ok {
		c.IconW, c.IconH, c.Icon = 0, 0, nil
		return
	}
	c.IconW, c.IconH, c.Icon = w, h, data
}

func (e *Engine) setUrgent(c *Client, urgent bool) {
	c.IsUrgent = urgent
	e.srv.SetUrgencyHint(c.Win, urgent)
}
