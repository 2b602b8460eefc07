package tiling

import (
	"fmt"
	"strings"
)

// Rect represents a window position and size
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Kind identifies an arrangement algorithm.
type Kind int

const (
	KindFloating Kind = iota
	KindTile
	KindBottomStack
	KindDeck
	KindTatami
	KindMonocle
	KindCenteredMaster
	KindCenteredFloatingMaster
)

var kindNames = map[Kind]string{
	KindFloating:               "floating",
	KindTile:                   "tile",
	KindBottomStack:            "bstack",
	KindDeck:                   "deck",
	KindTatami:                 "tatami",
	KindMonocle:                "monocle",
	KindCenteredMaster:         "centeredmaster",
	KindCenteredFloatingMaster: "centeredfloatingmaster",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a layout name from the config file to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindFloating, fmt.Errorf("unknown layout %q", name)
}

// Layout pairs a bar symbol with an arrangement algorithm.
type Layout struct {
	Symbol string
	Kind   Kind
}

// Tiles reports whether the layout controls client geometry.
func (l Layout) Tiles() bool {
	return l.Kind != KindFloating
}

// DefaultLayouts returns the built-in registry in cycling order.
func DefaultLayouts() []Layout {
	return []Layout{
		{Symbol: "[]=", Kind: KindTile},
		{Symbol: "TTT", Kind: KindBottomStack},
		{Symbol: "[D]", Kind: KindDeck},
		{Symbol: "|+|", Kind: KindTatami},
		{Symbol: "[M]", Kind: KindMonocle},
		{Symbol: "|M|", Kind: KindCenteredMaster},
		{Symbol: ">M>", Kind: KindCenteredFloatingMaster},
		{Symbol: ">>=", Kind: KindFloating},
	}
}

const (
	MinMFact = 0.05
	MaxMFact = 0.95
)

// ClampMFact bounds the master fraction to [MinMFact, MaxMFact].
func ClampMFact(f float64) float64 {
	if f < MinMFact {
		return MinMFact
	}
	if f > MaxMFact {
		return MaxMFact
	}
	return f
}

// ClampNMaster bounds the master count below by zero.
func ClampNMaster(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Params is the input of one arrangement pass.
type Params struct {
	// Area is the monitor work area.
	Area Rect
	// N is the number of tiled, visible clients.
	N           int
	NMaster     int
	MFact       float64
	BorderWidth int
	// Gap is the spacing between cells and around the work area.
	Gap int
}

// Arrange computes client geometry for one monitor. The returned rects are in
// client order and already exclude the border on every side. Floating
// returns nil since it leaves geometry to the clients.
func Arrange(kind Kind, p Params) []Rect {
	if p.N <= 0 {
		return nil
	}
	p.NMaster = ClampNMaster(p.NMaster)
	p.MFact = ClampMFact(p.MFact)

	area := p.Area
	if p.Gap > 0 {
		area = inset(area, p.Gap/2)
	}

	var cells []Rect
	switch kind {
	case KindTile:
		cells = tile(area, p.N, p.NMaster, p.MFact)
	case KindBottomStack:
		cells = bottomStack(area, p.N, p.NMaster, p.MFact)
	case KindDeck:
		cells = deck(area, p.N, p.NMaster, p.MFact)
	case KindTatami:
		cells = tatami(area, p.N, p.NMaster, p.MFact)
	case KindMonocle:
		cells = monocle(area, p.N)
	case KindCenteredMaster:
		cells = centeredMaster(area, p.N, p.NMaster, p.MFact)
	case KindCenteredFloatingMaster:
		cells = centeredFloatingMaster(area, p.N, p.NMaster, p.MFact)
	default:
		return nil
	}

	for i, c := range cells {
		if p.Gap > 0 {
			c = inset(c, p.Gap-p.Gap/2)
		}
		c.Width -= 2 * p.BorderWidth
		c.Height -= 2 * p.BorderWidth
		if c.Width < 1 {
			c.Width = 1
		}
		if c.Height < 1 {
			c.Height = 1
		}
		cells[i] = c
	}
	return cells
}

// Symbol returns the bar symbol for a layout given the number of visible and
// tiled clients. Monocle and deck report how many clients are stacked.
func Symbol(l Layout, visible, tiled, nmaster int) string {
	switch l.Kind {
	case KindMonocle:
		if visible > 0 {
			return fmt.Sprintf("[%d]", visible)
		}
	case KindDeck:
		if stacked := tiled - ClampNMaster(nmaster); stacked > 0 {
			return fmt.Sprintf("[D %d]", stacked)
		}
	}
	return l.Symbol
}

func inset(r Rect, d int) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

func masterSpan(total, n, nmaster int, mfact float64) int {
	if n > nmaster {
		if nmaster == 0 {
			return 0
		}
		return int(float64(total) * mfact)
	}
	return total
}

func tile(a Rect, n, nmaster int, mfact float64) []Rect {
	cells := make([]Rect, n)
	mw := masterSpan(a.Width, n, nmaster, mfact)
	my, ty := 0, 0
	for i := 0; i < n; i++ {
		if i < nmaster {
			h := (a.Height - my) / (min(n, nmaster) - i)
			cells[i] = Rect{X: a.X, Y: a.Y + my, Width: mw, Height: h}
			my += h
		} else {
			h := (a.Height - ty) / (n - i)
			cells[i] = Rect{X: a.X + mw, Y: a.Y + ty, Width: a.Width - mw, Height: h}
			ty += h
		}
	}
	return cells
}

func bottomStack(a Rect, n, nmaster int, mfact float64) []Rect {
	cells := make([]Rect, n)
	mh := masterSpan(a.Height, n, nmaster, mfact)
	mx, tx := 0, 0
	for i := 0; i < n; i++ {
		if i < nmaster {
			w := (a.Width - mx) / (min(n, nmaster) - i)
			cells[i] = Rect{X: a.X + mx, Y: a.Y, Width: w, Height: mh}
			mx += w
		} else {
			w := (a.Width - tx) / (n - i)
			cells[i] = Rect{X: a.X + tx, Y: a.Y + mh, Width: w, Height: a.Height - mh}
			tx += w
		}
	}
	return cells
}

func deck(a Rect, n, nmaster int, mfact float64) []Rect {
	cells := make([]Rect, n)
	mw := masterSpan(a.Width, n, nmaster, mfact)
	my := 0
	for i := 0; i < n; i++ {
		if i < nmaster {
			h := (a.Height - my) / (min(n, nmaster) - i)
			cells[i] = Rect{X: a.X, Y: a.Y + my, Width: mw, Height: h}
			my += h
		} else {
			cells[i] = Rect{X: a.X + mw, Y: a.Y, Width: a.Width - mw, Height: a.Height}
		}
	}
	return cells
}

func monocle(a Rect, n int) []Rect {
	cells := make([]Rect, n)
	for i := range cells {
		cells[i] = a
	}
	return cells
}

// tatami keeps a master column while more than nmaster clients are tiled and
// spirals the remaining clients through the rest of the area, halving it and
// rotating the split side (left, top, right, bottom) for each client.
func tatami(a Rect, n, nmaster int, mfact float64) []Rect {
	cells := make([]Rect, 0, n)
	rest := a
	spiral := n
	if n > nmaster && nmaster > 0 {
		mw := int(float64(a.Width) * mfact)
		my := 0
		for i := 0; i < nmaster; i++ {
			h := (a.Height - my) / (nmaster - i)
			cells = append(cells, Rect{X: a.X, Y: a.Y + my, Width: mw, Height: h})
			my += h
		}
		rest = Rect{X: a.X + mw, Y: a.Y, Width: a.Width - mw, Height: a.Height}
		spiral = n - nmaster
	}
	for i := 0; i < spiral; i++ {
		if i == spiral-1 {
			cells = append(cells, rest)
			break
		}
		var cell Rect
		switch i % 4 {
		case 0:
			half := rest.Width / 2
			cell = Rect{X: rest.X, Y: rest.Y, Width: half, Height: rest.Height}
			rest = Rect{X: rest.X + half, Y: rest.Y, Width: rest.Width - half, Height: rest.Height}
		case 1:
			half := rest.Height / 2
			cell = Rect{X: rest.X, Y: rest.Y, Width: rest.Width, Height: half}
			rest = Rect{X: rest.X, Y: rest.Y + half, Width: rest.Width, Height: rest.Height - half}
		case 2:
			half := rest.Width / 2
			cell = Rect{X: rest.X + rest.Width - half, Y: rest.Y, Width: half, Height: rest.Height}
			rest = Rect{X: rest.X, Y: rest.Y, Width: rest.Width - half, Height: rest.Height}
		case 3:
			half := rest.Height / 2
			cell = Rect{X: rest.X, Y: rest.Y + rest.Height - half, Width: rest.Width, Height: half}
			rest = Rect{X: rest.X, Y: rest.Y, Width: rest.Width, Height: rest.Height - half}
		}
		cells = append(cells, cell)
	}
	return cells
}

// centeredMaster puts the masters in a centered column and alternates the
// remaining clients between a right and a left column.
func centeredMaster(a Rect, n, nmaster int, mfact float64) []Rect {
	cells := make([]Rect, n)
	mw, tw := a.Width, a.Width
	mx := 0
	if n > nmaster {
		mw = 0
		if nmaster > 0 {
			mw = int(float64(a.Width) * mfact)
		}
		tw = a.Width - mw
		if n-nmaster > 1 {
			mx = (a.Width - mw) / 2
			tw = (a.Width - mw) / 2
		}
	}
	my, oty, ety := 0, 0, 0
	for i := 0; i < n; i++ {
		if i < nmaster {
			h := (a.Height - my) / (min(n, nmaster) - i)
			cells[i] = Rect{X: a.X + mx, Y: a.Y + my, Width: mw, Height: h}
			my += h
			continue
		}
		remaining := (1 + n - i) / 2
		if (i-nmaster)%2 == 1 {
			h := (a.Height - ety) / remaining
			cells[i] = Rect{X: a.X, Y: a.Y + ety, Width: tw, Height: h}
			ety += h
		} else {
			h := (a.Height - oty) / remaining
			cells[i] = Rect{X: a.X + mx + mw, Y: a.Y + oty, Width: tw, Height: h}
			oty += h
		}
	}
	return cells
}

// centeredFloatingMaster tiles the stack across the whole area in one row
// and floats the masters in the middle, above it.
func centeredFloatingMaster(a Rect, n, nmaster int, mfact float64) []Rect {
	cells := make([]Rect, n)
	mx, my := a.X, a.Y
	mw, mh := a.Width, a.Height
	if n > nmaster {
		mw, mh = 0, 0
		if nmaster > 0 {
			if a.Width > a.Height {
				mw = int(float64(a.Width) * mfact)
				mh = int(float64(a.Height) * 0.9)
			} else {
				mw = int(float64(a.Width) * 0.9)
				mh = int(float64(a.Height) * mfact)
			}
		}
		mx = a.X + (a.Width-mw)/2
		my = a.Y + (a.Height-mh)/2
	}
	mxo := mx
	tx := a.X
	for i := 0; i < n; i++ {
		if i < nmaster {
			w := (mw + mxo - mx) / (min(n, nmaster) - i)
			cells[i] = Rect{X: mx, Y: my, Width: w, Height: mh}
			mx += w
		} else {
			w := (a.X + a.Width - tx) / (n - i)
			cells[i] = Rect{X: tx, Y: a.Y, Width: w, Height: a.Height}
			tx += w
		}
	}
	return cells
}
