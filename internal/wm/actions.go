package wm

import (
	"fmt"
	"math/bits"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/tiling"
)

// Run executes one bound action against the selected monitor. Pointer-driven
// actions need the ButtonPress that triggered them and are rejected here.
func (e *Engine) Run(action config.Action, arg config.Arg) error {
	if arg == nil {
		arg = config.NoArg{}
	}
	if action.NeedsPointer() {
		return fmt.Errorf("%s needs a pointer button press", action)
	}
	return e.run(action, arg)
}

func (e *Engine) run(action config.Action, arg config.Arg) error {
	switch action {
	case config.ActionSpawn:
		cmd, ok := arg.(config.CommandArg)
		if !ok || len(cmd) == 0 {
			return fmt.Errorf("spawn needs a command")
		}
		return e.spawn(cmd)
	case config.ActionToggleScratch:
		key, ok := arg.(config.ScratchArg)
		if !ok {
			return fmt.Errorf("togglescratch needs a key")
		}
		return e.toggleScratch(rune(key))
	case config.ActionToggleBar:
		e.toggleBar()
	case config.ActionFocusStack:
		e.focusStack(intArg(arg))
	case config.ActionIncNMaster:
		e.incNMaster(intArg(arg))
	case config.ActionSetMFact:
		f, ok := arg.(config.FloatArg)
		if !ok {
			return fmt.Errorf("setmfact needs a number")
		}
		e.setMFact(float64(f))
	case config.ActionZoom:
		e.zoom()
	case config.ActionView:
		e.view(tagArg(arg))
	case config.ActionToggleView:
		e.toggleView(tagArg(arg))
	case config.ActionTag:
		e.tag(tagArg(arg))
	case config.ActionToggleTag:
		e.toggleTag(tagArg(arg))
	case config.ActionSetLayout:
		if l, ok := arg.(config.LayoutArg); ok {
			if int(l) < 0 || int(l) >= len(e.layouts) {
				return fmt.Errorf("layout %d out of range [0,%d)", int(l), len(e.layouts))
			}
			e.setLayout(int(l), true)
		} else {
			e.setLayout(0, false)
		}
	case config.ActionCycleLayout:
		e.cycleLayout(intArg(arg))
	case config.ActionToggleFloating:
		e.toggleFloating()
	case config.ActionToggleFullscreen:
		if c := e.sel(e.selmon); c != nil {
			e.setFullscreen(c, !c.IsFullscreen)
		}
	case config.ActionKillClient:
		e.killClient()
	case config.ActionFocusMon:
		e.focusMon(intArg(arg))
	case config.ActionTagMon:
		e.tagMon(intArg(arg))
	case config.ActionMoveMouse:
		e.startDrag(dragMove)
	case config.ActionResizeMouse:
		e.startDrag(dragResize)
	case config.ActionQuit:
		e.Quit()
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func intArg(arg config.Arg) int {
	if i, ok := arg.(config.IntArg); ok {
		return int(i)
	}
	return 0
}

func tagArg(arg config.Arg) uint32 {
	if u, ok := arg.(config.UintArg); ok {
		return uint32(u)
	}
	return 0
}

func (e *Engine) spawn(argv []string) error {
	if err := e.spawner.Spawn(argv); err != nil {
		e.logger.Warn("spawn failed", "argv", argv, "error", err)
		return fmt.Errorf("spawn %s: %w", argv[0], err)
	}
	return nil
}

// applyPertag loads the settings remembered for the current tag of m.
func (e *Engine) applyPertag(m *Monitor) {
	p := m.Pertag
	m.NMaster = p.NMasters[p.CurTag]
	m.MFact = p.MFacts[p.CurTag]
	m.SelLt = p.SelLts[p.CurTag]
	m.Lt = p.LtIdxs[p.CurTag]
	if m.ShowBar != p.ShowBars[p.CurTag] {
		m.ShowBar = p.ShowBars[p.CurTag]
		m.updateBarPos(e.bh)
		e.resizeBarWin(m)
	}
}

// view switches the selected monitor to the given tags. Zero tags swaps
// back to the previous view.
func (e *Engine) view(tags uint32) {
	m := e.selmon
	if tags&e.tagMask == m.TagSet[m.SelTags] {
		return
	}
	m.SelTags ^= 1
	p := m.Pertag
	if tags&e.tagMask != 0 {
		m.TagSet[m.SelTags] = tags & e.tagMask
		p.PrevTag = p.CurTag
		p.CurTag = viewTag(tags&e.tagMask, e.tagMask)
	} else {
		p.PrevTag, p.CurTag = p.CurTag, p.PrevTag
	}
	e.applyPertag(m)
	e.focus(e.remembered(m))
	e.arrange(m)
	e.updateCurrentDesktop()
}

func (e *Engine) toggleView(tags uint32) {
	m := e.selmon
	next := m.TagSet[m.SelTags] ^ (tags & e.tagMask)
	if next == 0 {
		return
	}
	m.TagSet[m.SelTags] = next
	p := m.Pertag
	switch {
	case next == e.tagMask:
		p.PrevTag = p.CurTag
		p.CurTag = 0
	case next&(1<<uint(max(p.CurTag-1, 0))) == 0 || p.CurTag == 0:
		p.PrevTag = p.CurTag
		p.CurTag = bits.TrailingZeros32(next) + 1
	}
	e.applyPertag(m)
	e.focus(nil)
	e.arrange(m)
	e.updateCurrentDesktop()
}

func (e *Engine) tag(tags uint32) {
	c := e.sel(e.selmon)
	if c == nil || tags&e.tagMask == 0 {
		return
	}
	c.Tags = tags & e.tagMask
	e.focus(nil)
	e.arrange(e.selmon)
}

func (e *Engine) toggleTag(tags uint32) {
	c := e.sel(e.selmon)
	if c == nil {
		return
	}
	next := c.Tags ^ (tags & e.tagMask)
	if next == 0 {
		return
	}
	c.Tags = next
	e.focus(nil)
	e.arrange(e.selmon)
}

// setMFact adjusts the master fraction. Values below 1.0 are relative;
// values above 1.0 set the fraction to f-1.0. The result is clamped.
func (e *Engine) setMFact(f float64) {
	m := e.selmon
	if !e.layout(m).Tiles() {
		return
	}
	if f < 1.0 {
		f += m.MFact
	} else {
		f -= 1.0
	}
	f = tiling.ClampMFact(f)
	if f == m.MFact {
		return
	}
	m.MFact = f
	m.Pertag.MFacts[m.Pertag.CurTag] = f
	e.arrange(m)
}

func (e *Engine) incNMaster(delta int) {
	m := e.selmon
	m.NMaster = tiling.ClampNMaster(m.NMaster + delta)
	m.Pertag.NMasters[m.Pertag.CurTag] = m.NMaster
	e.arrange(m)
}

// setLayout selects layout idx. Without an index it toggles back to the
// previously selected layout.
func (e *Engine) setLayout(idx int, explicit bool) {
	m := e.selmon
	p := m.Pertag
	if !explicit || idx != m.Lt[m.SelLt] {
		m.SelLt ^= 1
		p.SelLts[p.CurTag] = m.SelLt
	}
	if explicit {
		m.Lt[m.SelLt] = idx
		p.LtIdxs[p.CurTag] = m.Lt
	}
	m.LtSymbol = e.layout(m).Symbol
	if e.sel(m) != nil {
		e.arrange(m)
	} else {
		e.arrangeMon(m)
		e.drawBar(m)
	}
}

// cycleLayout steps through the registry, wrapping at both ends.
func (e *Engine) cycleLayout(dir int) {
	m := e.selmon
	n := len(e.layouts)
	cur := m.Lt[m.SelLt]
	next := cur + 1
	if dir < 0 {
		next = cur - 1
	}
	e.setLayout((next%n+n)%n, true)
}

// zoom swaps the selected tiled client with the master, or promotes the next
// tiled client when the master is selected.
func (e *Engine) zoom() {
	m := e.selmon
	c := e.sel(m)
	if !e.layout(m).Tiles() || c == nil || c.IsFloating {
		return
	}
	tiled := e.tiled(m)
	if len(tiled) == 0 {
		return
	}
	if tiled[0] == c {
		if len(tiled) < 2 {
			return
		}
		c = tiled[1]
	}
	m.detach(c.Win)
	m.attach(c.Win)
	e.focus(c)
	e.arrange(m)
}

func (e *Engine) toggleFloating() {
	c := e.sel(e.selmon)
	if c == nil || c.IsFullscreen {
		return
	}
	c.IsFloating = !c.IsFloating || c.IsFixed
	if c.IsFloating {
		e.resize(c, c.FloatX, c.FloatY, c.FloatW, c.FloatH, false)
	}
	e.arrange(e.selmon)
}

// killClient asks the selected client to close. Clients that ignore the
// request are killed once the kill timeout passes; clients without
// WM_DELETE_WINDOW are killed at once.
func (e *Engine) killClient() {
	c := e.sel(e.selmon)
	if c == nil {
		return
	}
	if e.srv.SupportsProtocol(c.Win, protoDelete) {
		e.srv.SendProtocol(c.Win, protoDelete)
		if _, pending := e.killing[c.Win]; !pending {
			e.killing[c.Win] = e.now().Add(e.cfg.KillTimeout)
		}
		return
	}
	e.srv.KillClient(c.Win)
}

func (e *Engine) focusMon(dir int) {
	if len(e.mons) < 2 {
		return
	}
	m := e.dirToMon(dir)
	if m == e.selmon {
		return
	}
	e.unfocus(e.sel(e.selmon), false)
	e.selmon = m
	e.focus(nil)
}

func (e *Engine) tagMon(dir int) {
	c := e.sel(e.selmon)
	if c == nil || len(e.mons) < 2 {
		return
	}
	e.sendMon(c, e.dirToMon(dir))
}

func (e *Engine) toggleBar() {
	m := e.selmon
	m.ShowBar = !m.ShowBar
	m.Pertag.ShowBars[m.Pertag.CurTag] = m.ShowBar
	m.updateBarPos(e.bh)
	e.resizeBarWin(m)
	e.updateSystray()
	e.arrange(m)
}

// updateCurrentDesktop publishes the lowest viewed tag of the selected
// monitor as the EWMH current desktop.
func (e *Engine) updateCurrentDesktop() {
	m := e.selmon
	d := bits.TrailingZeros32(m.TagSet[m.SelTags])
	if d == e.desktop {
		return
	}
	e.desktop = d
	e.srv.SetCurrentDesktop(d)
}
