package wm

import (
	"github.com/BurntSushi/xgb/xproto"
)

type dragMode int

const (
	dragMove dragMode = iota
	dragResize
)

// motionInterval throttles pointer-driven geometry updates to ~60Hz.
const motionInterval = 1000 / 60

// dragState tracks an interactive move or resize between the ButtonPress
// that started it and the matching ButtonRelease.
type dragState struct {
	mode     dragMode
	client   xproto.Window
	ocx, ocy int
	ocw, och int
	px, py   int
	lastTime xproto.Timestamp
}

func (e *Engine) startDrag(mode dragMode) {
	c := e.sel(e.selmon)
	if c == nil || c.IsFullscreen || e.drag != nil {
		return
	}
	e.restack(e.selmon)
	cursor := CursorMove
	if mode == dragResize {
		cursor = CursorResize
	}
	if !e.srv.GrabPointer(cursor) {
		return
	}
	d := &dragState{mode: mode, client: c.Win, ocx: c.X, ocy: c.Y, ocw: c.W, och: c.H}
	if mode == dragResize {
		e.srv.WarpPointer(c.Win, c.W+c.BW-1, c.H+c.BW-1)
		d.px, d.py = c.X+c.W+c.BW-1, c.Y+c.H+c.BW-1
	} else {
		x, y, ok := e.srv.Pointer()
		if !ok {
			e.srv.UngrabPointer()
			return
		}
		d.px, d.py = x, y
	}
	e.drag = d
}

// dragMotion applies one pointer motion to the active drag.
func (e *Engine) dragMotion(ev xproto.MotionNotifyEvent) {
	d := e.drag
	c := e.client(d.client)
	if c == nil {
		e.endDrag()
		return
	}
	if ev.Time-d.lastTime <= motionInterval {
		return
	}
	d.lastTime = ev.Time
	m := e.selmon
	snap := e.cfg.Snap
	tiles := e.layout(m).Tiles()
	rx, ry := int(ev.RootX), int(ev.RootY)

	switch d.mode {
	case dragMove:
		nx := d.ocx + (rx - d.px)
		ny := d.ocy + (ry - d.py)
		if abs(m.WX-nx) < snap {
			nx = m.WX
		} else if abs((m.WX+m.WW)-(nx+c.OuterWidth())) < snap {
			nx = m.WX + m.WW - c.OuterWidth()
		}
		if abs(m.WY-ny) < snap {
			ny = m.WY
		} else if abs((m.WY+m.WH)-(ny+c.OuterHeight())) < snap {
			ny = m.WY + m.WH - c.OuterHeight()
		}
		if !c.IsFloating && tiles && (abs(nx-c.X) > snap || abs(ny-c.Y) > snap) {
			e.toggleFloating()
		}
		if !tiles || c.IsFloating {
			e.resize(c, nx, ny, c.W, c.H, true)
		}
	case dragResize:
		nw := max(rx-d.ocx-2*c.BW+1, 1)
		nh := max(ry-d.ocy-2*c.BW+1, 1)
		if c.Mon.WX+nw >= m.WX && c.Mon.WX+nw <= m.WX+m.WW &&
			c.Mon.WY+nh >= m.WY && c.Mon.WY+nh <= m.WY+m.WH {
			if !c.IsFloating && tiles && (abs(nw-c.W) > snap || abs(nh-c.H) > snap) {
				e.toggleFloating()
			}
		}
		if !tiles || c.IsFloating {
			e.resize(c, c.X, c.Y, nw, nh, true)
		}
	}
}

// finishDrag ends the drag and hands the client to the monitor it now
// mostly overlaps.
func (e *Engine) finishDrag() {
	d := e.drag
	c := e.client(d.client)
	if c != nil && d.mode == dragResize {
		e.srv.WarpPointer(c.Win, c.W+c.BW-1, c.H+c.BW-1)
	}
	e.endDrag()
	if c == nil {
		return
	}
	if m := RectToMon(e.mons, e.selmon, c.X, c.Y, c.W, c.H); m != e.selmon {
		e.sendMon(c, m)
		e.selmon = m
		e.focus(nil)
	}
}

func (e *Engine) endDrag() {
	e.drag = nil
	e.srv.UngrabPointer()
	e.srv.DiscardEnterEvents()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
