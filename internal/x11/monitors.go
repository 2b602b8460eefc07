package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/xinerama"

	"github.com/1broseidon/tagtile/internal/tiling"
)

// ScreenRects lists the physical screens. RandR CRTCs are preferred, Xinerama
// heads are the fallback, and a single screen covering the root window is
// the last resort. Cloned outputs collapse into one rectangle.
func (b *Backend) ScreenRects() []tiling.Rect {
	rects, err := b.crtcRects()
	if err != nil {
		b.logger.Debug("randr unavailable, trying xinerama", "error", err)
	}
	if len(rects) == 0 {
		if heads, err := xinerama.PhysicalHeads(b.XUtil); err == nil {
			for _, h := range heads {
				rects = append(rects, tiling.Rect{X: h.X(), Y: h.Y(), Width: h.Width(), Height: h.Height()})
			}
		}
	}
	rects = uniqueRects(rects)
	if len(rects) == 0 {
		w, h := b.ScreenSize()
		rects = []tiling.Rect{{Width: w, Height: h}}
	}
	return rects
}

// crtcRects retrieves the geometry of every active CRTC using XRandR.
func (b *Backend) crtcRects() ([]tiling.Rect, error) {
	conn := b.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, b.Root()).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var rects []tiling.Rect
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		rects = append(rects, tiling.Rect{
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}
	return rects, nil
}

// uniqueRects drops rectangles with the same geometry as an earlier one.
func uniqueRects(rects []tiling.Rect) []tiling.Rect {
	out := make([]tiling.Rect, 0, len(rects))
	for _, r := range rects {
		dup := false
		for _, o := range out {
			if o == r {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}
