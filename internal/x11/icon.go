package x11

import "github.com/BurntSushi/xgbutil/ewmh"

// scaleIcon picks the smallest icon whose larger side reaches size, or the
// biggest one when none does, and scales it with nearest-neighbor sampling
// so its larger side equals size.
func scaleIcon(icons []ewmh.WmIcon, size int) (int, int, []uint32, bool) {
	best := -1
	var bestDim int
	for i, ic := range icons {
		w, h := int(ic.Width), int(ic.Height)
		if w <= 0 || h <= 0 || len(ic.Data) < w*h {
			continue
		}
		dim := max(w, h)
		switch {
		case best < 0:
			best, bestDim = i, dim
		case dim >= size && (bestDim < size || dim < bestDim):
			best, bestDim = i, dim
		case dim < size && bestDim < size && dim > bestDim:
			best, bestDim = i, dim
		}
	}
	if best < 0 {
		return 0, 0, nil, false
	}

	src := icons[best]
	sw, sh := int(src.Width), int(src.Height)
	dw, dh := size, size
	if sw > sh {
		dh = max(sh*size/sw, 1)
	} else if sh > sw {
		dw = max(sw*size/sh, 1)
	}
	out := make([]uint32, dw*dh)
	for y := range dh {
		sy := y * sh / dh
		for x := range dw {
			sx := x * sw / dw
			out[y*dw+x] = uint32(src.Data[sy*sw+sx])
		}
	}
	return dw, dh, out, true
}
