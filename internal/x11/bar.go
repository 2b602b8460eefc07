package x11

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/wm"
)

// maxTextLen is the longest string a single ImageText16 request carries.
const maxTextLen = 255

const ellipsis = "..."

type scheme struct {
	fg, bg       uint32
	fgRGB, bgRGB [3]uint8
}

// Bar draws bar windows with a core X font into an off-screen pixmap.
type Bar struct {
	b       *Backend
	font    xproto.Font
	ascent  int
	descent int
	gc      xproto.Gcontext
	schemes [2]scheme
	widths  map[string]int

	pix        xproto.Pixmap
	pixW, pixH int
	depth      byte
	bars       []*xwindow.Window
}

var _ wm.Drawer = (*Bar)(nil)

// NewBar opens the first loadable font of cfg.Fonts and allocates the bar
// color schemes.
func NewBar(b *Backend, cfg *config.Config) (*Bar, error) {
	conn := b.XUtil.Conn()
	d := &Bar{
		b:      b,
		widths: make(map[string]int),
		depth:  b.XUtil.Screen().RootDepth,
	}
	if err := d.openFont(cfg.Fonts); err != nil {
		return nil, err
	}
	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return nil, fmt.Errorf("allocate graphics context: %w", err)
	}
	d.gc = gc
	xproto.CreateGC(conn, gc, xproto.Drawable(b.Root()),
		xproto.GcLineWidth|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{1, uint32(d.font), 0})
	if err := d.SetColors(cfg.Colors); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Bar) openFont(names []string) error {
	conn := d.b.XUtil.Conn()
	for _, name := range names {
		fid, err := xproto.NewFontId(conn)
		if err != nil {
			return fmt.Errorf("allocate font id: %w", err)
		}
		if err := xproto.OpenFontChecked(conn, fid, uint16(len(name)), name).Check(); err != nil {
			d.b.logger.Warn("cannot load font", "font", name, "error", err)
			continue
		}
		info, err := xproto.QueryFont(conn, xproto.Fontable(fid)).Reply()
		if err != nil {
			xproto.CloseFont(conn, fid)
			continue
		}
		d.font = fid
		d.ascent = int(info.FontAscent)
		d.descent = int(info.FontDescent)
		d.b.logger.Debug("loaded bar font", "font", name, "height", d.ascent+d.descent)
		return nil
	}
	return fmt.Errorf("no loadable font in %v", names)
}

// SetColors allocates the foreground and background pixels of both schemes.
func (d *Bar) SetColors(colors config.Schemes) error {
	for i, c := range []config.Colors{colors.Norm, colors.Sel} {
		fg, err := d.b.Pixel(c.Fg)
		if err != nil {
			return err
		}
		bg, err := d.b.Pixel(c.Bg)
		if err != nil {
			return err
		}
		d.schemes[i] = scheme{fg: fg, bg: bg, fgRGB: rgb8(c.Fg), bgRGB: rgb8(c.Bg)}
	}
	return nil
}

func rgb8(hex string) [3]uint8 {
	r, g, b, _ := parseColor(hex)
	return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func (d *Bar) fontHeight() int { return d.ascent + d.descent }

// BarHeight is the font height plus a pixel above and below.
func (d *Bar) BarHeight() int { return d.fontHeight() + 2 }

// Padding is the horizontal room around the text of each cell.
func (d *Bar) Padding() int { return d.fontHeight() }

// TextWidth measures s in the bar font.
func (d *Bar) TextWidth(s string) int {
	if s == "" {
		return 0
	}
	if w, ok := d.widths[s]; ok {
		return w
	}
	chars := toChar2b(s)
	reply, err := xproto.QueryTextExtents(d.b.XUtil.Conn(), xproto.Fontable(d.font), chars, uint16(len(chars))).Reply()
	if err != nil {
		return 0
	}
	w := int(reply.OverallWidth)
	if len(d.widths) > 4096 {
		clear(d.widths)
	}
	d.widths[s] = w
	return w
}

// CreateBar creates an override-redirect bar window.
func (d *Bar) CreateBar(x, y, w, h int) xproto.Window {
	xu := d.b.XUtil
	win, err := xwindow.Generate(xu)
	if err != nil {
		d.b.logger.Error("cannot create bar window", "error", err)
		return 0
	}
	win.Create(d.b.Root(), x, y, max(w, 1), max(h, 1),
		xproto.CwBackPixmap|xproto.CwOverrideRedirect|xproto.CwEventMask|xproto.CwCursor,
		xproto.BackPixmapParentRelative, 1,
		xproto.EventMaskButtonPress|xproto.EventMaskExposure,
		uint32(d.b.cursors[wm.CursorNormal]))
	if err := icccm.WmClassSet(xu, win.Id, &icccm.WmClass{Instance: WMName, Class: WMName}); err != nil {
		d.b.logger.Debug("set bar class failed", "error", err)
	}
	d.bars = append(d.bars, win)
	return win.Id
}

// DestroyBar destroys a bar window created by CreateBar.
func (d *Bar) DestroyBar(id xproto.Window) {
	for i, w := range d.bars {
		if w.Id == id {
			w.Destroy()
			d.bars = slices.Delete(d.bars, i, i+1)
			return
		}
	}
}

// DrawBar paints every cell of bar and copies the result onto the window.
func (d *Bar) DrawBar(bar wm.BarState) {
	if bar.Win == 0 || bar.Width <= 0 || bar.Height <= 0 {
		return
	}
	if !d.ensurePixmap(bar.Width, bar.Height) {
		return
	}
	conn := d.b.XUtil.Conn()
	drawable := xproto.Drawable(d.pix)
	d.fill(drawable, d.schemes[wm.SchemeNorm].bg, 0, 0, bar.Width, bar.Height)
	for _, cell := range bar.Cells {
		d.drawCell(drawable, bar.Height, cell)
	}
	xproto.CopyArea(conn, drawable, xproto.Drawable(bar.Win), d.gc,
		0, 0, 0, 0, uint16(bar.Width), uint16(bar.Height))
}

func (d *Bar) drawCell(drawable xproto.Drawable, h int, cell wm.BarCell) {
	if cell.W <= 0 {
		return
	}
	s := d.schemes[cell.Scheme]
	fg, bg := s.fg, s.bg
	if cell.Invert {
		fg, bg = bg, fg
	}
	d.fill(drawable, bg, cell.X, 0, cell.W, h)

	if text := d.fit(cell.Text, cell.W-cell.Pad); text != "" {
		conn := d.b.XUtil.Conn()
		chars := toChar2b(text)
		xproto.ChangeGC(conn, d.gc, xproto.GcForeground|xproto.GcBackground, []uint32{fg, bg})
		ty := (h-d.fontHeight())/2 + d.ascent
		xproto.ImageText16(conn, byte(len(chars)), drawable, d.gc,
			int16(cell.X+cell.Pad), int16(ty), chars)
	}

	if cell.Icon != nil {
		d.drawIcon(drawable, cell.X+d.Padding()/2, (h-cell.Icon.Height)/2, cell.Icon, s, cell.Invert)
	}

	if cell.Box {
		boxs := d.fontHeight() / 9
		boxw := d.fontHeight()/6 + 2
		d.rect(drawable, fg, cell.X+boxs, boxs, boxw, boxw, cell.BoxFilled)
	}
}

// fit truncates text with an ellipsis so it renders within w pixels.
func (d *Bar) fit(text string, w int) string {
	if text == "" || w <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) > maxTextLen {
		runes = runes[:maxTextLen]
	}
	if d.TextWidth(string(runes)) <= w {
		return string(runes)
	}
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + ellipsis
		if d.TextWidth(s) <= w {
			return s
		}
	}
	return ""
}

func (d *Bar) fill(drawable xproto.Drawable, pixel uint32, x, y, w, h int) {
	d.rect(drawable, pixel, x, y, w, h, true)
}

func (d *Bar) rect(drawable xproto.Drawable, pixel uint32, x, y, w, h int, filled bool) {
	conn := d.b.XUtil.Conn()
	xproto.ChangeGC(conn, d.gc, xproto.GcForeground, []uint32{pixel})
	if filled {
		xproto.PolyFillRectangle(conn, drawable, d.gc, []xproto.Rectangle{
			{X: int16(x), Y: int16(y), Width: uint16(w), Height: uint16(h)},
		})
		return
	}
	xproto.PolyRectangle(conn, drawable, d.gc, []xproto.Rectangle{
		{X: int16(x), Y: int16(y), Width: uint16(max(w-1, 0)), Height: uint16(max(h-1, 0))},
	})
}

// drawIcon blends an ARGB icon over the cell background and uploads it.
func (d *Bar) drawIcon(drawable xproto.Drawable, x, y int, icon *wm.BarIcon, s scheme, invert bool) {
	if icon.Width <= 0 || icon.Height <= 0 || len(icon.ARGB) < icon.Width*icon.Height {
		return
	}
	bg := s.bgRGB
	if invert {
		bg = s.fgRGB
	}
	data := blendIcon(icon.ARGB[:icon.Width*icon.Height], bg)
	xproto.PutImage(d.b.XUtil.Conn(), xproto.ImageFormatZPixmap, drawable, d.gc,
		uint16(icon.Width), uint16(icon.Height), int16(x), int16(y), 0, d.depth, data)
}

// blendIcon converts ARGB pixels to the BGRX byte layout of a 24/32-bit
// ZPixmap, compositing alpha over the given background.
func blendIcon(argb []uint32, bg [3]uint8) []byte {
	out := make([]byte, 4*len(argb))
	for i, p := range argb {
		a := p >> 24
		r := ((p>>16&0xff)*a + uint32(bg[0])*(255-a)) / 255
		g := ((p>>8&0xff)*a + uint32(bg[1])*(255-a)) / 255
		b := ((p&0xff)*a + uint32(bg[2])*(255-a)) / 255
		out[4*i] = byte(b)
		out[4*i+1] = byte(g)
		out[4*i+2] = byte(r)
		out[4*i+3] = 0
	}
	return out
}

func (d *Bar) ensurePixmap(w, h int) bool {
	if d.pix != 0 && w <= d.pixW && h <= d.pixH {
		return true
	}
	conn := d.b.XUtil.Conn()
	if d.pix != 0 {
		xproto.FreePixmap(conn, d.pix)
		d.pix = 0
	}
	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		d.b.logger.Error("cannot allocate bar pixmap", "error", err)
		return false
	}
	sw, _ := d.b.ScreenSize()
	w = max(w, sw)
	xproto.CreatePixmap(conn, d.depth, pix, xproto.Drawable(d.b.Root()), uint16(w), uint16(h))
	d.pix, d.pixW, d.pixH = pix, w, h
	return true
}

// Close destroys the bar windows and frees the drawing resources.
func (d *Bar) Close() {
	conn := d.b.XUtil.Conn()
	for _, w := range d.bars {
		w.Destroy()
	}
	d.bars = nil
	if d.pix != 0 {
		xproto.FreePixmap(conn, d.pix)
		d.pix = 0
	}
	xproto.FreeGC(conn, d.gc)
	xproto.CloseFont(conn, d.font)
}

// toChar2b encodes s as UCS-2 for the 16-bit text requests. Runes outside
// the basic multilingual plane become '?'.
func toChar2b(s string) []xproto.Char2b {
	out := make([]xproto.Char2b, 0, len(s))
	for _, r := range s {
		if r > 0xffff {
			r = '?'
		}
		out = append(out, xproto.Char2b{Byte1: byte(r >> 8), Byte2: byte(r)})
		if len(out) == maxTextLen {
			break
		}
	}
	return out
}
