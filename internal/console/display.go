package console

import (
	"github.com/vovakirdan/tui-cartridge/internal/core"
)

// Glyph metrics for text in view box units. Text is laid out on a coarse
// grid so the score stays readable at any terminal size.
const (
	TextAdvance = 4 // Horizontal distance between characters
	pixelRune   = '█'
)

// viewBox is the logical coordinate space mapped onto the whole terminal.
type viewBox struct {
	x, y, w, h float64
}

// Display is the terminal implementation of Screen. It keeps sprites and
// text in creation order and rasterizes them into a core.Screen on demand.
type Display struct {
	view     viewBox
	entities []drawable
}

type drawable interface {
	draw(d *Display, dst *core.Screen, sx, sy float64)
}

// NewDisplay creates a display whose view box matches w x h logical units.
func NewDisplay(w, h float64) *Display {
	return &Display{view: viewBox{w: w, h: h}}
}

// SetViewBox sets the logical coordinate space.
func (d *Display) SetViewBox(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	d.view = viewBox{x: x, y: y, w: w, h: h}
}

// ViewBox returns the current logical coordinate space.
func (d *Display) ViewBox() (x, y, w, h float64) {
	return d.view.x, d.view.y, d.view.w, d.view.h
}

// AddSprite places a bitmap sprite on the display.
func (d *Display) AddSprite(bitmap Bitmap, opts SpriteOptions) Sprite {
	s := &sprite{
		display: d,
		bitmap:  bitmap,
		colors:  opts.ColorIDs,
		x:       opts.X,
		y:       opts.Y,
	}
	d.entities = append(d.entities, s)
	return s
}

// AddText places a string on the display.
func (d *Display) AddText(value string, opts TextOptions) Entity {
	t := &text{
		display: d,
		value:   value,
		x:       opts.X,
		y:       opts.Y,
		color:   opts.Color,
	}
	d.entities = append(d.entities, t)
	return t
}

// Count returns the number of entities currently on the display.
func (d *Display) Count() int {
	return len(d.entities)
}

// Clear removes every entity.
func (d *Display) Clear() {
	for _, e := range d.entities {
		switch v := e.(type) {
		case *sprite:
			v.removed = true
		case *text:
			v.removed = true
		}
	}
	d.entities = d.entities[:0]
}

// Render draws all entities into dst, scaling the view box to fill it.
func (d *Display) Render(dst *core.Screen) {
	sx := float64(dst.Width()) / d.view.w
	sy := float64(dst.Height()) / d.view.h
	for _, e := range d.entities {
		e.draw(d, dst, sx, sy)
	}
}

// cellSpan maps the logical interval [v, v+1) to screen cells, always
// covering at least one cell.
func cellSpan(v, scale float64) (int, int) {
	from := core.FloorInt(v * scale)
	to := core.FloorInt((v + 1) * scale)
	if to <= from {
		to = from + 1
	}
	return from, to
}

func (d *Display) remove(e drawable) {
	for i, cur := range d.entities {
		if cur == e {
			d.entities = append(d.entities[:i], d.entities[i+1:]...)
			return
		}
	}
}

type sprite struct {
	display *Display
	bitmap  Bitmap
	colors  []ColorID
	x, y    float64
	removed bool
}

func (s *sprite) X() float64 { return s.x }
func (s *sprite) Y() float64 { return s.y }

func (s *sprite) SetPosition(x, y float64) {
	s.x = x
	s.y = y
}

// Remove is idempotent.
func (s *sprite) Remove() {
	if s.removed {
		return
	}
	s.removed = true
	s.display.remove(s)
}

func (s *sprite) draw(d *Display, dst *core.Screen, sx, sy float64) {
	bounds := dst.Bounds()
	for row, line := range s.bitmap {
		y0, y1 := cellSpan(s.y+float64(row)-d.view.y, sy)
		for col, v := range line {
			if v < 0 || v >= len(s.colors) || s.colors[v] == Transparent {
				continue
			}
			x0, x1 := cellSpan(s.x+float64(col)-d.view.x, sx)
			pixel := core.NewRect(x0, y0, x1-x0, y1-y0).Intersect(bounds)
			dst.DrawRect(pixel, pixelRune, core.PaletteColor(int(s.colors[v])))
		}
	}
}

type text struct {
	display *Display
	value   string
	x, y    float64
	color   ColorID
	removed bool
}

func (t *text) Remove() {
	if t.removed {
		return
	}
	t.removed = true
	t.display.remove(t)
}

func (t *text) draw(d *Display, dst *core.Screen, sx, sy float64) {
	color := core.ColorBrightWhite
	if t.color > 0 {
		color = core.PaletteColor(int(t.color))
	}
	y := core.FloorInt((t.y - d.view.y) * sy)
	i := 0
	for _, r := range t.value {
		// Center each character inside its glyph cell.
		x := core.FloorInt((t.x + float64(i*TextAdvance) + TextAdvance/2 - d.view.x) * sx)
		dst.SetCell(x, y, r, color)
		i++
	}
}
