// Package cells implements a component surface backed by a grid of
// terminal cells.
//
// One surface unit is one cell, so charts laid out against a cells
// Document should measure text with text.Monospace. Drawing is deferred:
// regions keep their operations and String rasterizes the whole tree,
// honouring clip regions.
package cells

import (
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/core/component"
)

type Option func(*Document)

// WithOutlines draws the border of every named region.
func WithOutlines() Option { return func(d *Document) { d.outlines = true } }

// WithFillRune sets the rune FillRect paints with. The default is '░'.
func WithFillRune(r rune) Option { return func(d *Document) { d.fill = r } }

// Document is a root surface of cols x rows cells.
type Document struct {
	region
	cols, rows int
	outlines   bool
	fill       rune
}

// New returns an empty document of the given size in cells.
func New(cols, rows int, opts ...Option) *Document {
	d := &Document{cols: max(cols, 0), rows: max(rows, 0), fill: '░'}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Size implements component.RootSurface.
func (d *Document) Size() component.Size {
	return component.Size{Width: float64(d.cols), Height: float64(d.rows)}
}

// Resize changes the grid. Regions keep their rectangles until the next
// layout.
func (d *Document) Resize(cols, rows int) {
	d.cols, d.rows = max(cols, 0), max(rows, 0)
}

// SetOutlines toggles drawing the border of every named region.
func (d *Document) SetOutlines(on bool) { d.outlines = on }

// Outlines reports whether region borders are drawn.
func (d *Document) Outlines() bool { return d.outlines }

// Remove is a no-op on the document.
func (d *Document) Remove() {}

// Lines rasterizes the tree, one string per row.
func (d *Document) Lines() []string {
	g := newGrid(d.cols, d.rows)
	whole := box{0, 0, d.cols, d.rows}
	for _, c := range d.children {
		c.draw(g, d, 0, 0, whole)
	}
	out := make([]string, d.rows)
	for y := range g {
		out[y] = string(g[y])
	}
	return out
}

// String joins Lines with newlines.
func (d *Document) String() string {
	return strings.Join(d.Lines(), "\n")
}

type opKind int

const (
	opFill opKind = iota
	opStroke
	opText
)

type op struct {
	kind   opKind
	rect   component.Rect
	at     component.Point
	text   string
	anchor component.Alignment
}

type region struct {
	name     string
	rect     component.Rect
	clipped  bool
	ops      []op
	children []*region
	parent   *region
}

func (r *region) CreateChild(name string) component.Surface {
	c := &region{name: name, parent: r}
	r.children = append(r.children, c)
	return c
}

func (r *region) SetName(name string)        { r.name = name }
func (r *region) SetRect(rect component.Rect) { r.rect = rect }
func (r *region) Clip(id string)             { r.clipped = id != "" }

func (r *region) Remove() {
	if r.parent == nil {
		return
	}
	r.parent.children = slices.DeleteFunc(r.parent.children, func(c *region) bool { return c == r })
	r.parent = nil
}

func (r *region) Clear() { r.ops = nil }

func (r *region) FillRect(rect component.Rect, fill string) {
	r.ops = append(r.ops, op{kind: opFill, rect: rect})
}

func (r *region) StrokeRect(rect component.Rect, stroke string) {
	r.ops = append(r.ops, op{kind: opStroke, rect: rect})
}

// Text places s on the row containing the baseline's cell.
func (r *region) Text(at component.Point, s string, style component.TextStyle) {
	r.ops = append(r.ops, op{kind: opText, at: at, text: s, anchor: style.Anchor})
}

func (r *region) draw(g grid, d *Document, ox, oy float64, clip box) {
	ox += r.rect.Origin.X
	oy += r.rect.Origin.Y
	self := toBox(component.Rect{Origin: component.Point{X: ox, Y: oy}, Size: r.rect.Size})
	if r.clipped {
		clip = clip.intersect(self)
	}
	if d.outlines && r.name != "" {
		g.stroke(self, clip)
	}
	for _, o := range r.ops {
		switch o.kind {
		case opFill:
			g.fill(toBox(offset(o.rect, ox, oy)), clip, d.fill)
		case opStroke:
			g.stroke(toBox(offset(o.rect, ox, oy)), clip)
		case opText:
			runes := []rune(o.text)
			x := ox + o.at.X - o.anchor.Proportion()*float64(len(runes))
			y := int(math.Ceil(oy+o.at.Y)) - 1
			g.text(int(math.Round(x)), y, runes, clip)
		}
	}
	for _, c := range r.children {
		c.draw(g, d, ox, oy, clip)
	}
}

func offset(r component.Rect, dx, dy float64) component.Rect {
	r.Origin.X += dx
	r.Origin.Y += dy
	return r
}

// box is a half-open cell rectangle [x0,x1) x [y0,y1).
type box struct{ x0, y0, x1, y1 int }

func toBox(r component.Rect) box {
	return box{
		x0: int(math.Round(r.Origin.X)),
		y0: int(math.Round(r.Origin.Y)),
		x1: int(math.Round(r.Right())),
		y1: int(math.Round(r.Bottom())),
	}
}

func (b box) intersect(o box) box {
	return box{max(b.x0, o.x0), max(b.y0, o.y0), min(b.x1, o.x1), min(b.y1, o.y1)}
}

func (b box) has(x, y int) bool { return x >= b.x0 && x < b.x1 && y >= b.y0 && y < b.y1 }

type grid [][]rune

func newGrid(cols, rows int) grid {
	g := make(grid, rows)
	for y := range g {
		g[y] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g grid) set(x, y int, r rune, clip box) {
	if clip.has(x, y) && y >= 0 && y < len(g) && x >= 0 && x < len(g[y]) {
		g[y][x] = r
	}
}

func (g grid) fill(b box, clip box, r rune) {
	for y := b.y0; y < b.y1; y++ {
		for x := b.x0; x < b.x1; x++ {
			g.set(x, y, r, clip)
		}
	}
}

func (g grid) stroke(b box, clip box) {
	if b.x1-b.x0 < 2 || b.y1-b.y0 < 2 {
		g.fill(b, clip, '▪')
		return
	}
	right, bottom := b.x1-1, b.y1-1
	for x := b.x0 + 1; x < right; x++ {
		g.set(x, b.y0, '─', clip)
		g.set(x, bottom, '─', clip)
	}
	for y := b.y0 + 1; y < bottom; y++ {
		g.set(b.x0, y, '│', clip)
		g.set(right, y, '│', clip)
	}
	g.set(b.x0, b.y0, '┌', clip)
	g.set(right, b.y0, '┐', clip)
	g.set(b.x0, bottom, '└', clip)
	g.set(right, bottom, '┘', clip)
}

func (g grid) text(x, y int, runes []rune, clip box) {
	for i, r := range runes {
		g.set(x+i, y, r, clip)
	}
}

var (
	_ component.RootSurface = (*Document)(nil)
	_ component.Canvas      = (*region)(nil)
)
