// Package svg implements a component surface that serializes to SVG.
//
// Every region becomes a <g> translated to its rectangle. Clipped regions
// reference a <clipPath> in <defs> under the id issued by the component's
// Env, so ids stay unique across the document.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/fonts"
)

type Option func(*Document)

// WithBackground fills the whole document before any region.
func WithBackground(color string) Option { return func(d *Document) { d.background = color } }

// WithFont sets the font family written into the stylesheet.
func WithFont(f fonts.Family) Option { return func(d *Document) { d.font = f } }

// WithTitle adds a <title> element.
func WithTitle(title string) Option { return func(d *Document) { d.title = title } }

// Document is a root surface.
type Document struct {
	region
	size       component.Size
	background string
	title      string
	font       fonts.Family
}

// New returns an empty document.
func New(width, height float64, opts ...Option) *Document {
	d := &Document{size: component.Size{Width: width, Height: height}}
	d.font, _ = fonts.Lookup(fonts.DefaultFamily)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Size implements component.RootSurface.
func (d *Document) Size() component.Size { return d.size }

// Remove is a no-op on the document.
func (d *Document) Remove() {}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	w, h := d.size.Width, d.size.Height
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(w), num(h), num(w), num(h))
	if d.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(d.title))
	}
	d.renderDefs(&buf)
	if d.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(d.background))
	}
	for _, c := range d.children {
		c.render(&buf, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (d *Document) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, "    <style>text { font-family: %s; font-weight: %s; }</style>\n", d.font.CSS, d.font.Weight)
	var clips []*region
	d.walk(func(r *region) {
		if r.clipID != "" {
			clips = append(clips, r)
		}
	})
	for _, r := range clips {
		fmt.Fprintf(buf, `    <clipPath id="%s"><rect width="%s" height="%s"/></clipPath>`+"\n",
			escape(r.clipID), num(r.rect.Size.Width), num(r.rect.Size.Height))
	}
	buf.WriteString("  </defs>\n")
}

// region is one <g>.
type region struct {
	name     string
	rect     component.Rect
	clipID   string
	ops      []string
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
func (r *region) Clip(id string)             { r.clipID = id }

func (r *region) Remove() {
	if r.parent == nil {
		return
	}
	r.parent.children = slices.DeleteFunc(r.parent.children, func(c *region) bool { return c == r })
	r.parent = nil
}

func (r *region) Clear() { r.ops = nil }

func (r *region) FillRect(rect component.Rect, fill string) {
	r.ops = append(r.ops, fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
		num(rect.Origin.X), num(rect.Origin.Y), num(rect.Size.Width), num(rect.Size.Height), escape(fill)))
}

func (r *region) StrokeRect(rect component.Rect, stroke string) {
	r.ops = append(r.ops, fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s"/>`,
		num(rect.Origin.X), num(rect.Origin.Y), num(rect.Size.Width), num(rect.Size.Height), escape(stroke)))
}

func (r *region) Text(at component.Point, s string, style component.TextStyle) {
	anchor := map[component.Alignment]string{
		component.AlignStart:  "start",
		component.AlignCenter: "middle",
		component.AlignEnd:    "end",
	}[style.Anchor]
	color := style.Color
	if color == "" {
		color = "#000000"
	}
	r.ops = append(r.ops, fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="%s">%s</text>`,
		num(at.X), num(at.Y), num(style.Size), escape(color), anchor, escape(s)))
}

func (r *region) render(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	id, classes := splitName(r.name)
	buf.WriteString(indent)
	buf.WriteString("<g")
	if id != "" {
		fmt.Fprintf(buf, ` id="%s"`, escape(id))
	}
	if len(classes) > 0 {
		fmt.Fprintf(buf, ` class="%s"`, escape(strings.Join(classes, " ")))
	}
	if r.rect.Origin != (component.Point{}) {
		fmt.Fprintf(buf, ` transform="translate(%s,%s)"`, num(r.rect.Origin.X), num(r.rect.Origin.Y))
	}
	if r.clipID != "" {
		fmt.Fprintf(buf, ` clip-path="url(#%s)"`, escape(r.clipID))
	}
	if len(r.ops) == 0 && len(r.children) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteString(">\n")
	for _, op := range r.ops {
		buf.WriteString(indent + "  " + op + "\n")
	}
	for _, c := range r.children {
		c.render(buf, depth+1)
	}
	buf.WriteString(indent + "</g>\n")
}

func (r *region) walk(fn func(*region)) {
	for _, c := range r.children {
		fn(c)
		c.walk(fn)
	}
}

func splitName(name string) (id string, classes []string) {
	parts := strings.Split(name, ".")
	for _, p := range parts[1:] {
		if p != "" {
			classes = append(classes, p)
		}
	}
	return parts[0], classes
}

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

var (
	_ component.RootSurface = (*Document)(nil)
	_ component.Canvas      = (*region)(nil)
)
