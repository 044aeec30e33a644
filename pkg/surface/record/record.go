// Package record provides an in-memory surface that remembers every region
// and drawing operation. It backs tests and layout snapshots.
package record

import (
	"slices"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/core/component"
)

// Event kinds appended to [Document.Events].
const (
	EventCreate = "create"
	EventRename = "rename"
	EventRect   = "rect"
	EventClip   = "clip"
	EventRemove = "remove"
	EventClear  = "clear"
)

// Event is one surface call.
type Event struct {
	Kind   string
	Region string
}

// Op is one drawing call on a region.
type Op struct {
	Kind  string // "fill", "stroke" or "text"
	Rect  component.Rect
	Paint string
	Text  string
	Style component.TextStyle
}

// Document is a root surface.
type Document struct {
	Region
	size   component.Size
	Events []Event
}

// New returns an empty document of the given size.
func New(width, height float64) *Document {
	d := &Document{size: component.Size{Width: width, Height: height}}
	d.Region.doc = d
	d.Region.Rect = component.Rect{Size: d.size}
	return d
}

// Size returns the document size.
func (d *Document) Size() component.Size { return d.size }

// Resize changes the document size. Callers request a root layout afterwards.
func (d *Document) Resize(width, height float64) {
	d.size = component.Size{Width: width, Height: height}
	d.Region.Rect.Size = d.size
}

// Remove is a no-op on the document itself.
func (d *Document) Remove() {}

// Find returns the first live region whose id is id, depth first.
func (d *Document) Find(id string) *Region {
	var found *Region
	d.walk(func(r *Region) bool {
		if r.ID() == id {
			found = r
			return false
		}
		return true
	})
	return found
}

// Regions returns all live regions below the document, depth first.
func (d *Document) Regions() []*Region {
	var out []*Region
	d.walk(func(r *Region) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Count returns how many events of kind were recorded for region id.
func (d *Document) Count(kind, id string) int {
	n := 0
	for _, e := range d.Events {
		if e.Kind == kind && regionID(e.Region) == id {
			n++
		}
	}
	return n
}

// ResetEvents clears the event log.
func (d *Document) ResetEvents() { d.Events = nil }

// Region is a recorded surface region.
type Region struct {
	Name     string
	Rect     component.Rect
	ClipID   string
	Ops      []Op
	Children []*Region

	doc    *Document
	parent *Region
}

// CreateChild appends a nested region.
func (r *Region) CreateChild(name string) component.Surface {
	c := &Region{Name: name, doc: r.doc, parent: r}
	r.Children = append(r.Children, c)
	r.doc.record(EventCreate, name)
	return c
}

func (r *Region) SetName(name string) {
	r.Name = name
	r.doc.record(EventRename, name)
}

func (r *Region) SetRect(rect component.Rect) {
	r.Rect = rect
	r.doc.record(EventRect, r.Name)
}

func (r *Region) Clip(id string) {
	r.ClipID = id
	r.doc.record(EventClip, r.Name)
}

// Remove unlinks the region from its parent.
func (r *Region) Remove() {
	if r.parent == nil {
		return
	}
	r.parent.Children = slices.DeleteFunc(r.parent.Children, func(c *Region) bool { return c == r })
	r.parent = nil
	r.doc.record(EventRemove, r.Name)
}

func (r *Region) Clear() {
	r.Ops = nil
	r.doc.record(EventClear, r.Name)
}

func (r *Region) FillRect(rect component.Rect, fill string) {
	r.Ops = append(r.Ops, Op{Kind: "fill", Rect: rect, Paint: fill})
}

func (r *Region) StrokeRect(rect component.Rect, stroke string) {
	r.Ops = append(r.Ops, Op{Kind: "stroke", Rect: rect, Paint: stroke})
}

func (r *Region) Text(at component.Point, s string, style component.TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: "text", Rect: component.Rect{Origin: at}, Text: s, Style: style})
}

// ID returns the name part before the first class.
func (r *Region) ID() string { return regionID(r.Name) }

// Classes returns the class part of the name.
func (r *Region) Classes() []string {
	parts := strings.Split(r.Name, ".")
	return slices.DeleteFunc(parts[1:], func(s string) bool { return s == "" })
}

// Live reports whether the region is still attached to the document.
func (r *Region) Live() bool {
	for p := r; p != nil; p = p.parent {
		if p == &r.doc.Region {
			return true
		}
	}
	return false
}

// Absolute returns the rectangle in document coordinates.
func (r *Region) Absolute() component.Rect {
	rect := r.Rect
	for p := r.parent; p != nil && p.parent != nil; p = p.parent {
		rect.Origin = rect.Origin.Add(p.Rect.Origin)
	}
	return rect
}

func (r *Region) walk(fn func(*Region) bool) bool {
	for _, c := range r.Children {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

func (d *Document) record(kind, region string) {
	d.Events = append(d.Events, Event{Kind: kind, Region: region})
}

func regionID(name string) string {
	id, _, _ := strings.Cut(name, ".")
	return id
}

var (
	_ component.RootSurface = (*Document)(nil)
	_ component.Canvas      = (*Region)(nil)
)
