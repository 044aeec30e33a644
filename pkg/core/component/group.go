package component

import (
	stderrors "errors"
	"math"
	"slices"
)

// Group overlays its children on one rectangle, e.g. a grid drawn behind a
// plot.
type Group struct {
	Base
	children []Component
	auto     bool
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	g := &Group{}
	g.Init(g)
	return g
}

// Append adds c on top of the existing children. c is detached from any
// previous owner first. Appending a current child is a no-op.
func (g *Group) Append(c Component) error {
	if err := g.canAdopt(c); err != nil {
		return err
	}
	if g.Has(c) {
		return nil
	}
	c.Detach()
	g.children = append(g.children, c)
	return g.attach(c)
}

// Remove detaches c. Removing a component that is not a child is a no-op.
func (g *Group) Remove(c Component) {
	if g.Has(c) {
		c.Detach()
	}
}

// DetachAll detaches every child.
func (g *Group) DetachAll() {
	for _, c := range g.Components() {
		c.Detach()
	}
}

// Has reports whether c is a direct child.
func (g *Group) Has(c Component) bool { return slices.Contains(g.children, c) }

// Components returns the children in paint order.
func (g *Group) Components() []Component { return slices.Clone(g.children) }

// Empty reports whether the group has no children.
func (g *Group) Empty() bool { return len(g.children) == 0 }

func (g *Group) release(c Component) {
	g.children = slices.DeleteFunc(g.children, func(o Component) bool { return o == c })
}

// RequestedSpace is the maximum over the children's requests.
func (g *Group) RequestedSpace(offeredWidth, offeredHeight float64) SpaceRequest {
	var req SpaceRequest
	for _, c := range g.children {
		r := c.RequestedSpace(offeredWidth, offeredHeight)
		req.Width = math.Max(req.Width, r.Width)
		req.Height = math.Max(req.Height, r.Height)
		req.WantsMoreWidth = req.WantsMoreWidth || r.WantsMoreWidth
		req.WantsMoreHeight = req.WantsMoreHeight || r.WantsMoreHeight
	}
	return req
}

// FixedWidth reports whether every child is fixed-width. An empty group is.
func (g *Group) FixedWidth() bool {
	for _, c := range g.children {
		if !c.FixedWidth() {
			return false
		}
	}
	return true
}

// FixedHeight reports whether every child is fixed-height.
func (g *Group) FixedHeight() bool {
	for _, c := range g.children {
		if !c.FixedHeight() {
			return false
		}
	}
	return true
}

// ComputeLayout gives every child the group's whole rectangle.
func (g *Group) ComputeLayout(origin Point, availableWidth, availableHeight float64) error {
	if err := g.Base.ComputeLayout(origin, availableWidth, availableHeight); err != nil {
		return err
	}
	var errs []error
	for _, c := range g.children {
		if err := c.ComputeLayout(Point{}, g.width, g.height); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
