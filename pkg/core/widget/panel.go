package widget

import "github.com/matzehuels/plotgrid/pkg/core/component"

// Panel fills its rectangle. Without a size it is flexible; with one it is
// fixed at that size.
type Panel struct {
	component.Base
	fill   string
	stroke string
	size   component.Size
	sized  bool
}

// NewPanel returns a flexible panel.
func NewPanel(fill string) *Panel {
	p := &Panel{fill: fill}
	p.Init(p)
	return p
}

// SetSize fixes the panel at width x height.
func (p *Panel) SetSize(width, height float64) {
	p.size = component.Size{Width: width, Height: height}
	p.sized = true
	p.SetFixedWidth(true)
	p.SetFixedHeight(true)
	p.RequestLayout()
}

// SetStroke sets the outline color; "" disables the outline.
func (p *Panel) SetStroke(color string) {
	p.stroke = color
	p.RequestRender()
}

// SetFill sets the fill color.
func (p *Panel) SetFill(color string) {
	p.fill = color
	p.RequestRender()
}

// RequestedSpace returns the fixed size, or nothing for a flexible panel.
func (p *Panel) RequestedSpace(offeredWidth, offeredHeight float64) component.SpaceRequest {
	if !p.sized {
		return component.SpaceRequest{}
	}
	return component.SpaceRequest{
		Width:           p.size.Width,
		Height:          p.size.Height,
		WantsMoreWidth:  offeredWidth < p.size.Width,
		WantsMoreHeight: offeredHeight < p.size.Height,
	}
}

// RenderImmediately fills and outlines the rectangle.
func (p *Panel) RenderImmediately() error {
	canvas, ok := p.Canvas()
	if !ok {
		return nil
	}
	canvas.Clear()
	r := component.Rect{Size: component.Size{Width: p.Width(), Height: p.Height()}}
	if p.fill != "" {
		canvas.FillRect(r, p.fill)
	}
	if p.stroke != "" {
		canvas.StrokeRect(r, p.stroke)
	}
	return nil
}
