package widget

import (
	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/core/text"
)

// DefaultFontSize is the font size of new labels and legends.
const DefaultFontSize = 12

// Label is a block of text. Labels are fixed-size: they keep their
// requested size and are aligned within the offer. A wrapping label asks
// for the offered width and grows taller as the width shrinks.
type Label struct {
	component.Base
	text     string
	size     float64
	color    string
	wrap     bool
	padding  float64
	measurer text.Measurer
}

// NewLabel returns a label measured with m; a nil m uses text.Default().
func NewLabel(s string, m text.Measurer) *Label {
	if m == nil {
		m = text.Default()
	}
	l := &Label{text: s, size: DefaultFontSize, color: "#333333", measurer: m}
	l.Init(l)
	l.SetFixedWidth(true)
	l.SetFixedHeight(true)
	return l
}

// Text returns the label text.
func (l *Label) Text() string { return l.text }

// SetText replaces the text and requests layout.
func (l *Label) SetText(s string) {
	l.text = s
	l.RequestLayout()
}

// FontSize returns the font size.
func (l *Label) FontSize() float64 { return l.size }

// SetFontSize sets the font size. Non-positive sizes are ignored.
func (l *Label) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	l.size = size
	l.RequestLayout()
}

// SetColor sets the text color.
func (l *Label) SetColor(c string) {
	l.color = c
	l.RequestRender()
}

// Wrap reports whether the label wraps to the offered width.
func (l *Label) Wrap() bool { return l.wrap }

// SetWrap enables or disables wrapping.
func (l *Label) SetWrap(wrap bool) {
	l.wrap = wrap
	l.RequestLayout()
}

// SetPadding sets the space kept around the text on every side.
func (l *Label) SetPadding(p float64) {
	l.padding = max(p, 0)
	l.RequestLayout()
}

func (l *Label) block(maxWidth float64) text.Block {
	if l.wrap {
		return text.Layout(l.measurer, l.text, l.size, maxWidth-2*l.padding)
	}
	return text.Natural(l.measurer, l.text, l.size)
}

// RequestedSpace returns the text extent plus padding.
func (l *Label) RequestedSpace(offeredWidth, offeredHeight float64) component.SpaceRequest {
	b := l.block(offeredWidth)
	w := b.Width + 2*l.padding
	h := b.Height + 2*l.padding
	return component.SpaceRequest{
		Width:           w,
		Height:          h,
		WantsMoreWidth:  w > offeredWidth,
		WantsMoreHeight: h > offeredHeight,
	}
}

// RenderImmediately paints the lines, anchored by the label's x alignment.
func (l *Label) RenderImmediately() error {
	canvas, ok := l.Canvas()
	if !ok {
		return nil
	}
	canvas.Clear()
	b := l.block(l.Width())
	x := l.padding
	switch l.XAlign() {
	case component.AlignCenter:
		x = l.Width() / 2
	case component.AlignEnd:
		x = l.Width() - l.padding
	}
	ascent := l.measurer.Ascent(l.size)
	style := component.TextStyle{Size: l.size, Color: l.color, Anchor: l.XAlign()}
	for i, line := range b.Lines {
		if line == "" {
			continue
		}
		y := l.padding + float64(i)*b.LineHeight + ascent
		canvas.Text(component.Point{X: x, Y: y}, line, style)
	}
	return nil
}
