package widget

import (
	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/core/text"
)

// Entry is one legend row.
type Entry struct {
	Label string
	Color string
}

// Legend lists entries as a swatch followed by text, one per row.
// Legends are fixed-size.
type Legend struct {
	component.Base
	entries  []Entry
	size     float64
	measurer text.Measurer
	changed  component.Notifier
}

const (
	swatchGap = 0.5 // swatch-to-text gap, in font sizes
	rowGap    = 0.25
)

// NewLegend returns a legend measured with m; a nil m uses text.Default().
func NewLegend(m text.Measurer, entries ...Entry) *Legend {
	if m == nil {
		m = text.Default()
	}
	l := &Legend{entries: entries, size: DefaultFontSize, measurer: m}
	l.Init(l)
	l.SetFixedWidth(true)
	l.SetFixedHeight(true)
	l.Track(&l.changed, l.RequestLayout)
	return l
}

// Entries returns a copy of the entries.
func (l *Legend) Entries() []Entry { return append([]Entry(nil), l.entries...) }

// SetEntries replaces the entries.
func (l *Legend) SetEntries(entries ...Entry) {
	l.entries = entries
	l.changed.Broadcast()
}

// Add appends an entry.
func (l *Legend) Add(e Entry) {
	l.entries = append(l.entries, e)
	l.changed.Broadcast()
}

// SetFontSize sets the font size. Non-positive sizes are ignored.
func (l *Legend) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	l.size = size
	l.RequestLayout()
}

func (l *Legend) rowHeight() float64 {
	return l.measurer.LineHeight(l.size) * (1 + rowGap)
}

func (l *Legend) swatch() float64 {
	return l.measurer.Ascent(l.size)
}

// RequestedSpace returns the size of all rows.
func (l *Legend) RequestedSpace(offeredWidth, offeredHeight float64) component.SpaceRequest {
	var textWidth float64
	for _, e := range l.entries {
		textWidth = max(textWidth, l.measurer.Width(e.Label, l.size))
	}
	var w float64
	if len(l.entries) > 0 {
		w = l.swatch() + swatchGap*l.size + textWidth
	}
	h := float64(len(l.entries)) * l.rowHeight()
	return component.SpaceRequest{
		Width:           w,
		Height:          h,
		WantsMoreWidth:  w > offeredWidth,
		WantsMoreHeight: h > offeredHeight,
	}
}

// RenderImmediately paints the rows that fit.
func (l *Legend) RenderImmediately() error {
	canvas, ok := l.Canvas()
	if !ok {
		return nil
	}
	canvas.Clear()
	rh, sw := l.rowHeight(), l.swatch()
	ascent := l.measurer.Ascent(l.size)
	for i, e := range l.entries {
		top := float64(i) * rh
		if top+rh > l.Height()+1e-9 {
			break
		}
		canvas.FillRect(component.Rect{
			Origin: component.Point{X: 0, Y: top + (rh-sw)/2},
			Size:   component.Size{Width: sw, Height: sw},
		}, e.Color)
		canvas.Text(component.Point{X: sw + swatchGap*l.size, Y: top + (rh-ascent)/2 + ascent},
			e.Label, component.TextStyle{Size: l.size, Color: "#333333"})
	}
	return nil
}
