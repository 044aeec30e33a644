package component

// Surface is a drawing region owned by one component.
//
// The layout core only creates, names, positions, clips and removes regions;
// it never reads pixels. Rectangles passed to SetRect are relative to the
// parent region.
type Surface interface {
	// CreateChild creates a nested region. The name has the form
	// "name.class1.class2"; either part may be empty.
	CreateChild(name string) Surface
	SetName(name string)
	SetRect(r Rect)
	// Clip clips the region to its rectangle under the given id.
	// An empty id removes the clip.
	Clip(id string)
	Remove()
}

// RootSurface is the surface a root component is rendered onto.
type RootSurface interface {
	Surface
	Size() Size
}

// Canvas is implemented by surfaces that leaves can paint on.
// Coordinates are local to the region.
type Canvas interface {
	// Clear discards everything painted on the region, keeping child regions.
	Clear()
	FillRect(r Rect, fill string)
	StrokeRect(r Rect, stroke string)
	Text(at Point, s string, style TextStyle)
}

// TextStyle describes a run of text painted on a Canvas.
// At is the baseline position of the anchor.
type TextStyle struct {
	Size   float64
	Color  string
	Anchor Alignment
}
