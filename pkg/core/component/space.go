package component

import "fmt"

// SpaceRequest is a component's answer to an offer.
//
// Width and Height may exceed the offer; the container grants them anyway
// and the Wants flags record that the component would like more room.
type SpaceRequest struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	WantsMoreWidth  bool    `json:"wants_more_width,omitempty"`
	WantsMoreHeight bool    `json:"wants_more_height,omitempty"`
}

// Point is a position in surface units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width and height in surface units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an origin plus a size.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Origin.X + r.Size.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Origin.Y + r.Size.Height }

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	const eps = 1e-9
	return o.Origin.X >= r.Origin.X-eps && o.Origin.Y >= r.Origin.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

func (r Rect) String() string {
	return fmt.Sprintf("%gx%g@%s", r.Size.Width, r.Size.Height, r.Origin)
}
