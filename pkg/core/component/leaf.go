package component

// Fixed is a leaf with a constant size.
type Fixed struct {
	Base
	width, height float64
}

// NewFixed returns a fixed-size leaf.
func NewFixed(width, height float64) *Fixed {
	f := &Fixed{width: width, height: height}
	f.Init(f)
	f.fixedWidth, f.fixedHeight = true, true
	return f
}

// RequestedSpace returns the constant size regardless of the offer.
func (f *Fixed) RequestedSpace(offeredWidth, offeredHeight float64) SpaceRequest {
	return SpaceRequest{
		Width:           f.width,
		Height:          f.height,
		WantsMoreWidth:  offeredWidth < f.width,
		WantsMoreHeight: offeredHeight < f.height,
	}
}

// Size returns the constant size.
func (f *Fixed) Size() Size { return Size{Width: f.width, Height: f.height} }

// SetSize changes the constant size and requests layout.
func (f *Fixed) SetSize(width, height float64) {
	f.width, f.height = width, height
	f.RequestLayout()
}

// Fill is a leaf that asks for nothing and takes whatever it is given.
type Fill struct {
	Base
}

// NewFill returns a flexible leaf.
func NewFill() *Fill {
	f := &Fill{}
	f.Init(f)
	return f
}
