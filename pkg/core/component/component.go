package component

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/plotgrid/pkg/errors"
)

// Component is the unit of layout.
//
// Implementations embed [Base], which provides everything except the
// sizing and painting behavior, and call [Base.Init] on construction.
type Component interface {
	// RequestedSpace reports what the component needs for an offer.
	// It must not mutate layout state.
	RequestedSpace(offeredWidth, offeredHeight float64) SpaceRequest

	// ComputeLayout assigns the component's rectangle within the offer.
	// origin is relative to the parent region.
	ComputeLayout(origin Point, availableWidth, availableHeight float64) error

	// RenderImmediately paints using the computed rectangle.
	RenderImmediately() error

	FixedWidth() bool
	FixedHeight() bool

	Anchor(env *Env, surface Surface) error
	Detach()
	Destroy()
	Anchored() bool
	Parent() Container

	core() *Base
}

// Container is a component that owns children.
type Container interface {
	Component

	// Components returns the children in paint order.
	Components() []Component

	// release drops c from the collection without touching its state.
	release(c Component)
}

// =============================================================================
// Base
// =============================================================================

// Base carries the state and lifecycle shared by all components.
type Base struct {
	self Component

	env     *Env
	surface Surface
	host    RootSurface
	parent  Container

	anchored  bool
	destroyed bool

	origin        Point
	width, height float64

	hasOffer              bool
	lastOrigin            Point
	lastWidth, lastHeight float64

	fixedWidth, fixedHeight bool
	xAlign, yAlign          Alignment
	xOffset, yOffset        float64

	name    string
	classes []string
	clip    bool
	clipID  string

	nextCallback int
	onAnchor     []callback[func(Component)]
	onDetach     []callback[func(Component)]
	onResize     []callback[func(width, height float64)]
	trackers     []*tracker
}

type callback[F any] struct {
	id int
	fn F
}

// Init binds the Base to the component embedding it. It must be called
// once, before any other method.
func (b *Base) Init(self Component) {
	b.self = self
}

func (b *Base) core() *Base { return b }

// RequestedSpace asks for nothing.
func (b *Base) RequestedSpace(offeredWidth, offeredHeight float64) SpaceRequest {
	return SpaceRequest{}
}

// RenderImmediately paints nothing.
func (b *Base) RenderImmediately() error { return nil }

// FixedWidth reports whether the component keeps its requested width
// instead of growing to the offer.
func (b *Base) FixedWidth() bool { return b.fixedWidth }

// FixedHeight reports whether the component keeps its requested height.
func (b *Base) FixedHeight() bool { return b.fixedHeight }

// SetFixedWidth sets width fixity. Containers derive fixity from their
// children and ignore it.
func (b *Base) SetFixedWidth(fixed bool) {
	if b.fixedWidth != fixed {
		b.fixedWidth = fixed
		b.RequestLayout()
	}
}

// SetFixedHeight sets height fixity.
func (b *Base) SetFixedHeight(fixed bool) {
	if b.fixedHeight != fixed {
		b.fixedHeight = fixed
		b.RequestLayout()
	}
}

// ComputeLayout records the offer and assigns the used rectangle.
func (b *Base) ComputeLayout(origin Point, availableWidth, availableHeight float64) error {
	if !b.anchored {
		return errors.Precondition("compute layout on unanchored component %s", Describe(b.self))
	}
	b.hasOffer = true
	b.lastOrigin = origin
	b.lastWidth, b.lastHeight = availableWidth, availableHeight

	req := b.self.RequestedSpace(availableWidth, availableHeight)
	usedWidth := availableWidth
	if b.self.FixedWidth() {
		usedWidth = math.Min(availableWidth, req.Width)
	}
	usedHeight := availableHeight
	if b.self.FixedHeight() {
		usedHeight = math.Min(availableHeight, req.Height)
	}

	b.origin = Point{
		X: origin.X + (availableWidth-usedWidth)*b.xAlign.Proportion() + b.xOffset,
		Y: origin.Y + (availableHeight-usedHeight)*b.yAlign.Proportion() + b.yOffset,
	}
	resized := usedWidth != b.width || usedHeight != b.height
	b.width, b.height = usedWidth, usedHeight
	b.surface.SetRect(b.Bounds())

	if resized {
		for _, cb := range slices.Clone(b.onResize) {
			cb.fn(usedWidth, usedHeight)
		}
	}
	return nil
}

// =============================================================================
// Lifecycle
// =============================================================================

// Anchor attaches the component to a region created under surface and
// requests its first layout. A nil env means [DefaultEnv].
func (b *Base) Anchor(env *Env, surface Surface) error {
	return b.anchor(env, surface, true)
}

func (b *Base) anchor(env *Env, surface Surface, request bool) error {
	if b.destroyed {
		return errors.Precondition("cannot anchor destroyed component %s", Describe(b.self))
	}
	if surface == nil {
		return errors.Configuration("cannot anchor %s to a nil surface", Describe(b.self))
	}
	if env == nil {
		env = DefaultEnv()
	}
	if b.anchored {
		b.unanchor(true)
	}

	b.env = env
	b.host = nil
	if rs, ok := surface.(RootSurface); ok && b.parent == nil {
		b.host = rs
	}
	b.surface = surface.CreateChild(b.regionName())
	if b.clip {
		b.clipID = env.NextID("clip")
		b.surface.Clip(b.clipID)
	}
	b.anchored = true

	for _, t := range b.trackers {
		t.subscribe()
	}
	if ct, ok := b.self.(Container); ok {
		for _, child := range ct.Components() {
			if err := child.core().anchor(env, b.surface, false); err != nil {
				return err
			}
		}
	}
	for _, cb := range slices.Clone(b.onAnchor) {
		cb.fn(b.self)
	}
	if request {
		b.RequestLayout()
	}
	return nil
}

// Detach removes the component from its parent and from its surface, and
// deregisters it from the controller and every tracked broadcaster.
// Detaching a detached component is a no-op.
func (b *Base) Detach() {
	if p := b.parent; p != nil {
		b.parent = nil
		p.release(b.self)
		p.core().RequestLayout()
	}
	b.unanchor(true)
}

func (b *Base) unanchor(removeRegion bool) {
	if !b.anchored {
		return
	}
	if ct, ok := b.self.(Container); ok {
		for _, child := range ct.Components() {
			child.core().unanchor(false)
		}
	}
	b.env.controller.forget(b.self)
	for _, t := range b.trackers {
		t.cancel()
	}
	if removeRegion {
		b.surface.Remove()
	}
	b.surface = nil
	b.host = nil
	b.clipID = ""
	b.hasOffer = false
	b.anchored = false

	for _, cb := range slices.Clone(b.onDetach) {
		cb.fn(b.self)
	}
}

// Destroy detaches the component permanently, together with its children.
// A destroyed component cannot be anchored or added to a container.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.Detach()
	if ct, ok := b.self.(Container); ok {
		for _, child := range ct.Components() {
			child.Destroy()
		}
	}
	b.destroyed = true
	b.trackers = nil
	b.onAnchor, b.onDetach, b.onResize = nil, nil, nil
}

// RenderTo anchors a root component onto surface and performs the first
// layout and render synchronously.
func (b *Base) RenderTo(env *Env, surface RootSurface) error {
	if b.parent != nil {
		return errors.Precondition("RenderTo on non-root component %s", Describe(b.self))
	}
	if surface == nil {
		return errors.Configuration("cannot render %s to a nil surface", Describe(b.self))
	}
	if err := b.anchor(env, surface, false); err != nil {
		return err
	}
	b.env.controller.markLayout(b.self)
	return b.env.controller.FlushNow()
}

// RequestLayout asks the controller to re-layout this component's tree.
// It is a no-op while unanchored; anchoring lays out anyway.
func (b *Base) RequestLayout() {
	if !b.anchored {
		return
	}
	b.env.controller.RequestLayout(b.Root())
}

// RequestRender asks the controller to repaint this component.
func (b *Base) RequestRender() {
	if !b.anchored {
		return
	}
	b.env.controller.RequestRender(b.self)
}

// =============================================================================
// Callbacks
// =============================================================================

// OnAnchor registers fn to run whenever the component is anchored. If it is
// already anchored fn runs immediately. The returned func cancels.
func (b *Base) OnAnchor(fn func(Component)) (cancel func()) {
	id := b.callbackID()
	b.onAnchor = append(b.onAnchor, callback[func(Component)]{id, fn})
	if b.anchored {
		fn(b.self)
	}
	return func() { b.onAnchor = dropCallback(b.onAnchor, id) }
}

// OnDetach registers fn to run whenever the component is detached.
func (b *Base) OnDetach(fn func(Component)) (cancel func()) {
	id := b.callbackID()
	b.onDetach = append(b.onDetach, callback[func(Component)]{id, fn})
	return func() { b.onDetach = dropCallback(b.onDetach, id) }
}

// OnResize registers fn to run when a layout changes the component's size.
func (b *Base) OnResize(fn func(width, height float64)) (cancel func()) {
	id := b.callbackID()
	b.onResize = append(b.onResize, callback[func(float64, float64)]{id, fn})
	return func() { b.onResize = dropCallback(b.onResize, id) }
}

func (b *Base) callbackID() int {
	b.nextCallback++
	return b.nextCallback
}

func dropCallback[F any](cbs []callback[F], id int) []callback[F] {
	return slices.DeleteFunc(cbs, func(cb callback[F]) bool { return cb.id == id })
}

// =============================================================================
// Geometry
// =============================================================================

// Origin returns the computed origin relative to the parent region.
func (b *Base) Origin() Point { return b.origin }

// Width returns the computed width.
func (b *Base) Width() float64 { return b.width }

// Height returns the computed height.
func (b *Base) Height() float64 { return b.height }

// Bounds returns the computed rectangle relative to the parent region.
func (b *Base) Bounds() Rect {
	return Rect{Origin: b.origin, Size: Size{Width: b.width, Height: b.height}}
}

// OriginToRoot returns the origin relative to the root's surface.
func (b *Base) OriginToRoot() Point {
	p := b.origin
	for c := b.parent; c != nil; c = c.Parent() {
		p = p.Add(c.core().origin)
	}
	return p
}

// LastOffer returns the most recent ComputeLayout arguments.
// ok is false if the component has not been laid out since anchoring.
func (b *Base) LastOffer() (origin Point, width, height float64, ok bool) {
	return b.lastOrigin, b.lastWidth, b.lastHeight, b.hasOffer
}

// =============================================================================
// Tree
// =============================================================================

// Parent returns the owning container, or nil for a root.
func (b *Base) Parent() Container { return b.parent }

// Root returns the topmost ancestor, which may be the component itself.
func (b *Base) Root() Component {
	var c Component = b.self
	for c.Parent() != nil {
		c = c.Parent()
	}
	return c
}

// IsRoot reports whether the component has no parent.
func (b *Base) IsRoot() bool { return b.parent == nil }

// Anchored reports whether the component is attached to a surface.
func (b *Base) Anchored() bool { return b.anchored }

// Destroyed reports whether Destroy was called.
func (b *Base) Destroyed() bool { return b.destroyed }

// Env returns the Env the component was last anchored through, or nil.
func (b *Base) Env() *Env { return b.env }

// Surface returns the component's region, or nil while unanchored.
func (b *Base) Surface() Surface { return b.surface }

// Canvas returns the region as a Canvas if the surface supports painting.
func (b *Base) Canvas() (Canvas, bool) {
	if b.surface == nil {
		return nil, false
	}
	c, ok := b.surface.(Canvas)
	return c, ok
}

// canAdopt checks that c may become a child of b.
func (b *Base) canAdopt(c Component) error {
	if c == nil {
		return errors.Configuration("cannot add nil component to %s", Describe(b.self))
	}
	if c.core().destroyed {
		return errors.Precondition("cannot add destroyed component %s", Describe(c))
	}
	var p Component = b.self
	for p != nil {
		if p == c {
			return errors.Configuration("adding %s to %s would create a cycle", Describe(c), Describe(b.self))
		}
		parent := p.Parent()
		if parent == nil {
			break
		}
		p = parent
	}
	return nil
}

// attach finishes adopting c, which the container has already stored.
func (b *Base) attach(c Component) error {
	cb := c.core()
	cb.parent = b.self.(Container)
	if b.anchored {
		if err := cb.anchor(b.env, b.surface, false); err != nil {
			return err
		}
	}
	b.RequestLayout()
	return nil
}

// =============================================================================
// Presentation
// =============================================================================

// XAlign returns the horizontal alignment.
func (b *Base) XAlign() Alignment { return b.xAlign }

// YAlign returns the vertical alignment.
func (b *Base) YAlign() Alignment { return b.yAlign }

// SetXAlign sets the horizontal alignment from a keyword (see [ParseXAlign]).
func (b *Base) SetXAlign(keyword string) error {
	a, err := ParseXAlign(keyword)
	if err != nil {
		return err
	}
	b.xAlign = a
	b.RequestLayout()
	return nil
}

// SetYAlign sets the vertical alignment from a keyword (see [ParseYAlign]).
func (b *Base) SetYAlign(keyword string) error {
	a, err := ParseYAlign(keyword)
	if err != nil {
		return err
	}
	b.yAlign = a
	b.RequestLayout()
	return nil
}

// XOffset returns the horizontal pixel offset applied after alignment.
func (b *Base) XOffset() float64 { return b.xOffset }

// YOffset returns the vertical pixel offset applied after alignment.
func (b *Base) YOffset() float64 { return b.yOffset }

// SetXOffset sets the horizontal pixel offset.
func (b *Base) SetXOffset(v float64) {
	b.xOffset = v
	b.RequestLayout()
}

// SetYOffset sets the vertical pixel offset.
func (b *Base) SetYOffset(v float64) {
	b.yOffset = v
	b.RequestLayout()
}

// Name returns the component's name.
func (b *Base) Name() string { return b.name }

// SetName sets the name used for the surface region.
func (b *Base) SetName(name string) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	b.name = name
	b.syncRegionName()
	return nil
}

// Classes returns the component's classes in insertion order.
func (b *Base) Classes() []string { return slices.Clone(b.classes) }

// HasClass reports whether the component carries class.
func (b *Base) HasClass(class string) bool { return slices.Contains(b.classes, class) }

// AddClass adds classes. Duplicates and names that are not valid
// identifiers are ignored.
func (b *Base) AddClass(classes ...string) {
	for _, c := range classes {
		if c == "" || strings.Contains(c, ".") || errors.ValidateName(c) != nil || b.HasClass(c) {
			continue
		}
		b.classes = append(b.classes, c)
	}
	b.syncRegionName()
}

// RemoveClass removes classes.
func (b *Base) RemoveClass(classes ...string) {
	b.classes = slices.DeleteFunc(b.classes, func(c string) bool { return slices.Contains(classes, c) })
	b.syncRegionName()
}

// ClipOverflow reports whether the region is clipped to its rectangle.
func (b *Base) ClipOverflow() bool { return b.clip }

// SetClipOverflow clips or unclips the region.
func (b *Base) SetClipOverflow(clip bool) {
	if b.clip == clip {
		return
	}
	b.clip = clip
	if !b.anchored {
		return
	}
	if clip {
		b.clipID = b.env.NextID("clip")
	} else {
		b.clipID = ""
	}
	b.surface.Clip(b.clipID)
	b.RequestRender()
}

// ClipID returns the id the region is clipped under, or "".
func (b *Base) ClipID() string { return b.clipID }

func (b *Base) regionName() string {
	var sb strings.Builder
	sb.WriteString(b.name)
	for _, c := range b.classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	return sb.String()
}

func (b *Base) syncRegionName() {
	if b.surface != nil {
		b.surface.SetName(b.regionName())
	}
}

// Describe returns the component's quoted name, or its type when unnamed.
func Describe(c Component) string {
	if c == nil {
		return "<nil>"
	}
	if name := c.core().name; name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("%T", c)
}
