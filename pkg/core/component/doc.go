// Package component implements the layout core: the component negotiation
// protocol, the Group overlay container, the Table grid allocator and the
// render Controller that coalesces layout and render requests.
//
// # Negotiation
//
// Layout is a two-phase protocol between a container and its children. The
// container first asks each child what it needs for a given offer:
//
//	req := child.RequestedSpace(offeredWidth, offeredHeight)
//
// RequestedSpace is pure. A child may ask for more than it is offered; the
// container grants the request as a floor and the shortage is reported
// upward through [SpaceRequest.WantsMoreWidth] and
// [SpaceRequest.WantsMoreHeight]. Shortage is never an error.
//
// The container then assigns each child its rectangle:
//
//	err := child.ComputeLayout(origin, width, height)
//
// A fixed-size child uses min(available, requested) and is placed inside the
// offer according to its alignment; a flexible child takes everything.
//
// # Scheduling
//
// Mutations never lay out synchronously. They call [Base.RequestLayout] or
// [Base.RequestRender], which enqueue the component with the [Controller]
// owned by its [Env]. The controller's [Policy] decides when the pending
// work is flushed:
//
//	env := component.NewEnv(component.WithPolicy(component.Immediate{}))
//	table := component.NewTable()
//	table.Add(component.NewFixed(50, 50), 0, 0)
//	err := table.RenderTo(env, surface)
//
// # Custom components
//
// Components embed [Base] and call [Base.Init] with themselves so that the
// shared lifecycle code can dispatch to their overrides:
//
//	type Plot struct {
//	    component.Base
//	}
//
//	func NewPlot() *Plot {
//	    p := &Plot{}
//	    p.Init(p)
//	    return p
//	}
package component
