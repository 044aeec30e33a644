package component

import (
	stderrors "errors"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotgrid/pkg/observability"
)

// State is the scheduling state of a Controller.
type State int

const (
	StateIdle State = iota
	StateScheduled
	StateFlushing
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateFlushing:
		return "flushing"
	default:
		return "idle"
	}
}

// Controller coalesces layout and render requests and flushes them when
// its Policy says so.
//
// The layout and render sets are disjoint: a layout implies a render. Each
// flush snapshots and clears both sets before doing any work, so requests
// made while flushing wait for the next flush.
type Controller struct {
	policy Policy
	state  State
	logger *log.Logger
	hooks  observability.LayoutHooks

	layoutDirty *orderedSet
	renderDirty *orderedSet
	failed      *orderedSet

	// rescheduling is set while Flush hands leftover entries to the policy.
	rescheduling bool
}

func newController(p Policy, logger *log.Logger, hooks observability.LayoutHooks) *Controller {
	return &Controller{
		policy:      p,
		logger:      logger,
		hooks:       hooks,
		layoutDirty: newOrderedSet(),
		renderDirty: newOrderedSet(),
		failed:      newOrderedSet(),
	}
}

// State returns the current scheduling state.
func (c *Controller) State() State { return c.state }

// Policy returns the scheduling policy.
func (c *Controller) Policy() Policy { return c.policy }

// SetPolicy replaces the scheduling policy. A flush already scheduled with
// the old policy still runs.
func (c *Controller) SetPolicy(p Policy) {
	if p != nil {
		c.policy = p
	}
}

// Pending returns the number of queued layout and render entries.
func (c *Controller) Pending() (layout, render int) {
	return c.layoutDirty.len(), c.renderDirty.len()
}

// RequestLayout queues comp to be laid out again with its last offer, or
// with its surface size when it is a root.
func (c *Controller) RequestLayout(comp Component) {
	if !c.markLayout(comp) {
		return
	}
	c.schedule()
}

func (c *Controller) markLayout(comp Component) bool {
	if comp == nil || !comp.Anchored() {
		return false
	}
	c.renderDirty.remove(comp)
	c.layoutDirty.add(comp)
	return true
}

// RequestRender queues comp to be painted again. It is a no-op when comp is
// already queued for layout.
func (c *Controller) RequestRender(comp Component) {
	if comp == nil || !comp.Anchored() || c.layoutDirty.has(comp) {
		return
	}
	c.renderDirty.add(comp)
	c.schedule()
}

func (c *Controller) schedule() {
	if c.state != StateIdle {
		return
	}
	c.state = StateScheduled
	c.policy.Schedule(c.flushScheduled)
}

func (c *Controller) flushScheduled() {
	if c.rescheduling {
		// The policy ran the flush synchronously from the end of a flush.
		// Leave the entries queued; the next request or FlushNow drains them.
		c.state = StateIdle
		return
	}
	// Failures are logged and retried by Flush itself.
	_ = c.Flush()
}

// FlushNow flushes synchronously regardless of the policy.
func (c *Controller) FlushNow() error {
	return c.Flush()
}

// Flush processes every queued entry. Layout entries are handled ancestors
// first; an entry whose ancestor is queued too is covered by the ancestor.
// Render failures are returned, reported to the hooks and retried on the
// next flush. Calling Flush while flushing is a no-op.
//
// Entries queued while flushing are handed to the policy once the pass is
// done. A policy that flushes synchronously, such as Immediate, does not
// get to run them from there: they stay queued, the controller returns to
// idle, and they are processed by the next request or FlushNow.
func (c *Controller) Flush() error {
	if c.state == StateFlushing {
		return nil
	}
	c.state = StateFlushing
	start := time.Now()

	layout := c.layoutDirty.drain()
	render := c.renderDirty.drain()
	for _, comp := range c.failed.drain() {
		if !slices.Contains(layout, comp) && !slices.Contains(render, comp) {
			render = append(render, comp)
		}
	}
	c.hooks.OnFlushStart(len(layout), len(render))
	c.logger.Debug("flush", "layout", len(layout), "render", len(render))

	queued := make(map[Component]bool, len(layout))
	for _, comp := range layout {
		queued[comp] = true
	}
	slices.SortStableFunc(layout, func(a, b Component) int { return depth(a) - depth(b) })

	var errs []error
	var processed []Component
	for _, comp := range layout {
		if !comp.Anchored() || hasAncestorIn(comp, queued) {
			continue
		}
		if err := c.relayout(comp); err != nil {
			c.logger.Error("layout failed", "component", Describe(comp), "err", err)
			errs = append(errs, err)
			continue
		}
		processed = append(processed, comp)
	}

	rendered := make(map[Component]bool)
	for _, comp := range processed {
		errs = append(errs, c.renderTree(comp, rendered)...)
	}
	covered := make(map[Component]bool, len(processed))
	for _, comp := range processed {
		covered[comp] = true
	}
	for _, comp := range render {
		if !comp.Anchored() || covered[comp] || hasAncestorIn(comp, covered) {
			continue
		}
		errs = append(errs, c.renderTree(comp, rendered)...)
	}

	c.hooks.OnFlushComplete(len(processed), len(rendered), time.Since(start))

	if c.layoutDirty.len() > 0 || c.renderDirty.len() > 0 {
		c.state = StateScheduled
		c.rescheduling = true
		c.policy.Schedule(c.flushScheduled)
		c.rescheduling = false
	} else {
		c.state = StateIdle
	}
	return stderrors.Join(errs...)
}

func (c *Controller) relayout(comp Component) error {
	b := comp.core()
	if b.parent == nil && b.host != nil {
		size := b.host.Size()
		return comp.ComputeLayout(Point{}, size.Width, size.Height)
	}
	if b.hasOffer {
		return comp.ComputeLayout(b.lastOrigin, b.lastWidth, b.lastHeight)
	}
	c.logger.Debug("skip layout without offer", "component", Describe(comp))
	return nil
}

func (c *Controller) renderTree(comp Component, rendered map[Component]bool) []error {
	if rendered[comp] {
		return nil
	}
	rendered[comp] = true
	var errs []error
	if err := comp.RenderImmediately(); err != nil {
		name := Describe(comp)
		c.failed.add(comp)
		c.hooks.OnRenderError(name, err)
		c.logger.Error("render failed", "component", name, "err", err)
		errs = append(errs, err)
	}
	if ct, ok := comp.(Container); ok {
		for _, child := range ct.Components() {
			errs = append(errs, c.renderTree(child, rendered)...)
		}
	}
	return errs
}

// forget drops comp from every queue.
func (c *Controller) forget(comp Component) {
	c.layoutDirty.remove(comp)
	c.renderDirty.remove(comp)
	c.failed.remove(comp)
}

func depth(comp Component) int {
	d := 0
	for p := comp.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

func hasAncestorIn(comp Component, set map[Component]bool) bool {
	for p := comp.Parent(); p != nil; p = p.Parent() {
		if set[p] {
			return true
		}
	}
	return false
}

// orderedSet is an insertion-ordered set of components.
type orderedSet struct {
	index map[Component]int
	items []Component
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[Component]int)}
}

func (s *orderedSet) add(c Component) {
	if _, ok := s.index[c]; ok {
		return
	}
	s.index[c] = len(s.items)
	s.items = append(s.items, c)
}

func (s *orderedSet) has(c Component) bool {
	_, ok := s.index[c]
	return ok
}

func (s *orderedSet) remove(c Component) {
	i, ok := s.index[c]
	if !ok {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	delete(s.index, c)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
}

func (s *orderedSet) len() int { return len(s.items) }

// drain returns the items and empties the set.
func (s *orderedSet) drain() []Component {
	items := s.items
	s.items = nil
	s.index = make(map[Component]int)
	return items
}
