package component

import "slices"

// Broadcaster is anything that announces changes, such as a scale whose
// domain moved.
type Broadcaster interface {
	Subscribe(fn func()) Subscription
}

// Subscription is a registration with a Broadcaster.
type Subscription interface {
	Cancel()
}

// Notifier is a simple Broadcaster.
type Notifier struct {
	subs []*notifierSub
}

type notifierSub struct {
	n  *Notifier
	fn func()
}

// Subscribe registers fn.
func (n *Notifier) Subscribe(fn func()) Subscription {
	s := &notifierSub{n: n, fn: fn}
	n.subs = append(n.subs, s)
	return s
}

// Cancel removes the subscription. Cancelling twice is a no-op.
func (s *notifierSub) Cancel() {
	if s.n == nil {
		return
	}
	s.n.subs = slices.DeleteFunc(s.n.subs, func(o *notifierSub) bool { return o == s })
	s.n = nil
}

// Broadcast calls every subscriber registered at the time of the call.
func (n *Notifier) Broadcast() {
	for _, s := range slices.Clone(n.subs) {
		if s.n != nil {
			s.fn()
		}
	}
}

// Len returns the number of live subscriptions.
func (n *Notifier) Len() int { return len(n.subs) }

type tracker struct {
	src Broadcaster
	fn  func()
	sub Subscription
}

func (t *tracker) subscribe() {
	if t.sub == nil {
		t.sub = t.src.Subscribe(t.fn)
	}
}

func (t *tracker) cancel() {
	if t.sub != nil {
		t.sub.Cancel()
		t.sub = nil
	}
}

// Track subscribes fn to src while the component is anchored: on every
// anchor it subscribes, on every detach it cancels. A nil fn requests a
// render. The returned func stops tracking.
func (b *Base) Track(src Broadcaster, fn func()) (cancel func()) {
	if fn == nil {
		fn = b.RequestRender
	}
	t := &tracker{src: src, fn: fn}
	b.trackers = append(b.trackers, t)
	if b.anchored {
		t.subscribe()
	}
	return func() {
		t.cancel()
		b.trackers = slices.DeleteFunc(b.trackers, func(o *tracker) bool { return o == t })
	}
}
