package component

import (
	"context"
	"sync"
	"time"
)

// Policy decides when a scheduled flush runs.
type Policy interface {
	// Schedule arranges for flush to be called once. It is called only
	// from the goroutine that owns the components.
	Schedule(flush func())
}

// Immediate flushes synchronously inside the request that scheduled it.
type Immediate struct{}

// Schedule calls flush.
func (Immediate) Schedule(flush func()) { flush() }

// Deferred holds the flush until the host calls RunPending, typically on
// its frame tick.
type Deferred struct {
	pending func()
}

// Schedule records flush. Scheduling again before RunPending replaces it.
func (d *Deferred) Schedule(flush func()) { d.pending = flush }

// Pending reports whether a flush is waiting.
func (d *Deferred) Pending() bool { return d.pending != nil }

// RunPending runs the waiting flush, if any, and reports whether it did.
func (d *Deferred) RunPending() bool {
	f := d.pending
	if f == nil {
		return false
	}
	d.pending = nil
	f()
	return true
}

// Timeout runs the flush on a Loop after Delay.
type Timeout struct {
	Loop  *Loop
	Delay time.Duration
}

// Schedule starts a timer that posts flush onto the loop.
func (t Timeout) Schedule(flush func()) {
	time.AfterFunc(t.Delay, func() { t.Loop.Post(flush) })
}

// Loop serializes closures onto the goroutine that calls Run. Other
// goroutines only Post; everything that touches components runs inside Run.
//
// A Loop is also a Policy that runs the flush on the next turn of the loop.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop returns a loop whose queue holds up to buffer closures before
// Post blocks.
func NewLoop(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), max(buffer, 1)),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Schedule posts flush onto the loop.
func (l *Loop) Schedule(flush func()) { l.Post(flush) }

// Run executes posted closures until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed after Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
